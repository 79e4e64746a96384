package model

import (
	"github.com/google/uuid"
)

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

type ChatMessage struct {
	BaseModel
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ChatBotID *uuid.UUID `gorm:"type:uuid;index" json:"chatbot_id,omitempty"`
	Sender    string     `gorm:"size:20;not null" json:"sender"`
	Text      string     `gorm:"type:text;not null" json:"text"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	ChatBot *ChatBot `gorm:"foreignKey:ChatBotID" json:"-"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
