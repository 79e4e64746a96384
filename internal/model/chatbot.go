package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatBot struct {
	BaseModel
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	SystemPrompt   string     `gorm:"type:text;not null" json:"system_prompt"`
	WelcomeMessage string     `gorm:"type:text;not null" json:"welcome_message"`
	Theme          string     `gorm:"size:50;not null" json:"theme"`
	PrimaryColor   string     `gorm:"size:50;not null" json:"primary_color"`
	Settings       JSONMap    `gorm:"type:json" json:"settings,omitempty"`
	LastTrained    *time.Time `json:"last_trained,omitempty"`

	User      *User      `gorm:"foreignKey:UserID" json:"-"`
	Documents []Document `gorm:"many2many:chatbot_documents" json:"documents,omitempty"`
}

func (ChatBot) TableName() string {
	return "chat_bots"
}

// DocumentIDs returns the ids of the documents currently backing the bot.
func (b *ChatBot) DocumentIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.Documents))
	for _, doc := range b.Documents {
		ids = append(ids, doc.ID)
	}
	return ids
}
