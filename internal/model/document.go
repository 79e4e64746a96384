package model

import (
	"github.com/google/uuid"
)

type Document struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Filename    string    `gorm:"size:500;not null" json:"filename"`
	Filepath    string    `gorm:"size:1000;not null" json:"filepath"`
	StorageKey  string    `gorm:"size:1000;not null" json:"-"`
	ContentType string    `gorm:"size:100" json:"content_type"`

	User     *User      `gorm:"foreignKey:UserID" json:"-"`
	ChatBots []*ChatBot `gorm:"many2many:chatbot_documents" json:"-"`
}

func (Document) TableName() string {
	return "documents"
}
