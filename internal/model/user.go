package model

type User struct {
	BaseModel
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Name         string `gorm:"size:255" json:"name,omitempty"`
	Bio          string `gorm:"type:text" json:"bio,omitempty"`
}

func (User) TableName() string {
	return "users"
}
