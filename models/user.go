package models

import (
	"time"

	"github.com/google/uuid"
)

// User model
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Email     string  `gorm:"size:255;not null;uniqueIndex"`
	Username  string  `gorm:"size:255;not null;uniqueIndex"`
	Password  []byte  `gorm:"not null" json:"-"`
	Role      string  `gorm:"size:32;not null;default:USER"`
	AvatarURL string  `gorm:"size:512"`
	Tokens    []Token `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
