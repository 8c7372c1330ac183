package models

import (
	"time"

	"github.com/google/uuid"
)

type Tweet struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Username  string    `gorm:"not null"`
	Text      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Связи
	Account Account `gorm:"foreignKey:Username;references:Username"`
}

func (Tweet) TableName() string { return "tweet" }
