package models

import (
	"time"
)

// AccountSession хранит выданный opaque-токен вместе с владельцем и сроком
// действия. Протухшие строки не удаляются, они просто игнорируются при поиске.
type AccountSession struct {
	Token       string         `gorm:"primaryKey"`
	Username    string         `gorm:"not null;index"`
	Expiry      time.Time      `gorm:"not null"`
	SessionData map[string]any `gorm:"serializer:json;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Связи
	Account Account `gorm:"foreignKey:Username;references:Username"`
}

func (AccountSession) TableName() string { return "account_session" }
