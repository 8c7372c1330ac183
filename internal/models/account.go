package models

import (
	"time"
)

type Account struct {
	Username     string `gorm:"primaryKey"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Account) TableName() string { return "account" }
