package models

import (
	"time"
)

// Metadata это generic key-value таблица. Единственный ключ, который сейчас
// используется, это "version" с номером последней применённой миграции.
type Metadata struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Metadata) TableName() string { return "metadata" }
