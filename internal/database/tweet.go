package database

import (
	"github.com/thereayou/chirp/internal/models"
)

func (d *Database) CreateTweet(tweet *models.Tweet) error {
	return d.db.Create(tweet).Error
}

// ListTweets возвращает всю ленту, новые сверху.
func (d *Database) ListTweets() ([]models.Tweet, error) {
	var tweets []models.Tweet

	err := d.db.
		Order("created_at DESC").
		Find(&tweets).Error

	if err != nil {
		return nil, err
	}

	return tweets, nil
}
