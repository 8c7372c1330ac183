package database

import (
	"github.com/thereayou/chirp/internal/models"
)

func (d *Database) CreateAccount(account *models.Account) error {
	if err := d.db.Create(account).Error; err != nil {
		return err
	}
	return nil
}

func (d *Database) FindAccount(username string) (*models.Account, error) {
	account := models.Account{}
	if err := d.db.First(&account, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &account, nil
}
