package database

import (
	"github.com/thereayou/chirp/internal/models"
)

func (d *Database) CreateSession(session *models.AccountSession) error {
	return d.db.Create(session).Error
}

// FindSession ищет сессию по токену. Срок действия здесь не проверяется,
// это забота auth gate: протухшая строка остаётся в таблице.
func (d *Database) FindSession(token string) (*models.AccountSession, error) {
	var session models.AccountSession
	if err := d.db.First(&session, "token = ?", token).Error; err != nil {
		return nil, err
	}
	return &session, nil
}
