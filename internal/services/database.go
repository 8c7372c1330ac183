package services

import "github.com/thereayou/chirp/internal/models"

// Контракты хранилища. Боевая реализация — database.Database поверх gorm,
// в тестах хэндлеры получают in-memory double.

type AccountStore interface {
	CreateAccount(account *models.Account) error
	FindAccount(username string) (*models.Account, error)
}

type SessionStore interface {
	CreateSession(session *models.AccountSession) error
	FindSession(token string) (*models.AccountSession, error)
}

type TweetStore interface {
	CreateTweet(tweet *models.Tweet) error
	ListTweets() ([]models.Tweet, error)
}

// AuthStore это всё, что нужно register/login/logout.
type AuthStore interface {
	AccountStore
	SessionStore
}

type Store interface {
	AccountStore
	SessionStore
	TweetStore
}
