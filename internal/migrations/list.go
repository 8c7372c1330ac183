package migrations

import (
	"gorm.io/gorm"
)

// All это упорядоченный список миграций схемы. Новые миграции добавляются
// только в конец, существующие не редактируются после выката.
var All = []Migration{
	{
		Version: 1,
		Up: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE IF NOT EXISTS account (
    username TEXT PRIMARY KEY,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TRIGGER update_account_updated_at
BEFORE UPDATE ON account
FOR EACH ROW
EXECUTE FUNCTION update_updated_at();
`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS account;`).Error
		},
	},
	{
		Version: 2,
		Up: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE IF NOT EXISTS account_session (
    token TEXT PRIMARY KEY,
    username TEXT NOT NULL REFERENCES account(username),
    expiry TIMESTAMP NOT NULL,
    session_data JSON NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_account_session_username ON account_session(username);

CREATE TRIGGER update_account_session_updated_at
BEFORE UPDATE ON account_session
FOR EACH ROW
EXECUTE FUNCTION update_updated_at();
`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS account_session;`).Error
		},
	},
	{
		Version: 3,
		Up: func(db *gorm.DB) error {
			return db.Exec(`
CREATE TABLE IF NOT EXISTS tweet (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username TEXT NOT NULL REFERENCES account(username),
    text TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tweet_created_at ON tweet(created_at DESC);

CREATE TRIGGER update_tweet_updated_at
BEFORE UPDATE ON tweet
FOR EACH ROW
EXECUTE FUNCTION update_updated_at();
`).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS tweet;`).Error
		},
	},
}
