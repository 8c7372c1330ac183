package migrations

import (
	"errors"
)

// lockKey это ключ advisory lock-а, защищающего прогон мигратора от
// параллельного запуска второго экземпляра.
const lockKey = 0x43485250 // "CHRP"

var ErrLocked = errors.New("another migration run is in progress")

// Bootstrap создаёт таблицу Metadata и триггерную функцию update_updated_at
// безусловно, вне версионируемого списка: без них runner не может вести учёт
// версий, а миграции не могут вешать триггеры.
func (r *Runner) Bootstrap() error {
	return r.db.Exec(`
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE OR REPLACE FUNCTION update_updated_at()
RETURNS TRIGGER AS $$
BEGIN
  NEW.updated_at = CURRENT_TIMESTAMP;
  RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS update_metadata_updated_at ON metadata;

CREATE TRIGGER update_metadata_updated_at
BEFORE UPDATE ON metadata
FOR EACH ROW
EXECUTE FUNCTION update_updated_at();
`).Error
}

// Lock берёт advisory lock в Postgres. Если lock уже занят другим прогоном,
// возвращает ErrLocked вместо ожидания.
func (r *Runner) Lock() error {
	var acquired bool
	if err := r.db.Raw("SELECT pg_try_advisory_lock(?)", lockKey).Scan(&acquired).Error; err != nil {
		return err
	}
	if !acquired {
		return ErrLocked
	}
	return nil
}

func (r *Runner) Unlock() error {
	return r.db.Exec("SELECT pg_advisory_unlock(?)", lockKey).Error
}
