package database

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thereayou/chirp/internal/models"
)

const versionKey = "version"

// CurrentVersion читает номер последней применённой миграции из Metadata.
// Отсутствие записи означает версию 0 ("ничего не применялось").
func (d *Database) CurrentVersion() (int, error) {
	var meta models.Metadata
	err := d.db.First(&meta, "key = ?", versionKey).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(meta.Value)
}

// SetVersion записывает номер версии upsert-ом, чтобы повторный прогон
// мигратора не спотыкался о primary key.
func (d *Database) SetVersion(version int) error {
	meta := models.Metadata{
		Key:   versionKey,
		Value: strconv.Itoa(version),
	}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}
