package migrations

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Migration это одна единица изменения схемы. Версии — монотонно растущие
// целые числа, сравниваются и декрементируются только как int.
type Migration struct {
	Version int
	Up      func(db *gorm.DB) error
	Down    func(db *gorm.DB) error
}

// VersionStore хранит номер последней полностью применённой миграции.
type VersionStore interface {
	CurrentVersion() (int, error)
	SetVersion(version int) error
}

type Runner struct {
	db         *gorm.DB
	store      VersionStore
	migrations []Migration
}

func NewRunner(db *gorm.DB, store VersionStore, migrations []Migration) *Runner {
	return &Runner{db: db, store: store, migrations: migrations}
}

// index возвращает позицию версии в списке, -1 если версия не найдена
// (в том числе для нулевой версии "ничего не применялось").
func (r *Runner) index(version int) int {
	for i, m := range r.migrations {
		if m.Version == version {
			return i
		}
	}
	return -1
}

// Apply применяет все миграции после текущей версии по порядку. После каждой
// успешной единицы номер версии сразу записывается в store, поэтому упавшая
// миграция оставляет схему и записанную версию согласованными: применённые
// шаги назад не откатываются.
func (r *Runner) Apply() error {
	current, err := r.store.CurrentVersion()
	if err != nil {
		return fmt.Errorf("reading current version: %w", err)
	}

	idx := r.index(current)
	if idx == len(r.migrations)-1 {
		log.Println("Already at latest version!")
		return nil
	}

	log.Printf("Identified current version as %d. Running migrations...", current)

	pending := r.migrations
	if idx != -1 {
		pending = r.migrations[idx+1:]
	}

	for _, m := range pending {
		log.Printf("Running migration %d...", m.Version)
		if err := m.Up(r.db); err != nil {
			return fmt.Errorf("migration %d: %w", m.Version, err)
		}
		if err := r.store.SetVersion(m.Version); err != nil {
			return fmt.Errorf("recording version %d: %w", m.Version, err)
		}
	}

	return nil
}

// Revert откатывает миграции от текущей позиции до самой первой в обратном
// порядке. После каждой успешной единицы записывается предыдущий номер,
// поэтому после полного отката версия равна 0.
func (r *Runner) Revert() error {
	current, err := r.store.CurrentVersion()
	if err != nil {
		return fmt.Errorf("reading current version: %w", err)
	}

	idx := r.index(current)
	if idx == -1 {
		log.Println("Nothing to revert!")
		return nil
	}

	log.Printf("Identified current version as %d. Reverting migrations...", current)

	for i := idx; i >= 0; i-- {
		m := r.migrations[i]
		log.Printf("Reverting migration %d...", m.Version)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration %d: %w", m.Version, err)
		}
		if err := r.store.SetVersion(m.Version - 1); err != nil {
			return fmt.Errorf("recording version %d: %w", m.Version-1, err)
		}
	}

	return nil
}
