package migrations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStore struct {
	version int
	getErr  error
	sets    []int
}

func (s *fakeStore) CurrentVersion() (int, error) {
	if s.getErr != nil {
		return 0, s.getErr
	}
	return s.version, nil
}

func (s *fakeStore) SetVersion(version int) error {
	s.version = version
	s.sets = append(s.sets, version)
	return nil
}

// journal записывает порядок выполнения up/down по версиям.
type journal struct {
	ups   []int
	downs []int
}

func (j *journal) migration(version int, upErr, downErr error) Migration {
	return Migration{
		Version: version,
		Up: func(db *gorm.DB) error {
			if upErr != nil {
				return upErr
			}
			j.ups = append(j.ups, version)
			return nil
		},
		Down: func(db *gorm.DB) error {
			if downErr != nil {
				return downErr
			}
			j.downs = append(j.downs, version)
			return nil
		},
	}
}

func threeMigrations(j *journal) []Migration {
	return []Migration{
		j.migration(1, nil, nil),
		j.migration(2, nil, nil),
		j.migration(3, nil, nil),
	}
}

func TestApplyFromScratch(t *testing.T) {
	j := &journal{}
	store := &fakeStore{}
	r := NewRunner(nil, store, threeMigrations(j))

	require.NoError(t, r.Apply())

	assert.Equal(t, []int{1, 2, 3}, j.ups)
	assert.Equal(t, []int{1, 2, 3}, store.sets)
	assert.Equal(t, 3, store.version)
}

func TestApplyAlreadyAtLatest(t *testing.T) {
	j := &journal{}
	store := &fakeStore{version: 3}
	r := NewRunner(nil, store, threeMigrations(j))

	require.NoError(t, r.Apply())

	assert.Empty(t, j.ups)
	assert.Empty(t, store.sets)
	assert.Equal(t, 3, store.version)
}

func TestApplyResumesAfterCurrentVersion(t *testing.T) {
	j := &journal{}
	store := &fakeStore{version: 1}
	r := NewRunner(nil, store, threeMigrations(j))

	require.NoError(t, r.Apply())

	assert.Equal(t, []int{2, 3}, j.ups)
	assert.Equal(t, 3, store.version)
}

func TestApplyFailureAbortsRemaining(t *testing.T) {
	j := &journal{}
	boom := errors.New("boom")
	migrations := []Migration{
		j.migration(1, nil, nil),
		j.migration(2, boom, nil),
		j.migration(3, nil, nil),
	}
	store := &fakeStore{}
	r := NewRunner(nil, store, migrations)

	err := r.Apply()
	require.ErrorIs(t, err, boom)

	// Применённые шаги не откатываются, версия отражает последний
	// полностью успешный шаг.
	assert.Equal(t, []int{1}, j.ups)
	assert.Equal(t, 1, store.version)
}

func TestApplyStoreReadError(t *testing.T) {
	j := &journal{}
	store := &fakeStore{getErr: errors.New("db down")}
	r := NewRunner(nil, store, threeMigrations(j))

	require.Error(t, r.Apply())
	assert.Empty(t, j.ups)
}

func TestRevertFromLatest(t *testing.T) {
	j := &journal{}
	store := &fakeStore{version: 3}
	r := NewRunner(nil, store, threeMigrations(j))

	require.NoError(t, r.Revert())

	assert.Equal(t, []int{3, 2, 1}, j.downs)
	assert.Equal(t, []int{2, 1, 0}, store.sets)
	assert.Equal(t, 0, store.version)
}

func TestRevertFromVersionOne(t *testing.T) {
	j := &journal{}
	store := &fakeStore{version: 1}
	r := NewRunner(nil, store, threeMigrations(j))

	require.NoError(t, r.Revert())

	assert.Equal(t, []int{1}, j.downs)
	assert.Equal(t, 0, store.version)
}

func TestRevertNothingToRevert(t *testing.T) {
	j := &journal{}
	store := &fakeStore{}
	r := NewRunner(nil, store, threeMigrations(j))

	require.NoError(t, r.Revert())

	assert.Empty(t, j.downs)
	assert.Equal(t, 0, store.version)

	// Повторный запуск так же ничего не делает
	require.NoError(t, r.Revert())
	assert.Empty(t, j.downs)
}

func TestRevertFailureAbortsRemaining(t *testing.T) {
	j := &journal{}
	boom := errors.New("boom")
	migrations := []Migration{
		j.migration(1, nil, nil),
		j.migration(2, nil, boom),
		j.migration(3, nil, nil),
	}
	store := &fakeStore{version: 3}
	r := NewRunner(nil, store, migrations)

	err := r.Revert()
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []int{3}, j.downs)
	assert.Equal(t, 2, store.version)
}
