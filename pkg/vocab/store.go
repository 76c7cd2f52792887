package vocab

import (
	"encoding/json"
	"errors"

	"github.com/minhtq/tg-vocab-bank/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists one learner's collection as a single blob. There are no
// partial writes: Save always replaces the whole collection.
type Store interface {
	Load(userID int64) ([]Entry, error)
	Save(userID int64, entries []Entry) error
}

// GormStore keeps each learner's bank in one row of the vocab_banks table.
type GormStore struct{}

func NewGormStore() *GormStore {
	return &GormStore{}
}

func (s *GormStore) Load(userID int64) ([]Entry, error) {
	if db.DB == nil {
		return nil, ErrNotFound
	}
	var bank db.VocabBank
	err := db.DB.Where("user_id = ?", userID).First(&bank).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(bank.Entries, &entries); err != nil {
		return nil, errors.Join(ErrCorrupt, err)
	}
	return entries, nil
}

func (s *GormStore) Save(userID int64, entries []Entry) error {
	if db.DB == nil {
		return errors.New("database is not initialized")
	}
	blob, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	bank := db.VocabBank{
		UserID:        userID,
		SchemaVersion: db.CurrentSchemaVersion,
		Entries:       blob,
	}
	return db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"schema_version", "entries", "updated_at"}),
	}).Create(&bank).Error
}
