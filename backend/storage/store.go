package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/wkstats/backend/models"
)

// ErrNotFound is returned by Load when the blob has never been written.
var ErrNotFound = errors.New("storage: blob not found")

// BlobStore persists the history dataset as a single JSON document.
// Save replaces the whole document unconditionally; concurrent writers race
// and the last write wins.
type BlobStore interface {
	Load(ctx context.Context) (models.Dataset, error)
	Save(ctx context.Context, dataset models.Dataset) error
}

// StatBlob is the table row holding one serialized dataset document.
type StatBlob struct {
	Container string    `gorm:"primaryKey;size:128"`
	Name      string    `gorm:"primaryKey;size:256"`
	Data      []byte    `gorm:"type:jsonb"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// GormStore keeps the dataset in a postgres table, one row per blob.
type GormStore struct {
	db        *gorm.DB
	container string
	name      string
}

// NewGormStore migrates the blob table and returns a store bound to the
// configured container and blob name.
func NewGormStore(db *gorm.DB, container, name string) (*GormStore, error) {
	if err := db.AutoMigrate(&StatBlob{}); err != nil {
		return nil, fmt.Errorf("failed to migrate blob table: %w", err)
	}
	return &GormStore{db: db, container: container, name: name}, nil
}

func (s *GormStore) Load(ctx context.Context) (models.Dataset, error) {
	var blob StatBlob
	err := s.db.WithContext(ctx).
		Where("container = ? AND name = ?", s.container, s.name).
		First(&blob).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", s.container, s.name, err)
	}

	var dataset models.Dataset
	if err := json.Unmarshal(blob.Data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse blob %s/%s: %w", s.container, s.name, err)
	}
	return dataset, nil
}

func (s *GormStore) Save(ctx context.Context, dataset models.Dataset) error {
	data, err := json.Marshal(dataset)
	if err != nil {
		return fmt.Errorf("failed to serialize dataset: %w", err)
	}

	blob := StatBlob{Container: s.container, Name: s.name, Data: data}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "container"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&blob).Error
	if err != nil {
		return fmt.Errorf("failed to write blob %s/%s: %w", s.container, s.name, err)
	}
	return nil
}
