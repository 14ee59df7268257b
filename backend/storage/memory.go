package storage

import (
	"context"
	"sync"

	"github.com/example/wkstats/backend/models"
)

// MemoryStore is an in-memory BlobStore used in tests.
type MemoryStore struct {
	mu      sync.Mutex
	dataset models.Dataset
	written bool

	// LoadErr and SaveErr, when set, are returned instead of the data.
	LoadErr error
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (models.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if !s.written {
		return nil, ErrNotFound
	}
	out := models.Dataset{}
	for k, v := range s.dataset {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Save(ctx context.Context, dataset models.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.dataset = models.Dataset{}
	for k, v := range dataset {
		s.dataset[k] = v
	}
	s.written = true
	return nil
}

// Seed replaces the stored dataset directly, bypassing Save errors.
func (s *MemoryStore) Seed(dataset models.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = dataset
	s.written = true
}
