package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/medshelf/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory medicine repository used in
// development and tests. Records keep their insertion order, matching the
// ID ordering of the Postgres store.
type MemoryStore struct {
	records []domain.MedicineRecord
	nextID  uint
	mutex   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// List returns a copy of all records in insertion order.
func (s *MemoryStore) List(ctx context.Context) ([]domain.MedicineRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	records := make([]domain.MedicineRecord, len(s.records))
	copy(records, s.records)
	return records, nil
}

// GetByID fetches a single record.
func (s *MemoryStore) GetByID(ctx context.Context, id uint) (*domain.MedicineRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, domain.ErrMedicineNotFound
}

// FindByName looks up a record by case-insensitive exact name.
func (s *MemoryStore) FindByName(ctx context.Context, name string) (*domain.MedicineRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	query := strings.ToLower(strings.TrimSpace(name))
	for i := range s.records {
		if strings.ToLower(s.records[i].Name) == query {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, domain.ErrMedicineNotFound
}

// Create inserts a new record, assigning the next ID in insertion order.
func (s *MemoryStore) Create(ctx context.Context, record *domain.MedicineRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	query := strings.ToLower(strings.TrimSpace(record.Name))
	for i := range s.records {
		if strings.ToLower(s.records[i].Name) == query {
			return domain.ErrDuplicateMedicine
		}
	}

	now := time.Now()
	record.ID = s.nextID
	record.CreatedAt = now
	record.UpdatedAt = now
	s.nextID++
	s.records = append(s.records, *record)
	return nil
}

// Update saves changes to an existing record.
func (s *MemoryStore) Update(ctx context.Context, record *domain.MedicineRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i := range s.records {
		if s.records[i].ID == record.ID {
			record.CreatedAt = s.records[i].CreatedAt
			record.UpdatedAt = time.Now()
			s.records[i] = *record
			return nil
		}
	}
	return domain.ErrMedicineNotFound
}

// Names returns all medicine names in insertion order.
func (s *MemoryStore) Names(ctx context.Context) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	names := make([]string, 0, len(s.records))
	for i := range s.records {
		names = append(names, s.records[i].Name)
	}
	return names, nil
}
