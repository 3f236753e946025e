// Package store provides implementations of the medicine inventory
// repository: a GORM-backed Postgres store and an in-memory store for
// development and tests.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/medshelf/backend/internal/domain"
)

// PostgresStore persists medicine records in Postgres via GORM.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens the connection, configures the pool and migrates
// the medicines table.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	if err := db.AutoMigrate(&domain.MedicineRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate medicines table: %w", err)
	}

	log.Info().Str("component", "store").Msg("postgres store connected")
	return &PostgresStore{db: db}, nil
}

// List returns all records ordered by ID so the matcher's first-by-insertion
// tie-break holds.
func (s *PostgresStore) List(ctx context.Context) ([]domain.MedicineRecord, error) {
	var records []domain.MedicineRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return records, nil
}

// GetByID fetches a single record.
func (s *PostgresStore) GetByID(ctx context.Context, id uint) (*domain.MedicineRecord, error) {
	var record domain.MedicineRecord
	err := s.db.WithContext(ctx).First(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMedicineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return &record, nil
}

// FindByName looks up a record by case-insensitive exact name.
func (s *PostgresStore) FindByName(ctx context.Context, name string) (*domain.MedicineRecord, error) {
	var record domain.MedicineRecord
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("id").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMedicineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return &record, nil
}

// Create inserts a new record. Names are unique within the store.
func (s *PostgresStore) Create(ctx context.Context, record *domain.MedicineRecord) error {
	if _, err := s.FindByName(ctx, record.Name); err == nil {
		return domain.ErrDuplicateMedicine
	} else if !errors.Is(err, domain.ErrMedicineNotFound) {
		return err
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Update saves changes to an existing record. The mutable columns are
// selected explicitly: struct-form Updates skips zero values otherwise, and
// quantity 0 (sold out) or a cleared brand name must persist.
func (s *PostgresStore) Update(ctx context.Context, record *domain.MedicineRecord) error {
	result := s.db.WithContext(ctx).Model(&domain.MedicineRecord{}).
		Where("id = ?", record.ID).
		Select("brand_name", "quantity", "price_per_unit").
		Updates(record)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrMedicineNotFound
	}
	return nil
}

// Names returns all medicine names ordered by ID.
func (s *PostgresStore) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&domain.MedicineRecord{}).
		Order("id").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return names, nil
}
