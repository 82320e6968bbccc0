package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store bundles the repositories of one backend with its lifecycle.
type Store struct {
	Users    UserRepository
	Holidays HolidayRepository

	ping  func(ctx context.Context) error
	close func() error
}

// NewGormStore wraps an open GORM connection.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Holidays: NewHolidayRepository(db),
		ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("get sql db: %w", err)
			}
			return sqlDB.PingContext(ctx)
		},
		close: func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("get sql db: %w", err)
			}
			return sqlDB.Close()
		},
	}
}

// NewFileBackedStore wraps a FileStore.
func NewFileBackedStore(fs *FileStore) *Store {
	return &Store{
		Users:    fs.Users(),
		Holidays: fs.Holidays(),
		ping:     fs.Ping,
		close:    fs.Close,
	}
}

// Ping reports whether the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
