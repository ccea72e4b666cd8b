// Package store persists users, uploaded medical records and feedback.
// PostgreSQL is served through pgx, SQLite through gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"medassist/config"
	"medassist/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateUser = errors.New("username or email already registered")
)

type Store interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	AddMedicalRecord(ctx context.Context, rec *models.MedicalRecord) error
	MedicalRecordsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.MedicalRecord, error)

	AddFeedback(ctx context.Context, fb *models.Feedback) error
	FeedbackCount(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
	Close()
}

// Open connects to the driver named by cfg.DBDriver and brings the schema
// up to date.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		pg, err := NewPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		if _, err := NewMigrator(pg.Pool()).Up(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	case "sqlite":
		return NewSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

// newID assigns a fresh id unless the caller already chose one.
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
