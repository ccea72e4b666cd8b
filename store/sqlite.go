package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medassist/models"
)

// SQLite is the single-file backend used for local development and tests.
type SQLite struct {
	db *gorm.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// every connection to ":memory:" would otherwise see its own empty database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.MedicalRecord{}, &models.Feedback{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) CreateUser(ctx context.Context, u *models.User) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ? OR email = ?", u.Username, u.Email).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if n > 0 {
		return ErrDuplicateUser
	}

	newID(&u.ID)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLite) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.firstUser(ctx, "username = ?", username)
}

func (s *SQLite) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.firstUser(ctx, "id = ?", id)
}

func (s *SQLite) firstUser(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *SQLite) AddMedicalRecord(ctx context.Context, rec *models.MedicalRecord) error {
	newID(&rec.ID)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert medical record: %w", err)
	}
	return nil
}

func (s *SQLite) MedicalRecordsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.MedicalRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	records := []models.MedicalRecord{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query medical records: %w", err)
	}
	return records, nil
}

func (s *SQLite) AddFeedback(ctx context.Context, fb *models.Feedback) error {
	newID(&fb.ID)
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(fb).Error; err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (s *SQLite) FeedbackCount(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Feedback{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLite) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}
