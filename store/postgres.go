package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medassist/models"
)

const uniqueViolation = "23505"

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string, maxConns, minConns int32) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MinConns = minConns
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Pool() *pgxpool.Pool {
	return p.pool
}

func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	var exists bool
	stmt := "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)"
	if err := p.pool.QueryRow(ctx, stmt, u.Username, u.Email).Scan(&exists); err != nil {
		return fmt.Errorf("check existing user: %w", err)
	}
	if exists {
		return ErrDuplicateUser
	}

	newID(&u.ID)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	stmt = "INSERT INTO users (id, username, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)"
	_, err := p.pool.Exec(ctx, stmt, u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUser
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (p *Postgres) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	stmt := "SELECT id, username, email, password_hash, created_at FROM users WHERE username = $1"
	return p.scanUser(p.pool.QueryRow(ctx, stmt, username))
}

func (p *Postgres) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	stmt := "SELECT id, username, email, password_hash, created_at FROM users WHERE id = $1"
	return p.scanUser(p.pool.QueryRow(ctx, stmt, id))
}

func (p *Postgres) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (p *Postgres) AddMedicalRecord(ctx context.Context, rec *models.MedicalRecord) error {
	newID(&rec.ID)
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	stmt := `INSERT INTO medical_records (id, user_id, filename, stored_path, symptoms, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := p.pool.Exec(ctx, stmt, rec.ID, rec.UserID, rec.Filename, rec.StoredPath, rec.Symptoms, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert medical record: %w", err)
	}
	return nil
}

func (p *Postgres) MedicalRecordsByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.MedicalRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	stmt := `SELECT id, user_id, filename, stored_path, symptoms, created_at
FROM medical_records WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := p.pool.Query(ctx, stmt, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query medical records: %w", err)
	}
	defer rows.Close()

	records := []models.MedicalRecord{}
	for rows.Next() {
		var r models.MedicalRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Filename, &r.StoredPath, &r.Symptoms, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan medical record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate medical records: %w", err)
	}
	return records, nil
}

func (p *Postgres) AddFeedback(ctx context.Context, fb *models.Feedback) error {
	newID(&fb.ID)
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	stmt := "INSERT INTO feedback (id, user_id, content, created_at) VALUES ($1, $2, $3, $4)"
	if _, err := p.pool.Exec(ctx, stmt, fb.ID, fb.UserID, fb.Content, fb.CreatedAt); err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (p *Postgres) FeedbackCount(ctx context.Context) (int64, error) {
	var n int64
	if err := p.pool.QueryRow(ctx, "SELECT COUNT(*) FROM feedback").Scan(&n); err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() {
	p.pool.Close()
}
