package store_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"medassist/models"
	"medassist/store"
)

// Runs against a disposable database named by TEST_DATABASE_URL.
func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pg, err := store.NewPostgres(ctx, dsn, 4, 0)
	if err != nil {
		t.Fatalf("NewPostgres() error = %v", err)
	}
	defer pg.Close()

	if _, err := store.NewMigrator(pg.Pool()).Up(ctx); err != nil {
		t.Fatalf("Up() error = %v", err)
	}

	name := "pg_" + uuid.NewString()[:8]
	u := &models.User{Username: name, Email: name + "@example.com", PasswordHash: "hash"}
	if err := pg.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if err := pg.CreateUser(ctx, &models.User{Username: name, Email: "x" + u.Email, PasswordHash: "h"}); !errors.Is(err, store.ErrDuplicateUser) {
		t.Errorf("CreateUser(duplicate) error = %v, want %v", err, store.ErrDuplicateUser)
	}

	got, err := pg.UserByUsername(ctx, name)
	if err != nil || got.ID != u.ID {
		t.Fatalf("UserByUsername() = %+v, %v", got, err)
	}

	if err := pg.AddMedicalRecord(ctx, &models.MedicalRecord{UserID: u.ID, Filename: "a.pdf"}); err != nil {
		t.Fatalf("AddMedicalRecord() error = %v", err)
	}
	records, err := pg.MedicalRecordsByUser(ctx, u.ID, 10)
	if err != nil || len(records) != 1 {
		t.Fatalf("MedicalRecordsByUser() = %d records, %v", len(records), err)
	}

	if err := pg.AddFeedback(ctx, &models.Feedback{UserID: u.ID}); err != nil {
		t.Fatalf("AddFeedback() error = %v", err)
	}

	statuses, err := store.NewMigrator(pg.Pool()).Status(ctx)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			t.Errorf("migration %s not applied", s.Name)
		}
	}
}
