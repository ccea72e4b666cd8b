package models

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is one uploaded document. StoredPath is empty when the file
// was only kept for the duration of a diagnosis.
type MedicalRecord struct {
	ID         uuid.UUID `db:"id" gorm:"type:text;primaryKey"`
	UserID     uuid.UUID `db:"user_id" gorm:"type:text;index;not null"`
	Filename   string    `db:"filename" gorm:"not null"`
	StoredPath string    `db:"stored_path"`
	Symptoms   string    `db:"symptoms"`
	CreatedAt  time.Time `db:"created_at"`
}

// Retained reports whether the uploaded file was kept on disk.
func (r MedicalRecord) Retained() bool {
	return r.StoredPath != ""
}
