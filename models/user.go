package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id" gorm:"type:text;primaryKey"`
	Username     string    `db:"username" gorm:"uniqueIndex;not null"`
	Email        string    `db:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `db:"password_hash" gorm:"not null"`
	CreatedAt    time.Time `db:"created_at"`
}
