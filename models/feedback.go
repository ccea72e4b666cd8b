package models

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID        uuid.UUID `db:"id" gorm:"type:text;primaryKey"`
	UserID    uuid.UUID `db:"user_id" gorm:"type:text;index;not null"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

func (Feedback) TableName() string {
	return "feedback"
}
