package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationToken is a single-use password reset credential keyed by email.
type VerificationToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Identifier string    `gorm:"size:255;not null;index" json:"identifier"`
	Token      string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Expires    time.Time `gorm:"not null;index" json:"expires"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (t *VerificationToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.Expires)
}
