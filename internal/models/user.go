package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderCredentials = "credentials"
	ProviderGoogle      = "google"
	ProviderApple       = "apple"
)

// User owns every other row; the has-many constraints below cascade on delete.
type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Name            string     `gorm:"size:100" json:"name"`
	Image           string     `gorm:"size:500" json:"image"`
	Password        string     `gorm:"not null;default:''" json:"-"`
	AuthProvider    string     `gorm:"size:20;not null;default:'credentials'" json:"authProvider"`
	ProviderSubject *string    `gorm:"size:255;index" json:"-"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Settings      *UserSettings  `gorm:"constraint:OnDelete:CASCADE" json:"settings,omitempty"`
	Projects      []Project      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Categories    []Category     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tasks         []Task         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RefreshTokens []RefreshToken `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPassword reports whether the account can sign in with credentials.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
