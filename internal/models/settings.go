package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserSettings holds UI preferences: theme, focus-mode ambiance and onboarding state.
type UserSettings struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Theme               string         `gorm:"size:20;not null;default:'system'" json:"theme"`
	Language            string         `gorm:"size:10;not null;default:'en'" json:"language"`
	FocusSound          string         `gorm:"size:50;not null;default:'none'" json:"focusSound"`
	FocusVolume         int            `gorm:"not null;default:50" json:"focusVolume"`
	PomodoroMinutes     int            `gorm:"not null;default:25" json:"pomodoroMinutes"`
	OnboardingCompleted bool           `gorm:"not null;default:false" json:"onboardingCompleted"`
	Preferences         datatypes.JSON `json:"preferences"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (s *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if len(s.Preferences) == 0 {
		s.Preferences = datatypes.JSON("{}")
	}
	return nil
}

// DefaultSettings returns the row created alongside every new account.
func DefaultSettings(userID uuid.UUID) UserSettings {
	return UserSettings{
		UserID:          userID,
		Theme:           "system",
		Language:        "en",
		FocusSound:      "none",
		FocusVolume:     50,
		PomodoroMinutes: 25,
		Preferences:     datatypes.JSON("{}"),
	}
}
