package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal belongs to a Project; ownership is resolved through Project.UserID.
// Tasks reference a goal without being owned by it.
type Goal struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"projectId"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	TargetDate  *time.Time `json:"targetDate"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Project Project `gorm:"foreignKey:ProjectID" json:"-"`
	Tasks   []Task  `gorm:"foreignKey:GoalID;constraint:OnDelete:SET NULL" json:"tasks"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
