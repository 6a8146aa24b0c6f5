package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is owned by a user and may hang below a parent task, forming a subtree
// of any depth. Deleting a parent removes its subtree. A recurring occurrence
// records the occurrence that spawned it in PreviousID.
type Task struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	ProjectID        *uuid.UUID `gorm:"type:uuid;index" json:"projectId"`
	GoalID           *uuid.UUID `gorm:"type:uuid;index" json:"goalId"`
	ParentID         *uuid.UUID `gorm:"type:uuid;index" json:"parentId"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	Priority         Priority   `gorm:"not null;default:0;index" json:"priority"`
	Emotion          Emotion    `gorm:"size:20;not null;default:'NEUTRAL'" json:"emotion"`
	DueDate          *time.Time `gorm:"index" json:"dueDate"`
	CompletedAt      *time.Time `gorm:"index" json:"completedAt"`
	EstimatedMinutes *int       `json:"estimatedMinutes"`
	ActualMinutes    *int       `json:"actualMinutes"`
	Recurrence       Recurrence `gorm:"size:10;not null;default:'NONE'" json:"recurrence"`
	RecurrenceEnd    *time.Time `json:"recurrenceEnd"`
	PreviousID       *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"previousId,omitempty"`
	Position         int        `gorm:"not null;default:0" json:"position"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	Subtasks   []Task     `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"subtasks,omitempty"`
	Categories []Category `gorm:"many2many:task_categories;constraint:OnDelete:CASCADE" json:"categories"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Emotion == "" {
		t.Emotion = EmotionNeutral
	}
	if t.Recurrence == "" {
		t.Recurrence = RecurrenceNone
	}
	return nil
}

func (t *Task) Completed() bool {
	return t.CompletedAt != nil
}
