package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"userId"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Color       string        `gorm:"size:7" json:"color"`
	Status      ProjectStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	DueDate     *time.Time    `json:"dueDate"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	Goals []Goal `gorm:"constraint:OnDelete:CASCADE" json:"goals,omitempty"`
	Tasks []Task `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	TaskCount int64 `gorm:"-" json:"taskCount"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
