package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,priority:1" json:"userId"`
	Name      string    `gorm:"size:50;not null;uniqueIndex:idx_categories_user_name,priority:2" json:"name"`
	Color     string    `gorm:"size:7" json:"color"`
	Icon      string    `gorm:"size:50" json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Tasks []Task `gorm:"many2many:task_categories" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DefaultCategories are provisioned for every new account.
func DefaultCategories(userID uuid.UUID) []Category {
	return []Category{
		{UserID: userID, Name: "Work", Color: "#3b82f6", Icon: "briefcase"},
		{UserID: userID, Name: "Personal", Color: "#8b5cf6", Icon: "user"},
		{UserID: userID, Name: "Health", Color: "#22c55e", Icon: "heart"},
		{UserID: userID, Name: "Learning", Color: "#f59e0b", Icon: "book"},
		{UserID: userID, Name: "Errands", Color: "#ef4444", Icon: "shopping-cart"},
	}
}
