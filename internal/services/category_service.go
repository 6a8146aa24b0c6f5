package services

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func ownedCategory(db *gorm.DB, userID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrCategoryNotFound)
	}
	if category.UserID != userID {
		return nil, ErrForbidden
	}
	return &category, nil
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&categories).Error
	return categories, err
}

func (s *CategoryService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	return ownedCategory(s.db.WithContext(ctx), userID, id)
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	category := models.Category{
		UserID: userID,
		Name:   strings.TrimSpace(req.Name),
		Color:  req.Color,
		Icon:   req.Icon,
	}
	if err := s.db.WithContext(ctx).Omit("Tasks").Create(&category).Error; err != nil {
		return nil, conflictAs(err, ErrCategoryExists)
	}
	return &category, nil
}

func (s *CategoryService) Replace(ctx context.Context, userID, id uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	category, err := ownedCategory(db, userID, id)
	if err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(req.Name)
	category.Color = req.Color
	category.Icon = req.Icon
	if err := db.Omit("Tasks").Save(category).Error; err != nil {
		return nil, conflictAs(err, ErrCategoryExists)
	}
	return category, nil
}

func (s *CategoryService) Patch(ctx context.Context, userID, id uuid.UUID, req *dto.CategoryPatchRequest) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	category, err := ownedCategory(db, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = *req.Icon
	}
	if err := db.Omit("Tasks").Save(category).Error; err != nil {
		return nil, conflictAs(err, ErrCategoryExists)
	}
	return category, nil
}

// Delete removes the category and its task links; the tasks stay.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	db := s.db.WithContext(ctx)

	if _, err := ownedCategory(db, userID, id); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM task_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, "id = ?", id).Error
	})
}

func conflictAs(err, sentinel error) error {
	if isConflict(err) {
		return sentinel
	}
	return err
}
