package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Settings").First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Image != nil {
		updates["image"] = strings.TrimSpace(*req.Image)
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			var count int64
			if err := db.Model(&models.User{}).Where("email = ? AND id <> ?", email, userID).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, ErrEmailTaken
			}
			updates["email"] = email
			updates["email_verified_at"] = nil
		}
	}

	if len(updates) > 0 {
		if err := db.Model(&user).Updates(updates).Error; err != nil {
			if isConflict(err) {
				return nil, ErrEmailTaken
			}
			return nil, err
		}
	}
	return s.Profile(ctx, userID)
}

// DeleteAccount removes the user and everything they own in one transaction,
// children before parents. Accounts with a password must confirm it.
func (s *UserService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return notFound(err, ErrUserNotFound)
	}

	if user.HasPassword() {
		if password == "" {
			return ErrPasswordRequired
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		ownedTasks := tx.Model(&models.Task{}).Select("id").Where("user_id = ?", userID)
		ownedProjects := tx.Model(&models.Project{}).Select("id").Where("user_id = ?", userID)

		steps := []func() error{
			func() error { return tx.Exec("DELETE FROM task_categories WHERE task_id IN (?)", ownedTasks).Error },
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.Task{}).Error },
			func() error { return tx.Where("project_id IN (?)", ownedProjects).Delete(&models.Goal{}).Error },
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.Project{}).Error },
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.Category{}).Error },
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.UserSettings{}).Error },
			func() error { return tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error },
			func() error { return tx.Where("identifier = ?", user.Email).Delete(&models.VerificationToken{}).Error },
			func() error { return tx.Delete(&user).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Settings returns the user's settings, creating the defaults for accounts
// that predate them.
func (s *UserService) Settings(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	db := s.db.WithContext(ctx)

	var settings models.UserSettings
	err := db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.DefaultSettings(userID)
		err = db.Create(&settings).Error
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, userID uuid.UUID, req *dto.SettingsRequest) (*models.UserSettings, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.Theme = req.Theme
	settings.Language = req.Language
	settings.FocusSound = req.FocusSound
	settings.FocusVolume = req.FocusVolume
	settings.PomodoroMinutes = req.PomodoroMinutes
	settings.OnboardingCompleted = req.OnboardingCompleted
	if len(req.Preferences) > 0 {
		settings.Preferences = datatypes.JSON(req.Preferences)
	}

	if err := s.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
