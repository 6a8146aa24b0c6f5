package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"gorm.io/gorm"
)

var (
	ErrForbidden = apperr.Forbidden("You do not have access to this resource")

	ErrEmailTaken         = apperr.Conflict("Email already registered")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
	ErrInvalidRefresh     = apperr.Unauthorized("Invalid or expired refresh token")
	ErrPasswordRequired   = apperr.BadRequest("Password is required")
	ErrResetTokenInvalid  = apperr.BadRequest("Invalid or already used token")
	ErrResetTokenExpired  = apperr.BadRequest("Token has expired")
	ErrUnknownProvider    = apperr.BadRequest("Unsupported sign-in provider")
	ErrProviderDisabled   = apperr.BadRequest("Sign-in provider is not configured")
	ErrIdentityToken      = apperr.Unauthorized("Invalid identity token")
	ErrIdentityNoEmail    = apperr.BadRequest("Identity token does not carry an email address")

	ErrUserNotFound     = apperr.NotFound("User not found")
	ErrProjectNotFound  = apperr.NotFound("Project not found")
	ErrGoalNotFound     = apperr.NotFound("Goal not found")
	ErrTaskNotFound     = apperr.NotFound("Task not found")
	ErrCategoryNotFound = apperr.NotFound("Category not found")

	ErrProjectHasTasks = apperr.BadRequest("Project has tasks; pass cascade=true to delete them too")
	ErrCategoryExists  = apperr.Conflict("Category already exists")
	ErrInvalidDays     = apperr.BadRequest("days must be an integer between 1 and 90")
	ErrTaskCycle       = apperr.BadRequest("A task cannot be moved below itself or its subtasks")
)

// Relation id errors carry the offending field so the UI can mark it.
var (
	ErrInvalidProjectRef  = fieldError("projectId", "projectId does not reference one of your projects")
	ErrInvalidGoalRef     = fieldError("goalId", "goalId does not reference one of your goals")
	ErrInvalidParentRef   = fieldError("parentId", "parentId does not reference one of your tasks")
	ErrInvalidTaskIDs     = fieldError("taskIds", "taskIds must all reference your own tasks")
	ErrInvalidCategoryIDs = fieldError("categoryIds", "categoryIds must all reference your own categories")
)

func fieldError(field, msg string) *apperr.Error {
	return &apperr.Error{
		Kind:    apperr.KindBadRequest,
		Message: msg,
		Fields:  []apperr.FieldError{{Field: field, Message: msg}},
	}
}

// notFound maps gorm's miss onto the resource-specific sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func isConflict(err error) bool {
	return apperr.Translate(err).Kind == apperr.KindConflict
}
