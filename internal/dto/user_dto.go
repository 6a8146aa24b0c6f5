package dto

import "encoding/json"

type DeleteAccountRequest struct {
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,notblank,max=100"`
	Image *string `json:"image" validate:"omitempty,max=500"`
	Email *string `json:"email" validate:"omitempty,email,max=255"`
}

type SettingsRequest struct {
	Theme               string          `json:"theme" validate:"required,oneof=light dark system"`
	Language            string          `json:"language" validate:"required,min=2,max=10"`
	FocusSound          string          `json:"focusSound" validate:"required,oneof=none rain forest ocean cafe fireplace whitenoise"`
	FocusVolume         int             `json:"focusVolume" validate:"min=0,max=100"`
	PomodoroMinutes     int             `json:"pomodoroMinutes" validate:"min=1,max=180"`
	OnboardingCompleted bool            `json:"onboardingCompleted"`
	Preferences         json.RawMessage `json:"preferences"`
}

type ActivityStats struct {
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
	TasksDueToday  int64 `json:"tasksDueToday"`
	CompletionRate int   `json:"completionRate"`
}

// ActivityDay counts tasks created and completed on one calendar day.
type ActivityDay struct {
	Date      string `json:"date"`
	Created   int    `json:"created"`
	Completed int    `json:"completed"`
}

type ActivityResponse struct {
	Activity []ActivityDay `json:"activity"`
	Stats    ActivityStats `json:"stats"`
}
