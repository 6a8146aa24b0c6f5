package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/google/uuid"
)

func fieldMessages(fields []apperr.FieldError) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestSignupMessages(t *testing.T) {
	fields := fieldMessages(Fields(&dto.SignupRequest{Email: "", Password: "short"}))

	if got := fields["email"]; got != "email is required" {
		t.Errorf("email message = %q", got)
	}
	if got := fields["password"]; got != "password must be at least 8 characters" {
		t.Errorf("password message = %q", got)
	}
}

func TestValidRequestPasses(t *testing.T) {
	req := &dto.TaskRequest{
		Title:      "Write report",
		Priority:   "high",
		Emotion:    "CALM",
		Recurrence: "WEEKLY",
	}
	if err := Check(req); err != nil {
		t.Fatalf("Check() = %v", err)
	}
}

func TestCustomTags(t *testing.T) {
	tests := []struct {
		name  string
		req   any
		field string
	}{
		{"priority", &dto.TaskRequest{Title: "x", Priority: "CRITICAL"}, "priority"},
		{"emotion", &dto.TaskRequest{Title: "x", Emotion: "BORED"}, "emotion"},
		{"recurrence", &dto.TaskRequest{Title: "x", Recurrence: "HOURLY"}, "recurrence"},
		{"project status", &dto.ProjectRequest{Name: "x", Status: "PAUSED"}, "status"},
		{"hex color", &dto.CategoryRequest{Name: "x", Color: "blue"}, "color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldMessages(Fields(tt.req))
			if _, ok := fields[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, fields)
			}
		})
	}
}

func TestEnumTagsIgnoreCase(t *testing.T) {
	reqs := []any{
		&dto.TaskRequest{Title: "x", Priority: "high", Emotion: "happy", Recurrence: "daily"},
		&dto.ProjectRequest{Name: "x", Status: "active"},
		&dto.ProjectPatchRequest{Status: testPtr("archived")},
	}
	for _, req := range reqs {
		if err := Check(req); err != nil {
			t.Errorf("Check(%T) = %v", req, err)
		}
	}
}

func TestBlankNamesRejected(t *testing.T) {
	blank := "   "
	tests := []struct {
		name  string
		req   any
		field string
	}{
		{"task title", &dto.TaskRequest{Title: blank}, "title"},
		{"task patch title", &dto.TaskPatchRequest{Title: &blank}, "title"},
		{"project name", &dto.ProjectRequest{Name: blank}, "name"},
		{"goal name", &dto.GoalRequest{Name: blank, ProjectID: uuid.New()}, "name"},
		{"category name", &dto.CategoryRequest{Name: blank}, "name"},
		{"category patch name", &dto.CategoryPatchRequest{Name: &blank}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldMessages(Fields(tt.req))
			if got := fields[tt.field]; got != tt.field+" must not be blank" {
				t.Errorf("message = %q, fields = %v", got, fields)
			}
		})
	}
}

func TestOptionalFieldsValidateInnerValue(t *testing.T) {
	fields := fieldMessages(Fields(&dto.TaskPatchRequest{EstimatedMinutes: dto.Some(-1)}))
	if got := fields["estimatedMinutes"]; got != "estimatedMinutes must be at least 0" {
		t.Errorf("fields = %v", fields)
	}

	ok := &dto.TaskPatchRequest{
		EstimatedMinutes: dto.Null[int](),
		ActualMinutes:    dto.Some(30),
		DueDate:          dto.Some(time.Now()),
		RecurrenceEnd:    dto.Null[time.Time](),
	}
	if err := Check(ok); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func testPtr(s string) *string { return &s }

func TestPatchValidatesOnlyPresentFields(t *testing.T) {
	if err := Check(&dto.GoalPatchRequest{}); err != nil {
		t.Fatalf("empty patch should pass, got %v", err)
	}

	empty := ""
	fields := fieldMessages(Fields(&dto.GoalPatchRequest{Name: &empty}))
	if _, ok := fields["name"]; !ok {
		t.Errorf("present empty name should fail, got %v", fields)
	}
}

func TestGoalRequiresProject(t *testing.T) {
	fields := fieldMessages(Fields(&dto.GoalRequest{Name: "Ship v1"}))
	if fields["projectId"] != "projectId is required" {
		t.Errorf("fields = %v", fields)
	}

	ok := &dto.GoalRequest{Name: "Ship v1", ProjectID: uuid.New(), TaskIDs: []uuid.UUID{uuid.New()}}
	if err := Check(ok); err != nil {
		t.Errorf("Check() = %v", err)
	}
}

func TestCheckReturnsBadRequest(t *testing.T) {
	err := Check(&dto.LoginRequest{})

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("Check() = %T, want *apperr.Error", err)
	}
	if appErr.Kind != apperr.KindBadRequest || len(appErr.Fields) != 2 {
		t.Errorf("got kind %v with %d fields", appErr.Kind, len(appErr.Fields))
	}
}
