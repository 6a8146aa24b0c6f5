package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateUser(t, f.db, "taken@example.com", "password123")

	got, err := f.users.UpdateProfile(ctx, f.user.ID, &dto.UpdateProfileRequest{Name: testutil.Ptr(" Ada ")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Ada" || got.Email != "owner@example.com" {
		t.Errorf("profile = %+v", got)
	}

	if _, err := f.users.UpdateProfile(ctx, f.user.ID, &dto.UpdateProfileRequest{Email: testutil.Ptr("Taken@example.com")}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

func TestSettingsCreatedOnDemand(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s, err := f.users.Settings(ctx, f.user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.UserID != f.user.ID {
		t.Errorf("settings user = %v", s.UserID)
	}

	updated, err := f.users.UpdateSettings(ctx, f.user.ID, &dto.SettingsRequest{
		Theme:           "dark",
		Language:        "de",
		FocusSound:      "rain",
		FocusVolume:     40,
		PomodoroMinutes: 50,
		Preferences:     json.RawMessage(`{"weekStart":"monday"}`),
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Theme != "dark" || updated.PomodoroMinutes != 50 {
		t.Errorf("settings = %+v", updated)
	}
	if n := testutil.Count(t, f.db, &models.UserSettings{}, "user_id = ?", f.user.ID); n != 1 {
		t.Errorf("settings rows = %d, want 1", n)
	}
}

func TestDeleteAccountPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.users.DeleteAccount(ctx, f.user.ID, ""); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("empty password error = %v", err)
	}
	if err := f.users.DeleteAccount(ctx, f.user.ID, "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", err)
	}
	if n := testutil.Count(t, f.db, &models.User{}, "id = ?", f.user.ID); n != 1 {
		t.Error("user must survive a rejected delete")
	}
}

func TestDeleteAccountRemovesEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	auth := NewAuthService(f.db, testutil.Config(), nil, &recordingMailer{})
	if _, err := auth.Login(ctx, &dto.LoginRequest{Email: "owner@example.com", Password: "password123"}); err != nil {
		t.Fatal(err)
	}
	if err := auth.ForgotPassword(ctx, &dto.ForgotPasswordRequest{Email: "owner@example.com"}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.users.Settings(ctx, f.user.ID); err != nil {
		t.Fatal(err)
	}
	p := f.project(t, "Launch")
	home := f.category(t, "Home")
	root := f.task(t, dto.TaskRequest{Title: "root", ProjectID: &p.ID, CategoryIDs: []uuid.UUID{home.ID}})
	f.task(t, dto.TaskRequest{Title: "child", ParentID: &root.ID})
	f.goal(t, p.ID, "Ship", root.ID)

	survivor := testutil.CreateUser(t, f.db, "other@example.com", "password123")
	if _, err := f.cats.Create(ctx, survivor.ID, &dto.CategoryRequest{Name: "Home"}); err != nil {
		t.Fatal(err)
	}

	if err := f.users.DeleteAccount(ctx, f.user.ID, "password123"); err != nil {
		t.Fatalf("DeleteAccount() error = %v", err)
	}

	for name, model := range map[string]any{
		"users":               &models.User{},
		"settings":            &models.UserSettings{},
		"refresh tokens":      &models.RefreshToken{},
		"verification tokens": &models.VerificationToken{},
		"projects":            &models.Project{},
		"goals":               &models.Goal{},
		"tasks":               &models.Task{},
	} {
		want := int64(0)
		if name == "users" {
			want = 1
		}
		if n := testutil.Count(t, f.db, model, ""); n != want {
			t.Errorf("%s left = %d, want %d", name, n, want)
		}
	}
	if n := testutil.Count(t, f.db, &models.Category{}, ""); n != 1 {
		t.Errorf("categories left = %d, want only the other user's", n)
	}
	if n := f.countLinks(t, ""); n != 0 {
		t.Errorf("links left = %d", n)
	}
}
