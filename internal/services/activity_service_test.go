package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", DefaultActivityDays, false},
		{"1", 1, false},
		{"30", 30, false},
		{"90", 90, false},
		{"0", 0, true},
		{"91", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"7.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDays(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDays) {
					t.Errorf("ParseDays(%q) error = %v, want ErrInvalidDays", tt.raw, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseDays(%q) = %d, %v; want %d", tt.raw, got, err, tt.want)
			}
		})
	}
}

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed, total int64
		want             int
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 3, 33},
		{2, 3, 67},
		{5, 5, 100},
	}
	for _, tt := range tests {
		if got := CompletionRate(tt.completed, tt.total); got != tt.want {
			t.Errorf("CompletionRate(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestActivitySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	wall := time.Now().UTC()
	today := time.Date(wall.Year(), wall.Month(), wall.Day(), 0, 0, 0, 0, time.UTC)
	now := today.Add(12 * time.Hour)

	yesterday := today.Add(-12 * time.Hour)
	laterToday := today.Add(23 * time.Hour)
	longAgo := today.AddDate(0, 0, -20)

	f.task(t, dto.TaskRequest{Title: "overdue", DueDate: &yesterday})
	f.task(t, dto.TaskRequest{Title: "due today", DueDate: &laterToday})
	f.task(t, dto.TaskRequest{Title: "done", Completed: true})
	old := f.task(t, dto.TaskRequest{Title: "old"})
	if err := f.db.Model(&models.Task{}).Where("id = ?", old.ID).Update("created_at", longAgo).Error; err != nil {
		t.Fatal(err)
	}

	svc := NewActivityService(f.db, time.UTC)
	svc.now = func() time.Time { return now }

	res, err := svc.Summary(ctx, f.user.ID, 7)
	if err != nil {
		t.Fatal(err)
	}

	want := dto.ActivityStats{TotalTasks: 4, CompletedTasks: 1, OverdueTasks: 1, TasksDueToday: 1, CompletionRate: 25}
	if res.Stats != want {
		t.Errorf("stats = %+v, want %+v", res.Stats, want)
	}
	if len(res.Activity) != 7 {
		t.Fatalf("activity days = %d, want 7", len(res.Activity))
	}
	last := res.Activity[6]
	if last.Date != today.Format("2006-01-02") {
		t.Errorf("last day = %s, want today", last.Date)
	}
	if last.Created != 3 || last.Completed != 1 {
		t.Errorf("today = %+v, want 3 created and 1 completed", last)
	}
	if first := res.Activity[0]; first.Date != today.AddDate(0, 0, -6).Format("2006-01-02") {
		t.Errorf("first day = %s", first.Date)
	}
}

func TestActivitySummaryEmpty(t *testing.T) {
	f := newFixture(t)
	svc := NewActivityService(f.db, time.UTC)

	res, err := svc.Summary(context.Background(), f.user.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.TotalTasks != 0 || res.Stats.CompletionRate != 0 || len(res.Activity) != 1 {
		t.Errorf("summary = %+v", res)
	}
}
