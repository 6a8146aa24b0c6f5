package tasktree

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/google/uuid"
)

func at(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func names(buckets []Bucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Name
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGroupByDueDate(t *testing.T) {
	now := *at("2024-03-10T15:00:00Z")
	tasks := []models.Task{
		{Title: "late", DueDate: at("2024-03-09T23:59:00Z")},
		{Title: "this morning", DueDate: at("2024-03-10T08:00:00Z")},
		{Title: "tomorrow", DueDate: at("2024-03-11T12:00:00Z")},
		{Title: "next week", DueDate: at("2024-03-17T09:00:00Z")},
		{Title: "friday", DueDate: at("2024-03-15T09:00:00Z")},
		{Title: "someday"},
	}

	got := Group(tasks, ByDueDate, now, time.UTC)
	want := []string{"Overdue", "Today", "Tomorrow", "Mar 15, 2024", "Mar 17, 2024", "No due date"}
	if !equal(names(got), want) {
		t.Fatalf("buckets = %v, want %v", names(got), want)
	}
	if got[1].Tasks[0].Title != "this morning" {
		t.Errorf("today bucket = %v", got[1].Tasks)
	}
}

func TestGroupByDueDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := *at("2024-03-10T22:00:00Z") // already Mar 11 in loc
	tasks := []models.Task{{Title: "a", DueDate: at("2024-03-10T21:30:00Z")}}

	got := Group(tasks, ByDueDate, now, loc)
	if !equal(names(got), []string{"Today"}) {
		t.Errorf("buckets = %v, want [Today]", names(got))
	}
}

func TestGroupByPriority(t *testing.T) {
	tasks := []models.Task{
		{Title: "a", Priority: models.PriorityLow},
		{Title: "b", Priority: models.PriorityUrgent},
		{Title: "c", Priority: models.PriorityNone},
		{Title: "d", Priority: models.PriorityUrgent},
	}

	got := Group(tasks, ByPriority, time.Now(), time.UTC)
	if !equal(names(got), []string{"URGENT", "LOW", "NONE"}) {
		t.Fatalf("buckets = %v", names(got))
	}
	if len(got[0].Tasks) != 2 {
		t.Errorf("urgent bucket has %d tasks, want 2", len(got[0].Tasks))
	}
}

func TestGroupByCategory(t *testing.T) {
	work := models.Category{Name: "Work"}
	home := models.Category{Name: "Home"}
	tasks := []models.Task{
		{Title: "both", Categories: []models.Category{work, home}},
		{Title: "work", Categories: []models.Category{work}},
		{Title: "loose"},
	}

	got := Group(tasks, ByCategory, time.Now(), time.UTC)
	if !equal(names(got), []string{"Home", "Work", "Uncategorized"}) {
		t.Fatalf("buckets = %v", names(got))
	}
	if len(got[1].Tasks) != 2 {
		t.Errorf("Work has %d tasks, want 2", len(got[1].Tasks))
	}
}

func TestProgress(t *testing.T) {
	done := time.Now()

	if p := Progress(nil); p != nil {
		t.Errorf("Progress(nil) = %v, want nil", *p)
	}

	children := []models.Task{{CompletedAt: &done}, {}, {}}
	p := Progress(children)
	if p == nil || *p != 33.33 {
		t.Errorf("Progress = %v, want 33.33", p)
	}

	all := []models.Task{{CompletedAt: &done}, {CompletedAt: &done}}
	if p := Progress(all); p == nil || *p != 100 {
		t.Errorf("Progress = %v, want 100", p)
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name string
		due  string
		rule models.Recurrence
		want string
		ok   bool
	}{
		{"daily", "2024-01-31T09:00:00Z", models.RecurrenceDaily, "2024-02-01T09:00:00Z", true},
		{"weekly", "2024-01-31T09:00:00Z", models.RecurrenceWeekly, "2024-02-07T09:00:00Z", true},
		{"monthly clamps", "2024-01-31T09:00:00Z", models.RecurrenceMonthly, "2024-02-29T09:00:00Z", true},
		{"monthly", "2024-03-15T09:00:00Z", models.RecurrenceMonthly, "2024-04-15T09:00:00Z", true},
		{"yearly leap day", "2024-02-29T09:00:00Z", models.RecurrenceYearly, "2025-02-28T09:00:00Z", true},
		{"none", "2024-02-29T09:00:00Z", models.RecurrenceNone, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextOccurrence(*at(tt.due), tt.rule)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(*at(tt.want)) {
				t.Errorf("next = %s, want %s", got.Format(time.RFC3339), tt.want)
			}
		})
	}
}

func TestDescendantsAndCycles(t *testing.T) {
	root, child, grandchild, other := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	nodes := []Node{
		{ID: root},
		{ID: child, ParentID: &root},
		{ID: grandchild, ParentID: &child},
		{ID: other},
	}

	got := Descendants(root, nodes)
	if len(got) != 2 || got[0] != child || got[1] != grandchild {
		t.Errorf("Descendants = %v", got)
	}

	if !WouldCycle(root, grandchild, nodes) {
		t.Error("moving root below its grandchild must be a cycle")
	}
	if !WouldCycle(root, root, nodes) {
		t.Error("a task cannot be its own parent")
	}
	if WouldCycle(grandchild, other, nodes) {
		t.Error("moving to an unrelated task is fine")
	}
}

func TestDescendantsSurvivesCorruptCycle(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	nodes := []Node{{ID: a, ParentID: &b}, {ID: b, ParentID: &a}}

	got := Descendants(a, nodes)
	if len(got) != 1 || got[0] != b {
		t.Errorf("Descendants = %v", got)
	}
}
