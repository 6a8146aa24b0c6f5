package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestProjectListCountsTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Launch")
	f.project(t, "Empty")
	f.task(t, dto.TaskRequest{Title: "a", ProjectID: &p.ID})
	f.task(t, dto.TaskRequest{Title: "b", ProjectID: &p.ID})

	projects, err := f.projects.List(ctx, f.user.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int64{}
	for _, pr := range projects {
		counts[pr.Name] = pr.TaskCount
	}
	if counts["Launch"] != 2 || counts["Empty"] != 0 {
		t.Errorf("task counts = %v", counts)
	}
}

func TestProjectListStatusFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Old")
	f.project(t, "Current")

	if _, err := f.projects.Patch(ctx, f.user.ID, p.ID, &dto.ProjectPatchRequest{Status: testutil.Ptr("archived")}); err != nil {
		t.Fatal(err)
	}

	archived, err := f.projects.List(ctx, f.user.ID, "archived")
	if err != nil {
		t.Fatal(err)
	}
	if len(archived) != 1 || archived[0].Name != "Old" {
		t.Errorf("archived = %+v", archived)
	}
}

func TestProjectReplaceResetsOptionalFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.projects.Create(ctx, f.user.ID, &dto.ProjectRequest{Name: "Site", Description: "redesign", Color: "#ff0000"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := f.projects.Replace(ctx, f.user.ID, p.ID, &dto.ProjectRequest{Name: "Site v2"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Site v2" || got.Description != "" || got.Color != "" || got.Status != models.ProjectActive {
		t.Errorf("replaced project = %+v", got)
	}
}

func TestProjectPatchKeepsOmittedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.projects.Create(ctx, f.user.ID, &dto.ProjectRequest{Name: "Site", Description: "redesign"})

	got, err := f.projects.Patch(ctx, f.user.ID, p.ID, &dto.ProjectPatchRequest{Name: testutil.Ptr("Site v2")})
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "redesign" {
		t.Errorf("description = %q, want it kept", got.Description)
	}
}

func TestProjectOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Mine")
	other := testutil.CreateUser(t, f.db, "other@example.com", "password123")

	if _, err := f.projects.Get(ctx, other.ID, p.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Get() by another user error = %v, want ErrForbidden", err)
	}
	if _, err := f.projects.Get(ctx, f.user.ID, uuid.New()); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("Get() unknown error = %v, want ErrProjectNotFound", err)
	}
	if err := f.projects.Delete(ctx, other.ID, p.ID, true); !errors.Is(err, ErrForbidden) {
		t.Errorf("Delete() by another user error = %v, want ErrForbidden", err)
	}
}

func TestProjectDeleteRefusesWithoutCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Launch")
	f.task(t, dto.TaskRequest{Title: "a", ProjectID: &p.ID})

	if err := f.projects.Delete(ctx, f.user.ID, p.ID, false); !errors.Is(err, ErrProjectHasTasks) {
		t.Fatalf("Delete() error = %v, want ErrProjectHasTasks", err)
	}
	if n := testutil.Count(t, f.db, &models.Project{}, "id = ?", p.ID); n != 1 {
		t.Error("project should still exist")
	}
}

func TestProjectDeleteEmptyWithoutCascade(t *testing.T) {
	f := newFixture(t)
	p := f.project(t, "Empty")
	f.goal(t, p.ID, "Someday")

	if err := f.projects.Delete(context.Background(), f.user.ID, p.ID, false); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if n := testutil.Count(t, f.db, &models.Goal{}, ""); n != 0 {
		t.Errorf("goals = %d, want 0", n)
	}
}

func TestProjectDeleteCascade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.project(t, "Launch")
	keep := f.project(t, "Keep")
	work := f.category(t, "Deep work")

	root := f.task(t, dto.TaskRequest{Title: "root", ProjectID: &p.ID, CategoryIDs: []uuid.UUID{work.ID}})
	child := f.task(t, dto.TaskRequest{Title: "child", ParentID: &root.ID})
	f.task(t, dto.TaskRequest{Title: "grandchild", ParentID: &child.ID, CategoryIDs: []uuid.UUID{work.ID}})
	outside := f.task(t, dto.TaskRequest{Title: "outside", ProjectID: &keep.ID})
	g := f.goal(t, p.ID, "Ship", outside.ID)
	if len(g.Tasks) != 1 {
		t.Fatalf("goal tasks = %d", len(g.Tasks))
	}

	if err := f.projects.Delete(ctx, f.user.ID, p.ID, true); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if n := testutil.Count(t, f.db, &models.Task{}, ""); n != 1 {
		t.Errorf("tasks left = %d, want only the outside task", n)
	}
	if n := f.countLinks(t, ""); n != 0 {
		t.Errorf("category links left = %d", n)
	}
	if n := testutil.Count(t, f.db, &models.Goal{}, ""); n != 0 {
		t.Errorf("goals left = %d", n)
	}

	var survivor models.Task
	f.db.First(&survivor, "id = ?", outside.ID)
	if survivor.GoalID != nil {
		t.Error("outside task should lose its link to the deleted goal")
	}
	if n := testutil.Count(t, f.db, &models.Category{}, "id = ?", work.ID); n != 1 {
		t.Error("categories are not part of a project")
	}
}

func TestProjectPatchNullClearsDueDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	due := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	p, _ := f.projects.Create(ctx, f.user.ID, &dto.ProjectRequest{Name: "Site", DueDate: &due})

	got, err := f.projects.Patch(ctx, f.user.ID, p.ID, &dto.ProjectPatchRequest{Name: testutil.Ptr("Site v2")})
	if err != nil {
		t.Fatal(err)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("due date = %v, want it kept when absent", got.DueDate)
	}

	got, err = f.projects.Patch(ctx, f.user.ID, p.ID, &dto.ProjectPatchRequest{DueDate: dto.Null[time.Time]()})
	if err != nil {
		t.Fatal(err)
	}
	if got.DueDate != nil {
		t.Errorf("due date = %v, want cleared", got.DueDate)
	}
	if got.Name != "Site v2" {
		t.Errorf("name = %q", got.Name)
	}
}
