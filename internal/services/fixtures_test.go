package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/testutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	user     models.User
	projects *ProjectService
	goals    *GoalService
	tasks    *TaskService
	cats     *CategoryService
	users    *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:       db,
		user:     testutil.CreateUser(t, db, "owner@example.com", "password123"),
		projects: NewProjectService(db),
		goals:    NewGoalService(db),
		tasks:    NewTaskService(db, nil),
		cats:     NewCategoryService(db),
		users:    NewUserService(db),
	}
}

func (f *fixture) project(t *testing.T, name string) *models.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), f.user.ID, &dto.ProjectRequest{Name: name})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func (f *fixture) task(t *testing.T, req dto.TaskRequest) *dto.TaskView {
	t.Helper()
	v, err := f.tasks.Create(context.Background(), f.user.ID, &req)
	if err != nil {
		t.Fatalf("create task %q: %v", req.Title, err)
	}
	return v
}

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := f.cats.Create(context.Background(), f.user.ID, &dto.CategoryRequest{Name: name})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func (f *fixture) goal(t *testing.T, projectID uuid.UUID, name string, taskIDs ...uuid.UUID) *models.Goal {
	t.Helper()
	g, err := f.goals.Create(context.Background(), f.user.ID, &dto.GoalRequest{ProjectID: projectID, Name: name, TaskIDs: taskIDs})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return g
}

func (f *fixture) countLinks(t *testing.T, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Table("task_categories")
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	return n
}
