package client

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/tasktree"
	"github.com/google/uuid"
)

// API is the subset of Client the store depends on.
type API interface {
	ListTasks(ctx context.Context, query url.Values) ([]dto.TaskView, error)
	CreateTask(ctx context.Context, req dto.TaskRequest) (*dto.TaskView, error)
	PatchTask(ctx context.Context, id uuid.UUID, req dto.TaskPatchRequest) (*services.TaskResult, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	Profile(ctx context.Context) (*models.User, error)
	SaveSettings(ctx context.Context, req dto.SettingsRequest) (*models.UserSettings, error)
}

// Store holds what a front end shows: tasks, categories, the user and their
// settings. Actions wait for the server and then replace state under the
// lock; a failed call leaves state untouched. Selectors return copies.
type Store struct {
	api API
	loc *time.Location

	mu         sync.RWMutex
	tasks      []dto.TaskView
	categories []models.Category
	user       *models.User
	settings   *models.UserSettings
}

func NewStore(api API, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{api: api, loc: loc}
}

func (s *Store) LoadTasks(ctx context.Context) error {
	tasks, err := s.api.ListTasks(ctx, nil)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

func (s *Store) CreateTask(ctx context.Context, req dto.TaskRequest) (*dto.TaskView, error) {
	task, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, *task)
	s.mu.Unlock()
	return task, nil
}

func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, req dto.TaskPatchRequest) (*dto.TaskView, error) {
	res, err := s.api.PatchTask(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.upsert(*res.Task)
	if res.Next != nil {
		s.upsert(*res.Next)
	}
	s.mu.Unlock()
	return res.Task, nil
}

// ToggleTask flips the completion state of a task the store already holds.
func (s *Store) ToggleTask(ctx context.Context, id uuid.UUID) (*dto.TaskView, error) {
	task, ok := s.Task(id)
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	completed := !task.Completed()
	return s.UpdateTask(ctx, id, dto.TaskPatchRequest{Completed: &completed})
}

// DeleteTask removes the task and, locally, its whole subtree.
func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	gone := map[uuid.UUID]bool{id: true}
	for _, d := range tasktree.Descendants(id, s.nodes()) {
		gone[d] = true
	}
	kept := s.tasks[:0:0]
	for _, t := range s.tasks {
		if !gone[t.ID] {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return nil
}

func (s *Store) LoadCategories(ctx context.Context) error {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()
	return nil
}

func (s *Store) LoadUser(ctx context.Context) error {
	user, err := s.api.Profile(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = user
	s.settings = user.Settings
	s.mu.Unlock()
	return nil
}

func (s *Store) SaveSettings(ctx context.Context, req dto.SettingsRequest) error {
	settings, err := s.api.SaveSettings(ctx, req)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

func (s *Store) Tasks() []dto.TaskView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]dto.TaskView(nil), s.tasks...)
}

func (s *Store) Task(id uuid.UUID) (dto.TaskView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return dto.TaskView{}, false
}

func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) Settings() *models.UserSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil
	}
	st := *s.settings
	return &st
}

// Grouped buckets the held tasks as of now.
func (s *Store) Grouped(by tasktree.GroupBy, now time.Time) []tasktree.Bucket {
	return tasktree.Group(s.plain(), by, now, s.loc)
}

// Progress computes subtask progress from the held tasks, nil without children.
func (s *Store) Progress(id uuid.UUID) *float64 {
	return tasktree.Progress(tasktree.Children(s.plain(), id))
}

func (s *Store) plain() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Task
	}
	return out
}

// upsert and nodes expect s.mu to be held.
func (s *Store) upsert(task dto.TaskView) {
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
	s.tasks = append(s.tasks, task)
}

func (s *Store) nodes() []tasktree.Node {
	nodes := make([]tasktree.Node, len(s.tasks))
	for i, t := range s.tasks {
		nodes[i] = tasktree.Node{ID: t.ID, ParentID: t.ParentID}
	}
	return nodes
}
