package services

import (
	"context"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/tasktree"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewTaskService(db *gorm.DB, loc *time.Location) *TaskService {
	if loc == nil {
		loc = time.Local
	}
	return &TaskService{db: db, loc: loc, now: time.Now}
}

// TaskResult is the outcome of an update. Next is set when completing a
// recurring task created its next occurrence.
type TaskResult struct {
	Task *dto.TaskView `json:"task"`
	Next *dto.TaskView `json:"next,omitempty"`
}

func ownedTask(db *gorm.DB, userID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return &task, nil
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID, f dto.TaskFilter) ([]dto.TaskView, error) {
	db := s.db.WithContext(ctx)
	tasks, err := s.find(db, userID, f)
	if err != nil {
		return nil, err
	}
	return views(db, tasks)
}

// ListGrouped lists like List and partitions the result into named buckets.
func (s *TaskService) ListGrouped(ctx context.Context, userID uuid.UUID, f dto.TaskFilter, by tasktree.GroupBy) ([]dto.TaskGroup, error) {
	db := s.db.WithContext(ctx)
	tasks, err := s.find(db, userID, f)
	if err != nil {
		return nil, err
	}
	progress, err := progressByParent(db, tasks)
	if err != nil {
		return nil, err
	}

	buckets := tasktree.Group(tasks, by, s.now(), s.loc)
	groups := make([]dto.TaskGroup, 0, len(buckets))
	for _, b := range buckets {
		g := dto.TaskGroup{Name: b.Name, Tasks: make([]dto.TaskView, 0, len(b.Tasks))}
		for _, t := range b.Tasks {
			g.Tasks = append(g.Tasks, dto.TaskView{Task: t, Progress: progress[t.ID]})
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (s *TaskService) find(db *gorm.DB, userID uuid.UUID, f dto.TaskFilter) ([]models.Task, error) {
	q := db.Where("user_id = ?", userID)
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.GoalID != nil {
		q = q.Where("goal_id = ?", *f.GoalID)
	}
	if f.CategoryID != nil {
		linked := db.Table("task_categories").Select("task_id").Where("category_id = ?", *f.CategoryID)
		q = q.Where("id IN (?)", linked)
	}
	switch {
	case f.RootOnly:
		q = q.Where("parent_id IS NULL")
	case f.ParentID != nil:
		q = q.Where("parent_id = ?", *f.ParentID)
	}
	if f.Completed != nil {
		if *f.Completed {
			q = q.Where("completed_at IS NOT NULL")
		} else {
			q = q.Where("completed_at IS NULL")
		}
	}

	var tasks []models.Task
	if err := q.Preload("Categories").Order("position, created_at").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// progressByParent computes subtask progress for each task in one query.
func progressByParent(db *gorm.DB, tasks []models.Task) (map[uuid.UUID]*float64, error) {
	out := make(map[uuid.UUID]*float64, len(tasks))
	if len(tasks) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	var rows []struct {
		ParentID uuid.UUID
		Total    int
		Done     int
	}
	if err := db.Model(&models.Task{}).
		Select("parent_id, COUNT(*) AS total, COUNT(completed_at) AS done").
		Where("parent_id IN ?", ids).
		Group("parent_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ParentID] = tasktree.Percent(r.Done, r.Total)
	}
	return out, nil
}

func views(db *gorm.DB, tasks []models.Task) ([]dto.TaskView, error) {
	progress, err := progressByParent(db, tasks)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskView, len(tasks))
	for i, t := range tasks {
		out[i] = dto.TaskView{Task: t, Progress: progress[t.ID]}
	}
	return out, nil
}

func (s *TaskService) Get(ctx context.Context, userID, id uuid.UUID) (*dto.TaskView, error) {
	db := s.db.WithContext(ctx)

	if _, err := ownedTask(db, userID, id); err != nil {
		return nil, err
	}
	return s.view(db, id)
}

func (s *TaskService) view(db *gorm.DB, id uuid.UUID) (*dto.TaskView, error) {
	var task models.Task
	err := db.
		Preload("Subtasks", func(q *gorm.DB) *gorm.DB { return q.Order("position, created_at") }).
		Preload("Categories").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, ErrTaskNotFound)
	}
	return &dto.TaskView{Task: task, Progress: tasktree.Progress(task.Subtasks)}, nil
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, req *dto.TaskRequest) (*dto.TaskView, error) {
	db := s.db.WithContext(ctx)

	task := models.Task{UserID: userID}
	applyTask(&task, req)
	if req.Completed {
		now := s.now().UTC()
		task.CompletedAt = &now
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkTaskRefs(tx, userID, nil, task.ProjectID, task.GoalID, task.ParentID); err != nil {
			return err
		}
		categoryIDs, err := categoryRefs(tx, userID, req.CategoryIDs)
		if err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&task).Error; err != nil {
			return err
		}
		return setCategories(tx, task.ID, categoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.view(db, task.ID)
}

// Replace overwrites every field and the category set.
func (s *TaskService) Replace(ctx context.Context, userID, id uuid.UUID, req *dto.TaskRequest) (*TaskResult, error) {
	db := s.db.WithContext(ctx)

	task, err := ownedTask(db, userID, id)
	if err != nil {
		return nil, err
	}
	applyTask(task, req)

	var next *models.Task
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkTaskRefs(tx, userID, &id, task.ProjectID, task.GoalID, task.ParentID); err != nil {
			return err
		}
		categoryIDs, err := categoryRefs(tx, userID, req.CategoryIDs)
		if err != nil {
			return err
		}
		if next, err = s.setCompleted(tx, task, req.Completed); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		return setCategories(tx, id, categoryIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.result(db, id, next)
}

// Patch applies only the fields present in req. A zero uuid in projectId,
// goalId or parentId detaches the task from that relation; null clears the
// nullable scalar fields.
func (s *TaskService) Patch(ctx context.Context, userID, id uuid.UUID, req *dto.TaskPatchRequest) (*TaskResult, error) {
	db := s.db.WithContext(ctx)

	task, err := ownedTask(db, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority, _ = models.ParsePriority(*req.Priority)
	}
	if req.Emotion != nil {
		task.Emotion = models.Emotion(strings.ToUpper(*req.Emotion))
	}
	if req.DueDate.Set {
		task.DueDate = utcPtr(req.DueDate.Value)
	}
	if req.EstimatedMinutes.Set {
		task.EstimatedMinutes = req.EstimatedMinutes.Value
	}
	if req.ActualMinutes.Set {
		task.ActualMinutes = req.ActualMinutes.Value
	}
	if req.Recurrence != nil {
		task.Recurrence = models.Recurrence(strings.ToUpper(*req.Recurrence))
	}
	if req.RecurrenceEnd.Set {
		task.RecurrenceEnd = utcPtr(req.RecurrenceEnd.Value)
	}
	if req.Position != nil {
		task.Position = *req.Position
	}
	task.ProjectID = patchRef(task.ProjectID, req.ProjectID)
	task.GoalID = patchRef(task.GoalID, req.GoalID)
	task.ParentID = patchRef(task.ParentID, req.ParentID)

	var next *models.Task
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkTaskRefs(tx, userID, &id, task.ProjectID, task.GoalID, task.ParentID); err != nil {
			return err
		}
		var categoryIDs []uuid.UUID
		if req.CategoryIDs != nil {
			if categoryIDs, err = categoryRefs(tx, userID, *req.CategoryIDs); err != nil {
				return err
			}
		}
		if req.Completed != nil {
			if next, err = s.setCompleted(tx, task, *req.Completed); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}
		if req.CategoryIDs != nil {
			return setCategories(tx, id, categoryIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.result(db, id, next)
}

func (s *TaskService) result(db *gorm.DB, id uuid.UUID, next *models.Task) (*TaskResult, error) {
	view, err := s.view(db, id)
	if err != nil {
		return nil, err
	}
	res := &TaskResult{Task: view}
	if next != nil {
		if res.Next, err = s.view(db, next.ID); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Delete removes the task with its whole subtree.
func (s *TaskService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	db := s.db.WithContext(ctx)

	if _, err := ownedTask(db, userID, id); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		nodes, err := taskNodes(tx, userID)
		if err != nil {
			return err
		}
		return deleteTasks(tx, subtreeIDs([]uuid.UUID{id}, nodes))
	})
}

// setCompleted moves the task into or out of the completed state. Completing
// a recurring task with a due date creates its next occurrence.
func (s *TaskService) setCompleted(tx *gorm.DB, task *models.Task, completed bool) (*models.Task, error) {
	if !completed {
		task.CompletedAt = nil
		return nil, nil
	}
	if task.Completed() {
		return nil, nil
	}
	now := s.now().UTC()
	task.CompletedAt = &now
	return spawnNext(tx, task)
}

func spawnNext(tx *gorm.DB, task *models.Task) (*models.Task, error) {
	if task.DueDate == nil {
		return nil, nil
	}
	due, ok := tasktree.NextOccurrence(*task.DueDate, task.Recurrence)
	if !ok {
		return nil, nil
	}
	if task.RecurrenceEnd != nil && due.After(*task.RecurrenceEnd) {
		return nil, nil
	}

	// Each occurrence spawns at most one successor, so completing, reopening
	// and completing again does not stack occurrences.
	var existing int64
	if err := tx.Model(&models.Task{}).Where("previous_id = ?", task.ID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, nil
	}

	next := models.Task{
		UserID:           task.UserID,
		ProjectID:        task.ProjectID,
		GoalID:           task.GoalID,
		ParentID:         task.ParentID,
		Title:            task.Title,
		Description:      task.Description,
		Priority:         task.Priority,
		Emotion:          task.Emotion,
		DueDate:          &due,
		EstimatedMinutes: task.EstimatedMinutes,
		Recurrence:       task.Recurrence,
		RecurrenceEnd:    task.RecurrenceEnd,
		PreviousID:       &task.ID,
		Position:         task.Position,
	}
	if err := tx.Omit(clause.Associations).Create(&next).Error; err != nil {
		return nil, err
	}

	var categoryIDs []uuid.UUID
	if err := tx.Table("task_categories").Where("task_id = ?", task.ID).Pluck("category_id", &categoryIDs).Error; err != nil {
		return nil, err
	}
	if err := setCategories(tx, next.ID, categoryIDs); err != nil {
		return nil, err
	}
	return &next, nil
}

func applyTask(t *models.Task, req *dto.TaskRequest) {
	t.Title = strings.TrimSpace(req.Title)
	t.Description = req.Description
	t.Priority, _ = models.ParsePriority(req.Priority)
	t.Emotion = models.EmotionNeutral
	if req.Emotion != "" {
		t.Emotion = models.Emotion(strings.ToUpper(req.Emotion))
	}
	t.DueDate = utcPtr(req.DueDate)
	t.EstimatedMinutes = req.EstimatedMinutes
	t.ActualMinutes = req.ActualMinutes
	t.Recurrence = models.RecurrenceNone
	if req.Recurrence != "" {
		t.Recurrence = models.Recurrence(strings.ToUpper(req.Recurrence))
	}
	t.RecurrenceEnd = utcPtr(req.RecurrenceEnd)
	t.Position = req.Position
	t.ProjectID = req.ProjectID
	t.GoalID = req.GoalID
	t.ParentID = req.ParentID
}

// checkTaskRefs verifies that every relation a task points at belongs to
// userID. self is the task being updated, nil on create.
func checkTaskRefs(tx *gorm.DB, userID uuid.UUID, self, projectID, goalID, parentID *uuid.UUID) error {
	if projectID != nil {
		if err := projectRef(tx, userID, *projectID); err != nil {
			return err
		}
	}
	if goalID != nil {
		var count int64
		if err := tx.Model(&models.Goal{}).
			Joins("JOIN projects ON projects.id = goals.project_id").
			Where("goals.id = ? AND projects.user_id = ?", *goalID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrInvalidGoalRef
		}
	}
	if parentID != nil {
		var count int64
		if err := tx.Model(&models.Task{}).Where("id = ? AND user_id = ?", *parentID, userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrInvalidParentRef
		}
		if self != nil {
			nodes, err := taskNodes(tx, userID)
			if err != nil {
				return err
			}
			if tasktree.WouldCycle(*self, *parentID, nodes) {
				return ErrTaskCycle
			}
		}
	}
	return nil
}

// categoryRefs deduplicates ids and checks they all name the user's categories.
func categoryRefs(tx *gorm.DB, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return ids, nil
	}
	var count int64
	if err := tx.Model(&models.Category{}).Where("id IN ? AND user_id = ?", ids, userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count != int64(len(ids)) {
		return nil, ErrInvalidCategoryIDs
	}
	return ids, nil
}

// setCategories replaces the task's category links.
func setCategories(tx *gorm.DB, taskID uuid.UUID, categoryIDs []uuid.UUID) error {
	if err := tx.Exec("DELETE FROM task_categories WHERE task_id = ?", taskID).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]map[string]any, len(categoryIDs))
	for i, cid := range categoryIDs {
		rows[i] = map[string]any{"task_id": taskID, "category_id": cid}
	}
	return tx.Table("task_categories").Create(&rows).Error
}

func patchRef(current, patch *uuid.UUID) *uuid.UUID {
	switch {
	case patch == nil:
		return current
	case *patch == uuid.Nil:
		return nil
	default:
		id := *patch
		return &id
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
