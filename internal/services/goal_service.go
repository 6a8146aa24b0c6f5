package services

import (
	"context"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGoalService(db *gorm.DB) *GoalService {
	return &GoalService{db: db, now: time.Now}
}

// ownedGoal resolves the goal and walks goal -> project -> user.
func ownedGoal(db *gorm.DB, userID, id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := db.Preload("Project").First(&goal, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrGoalNotFound)
	}
	if goal.Project.UserID != userID {
		return nil, ErrForbidden
	}
	return &goal, nil
}

// projectRef checks a projectId taken from a request body.
func projectRef(db *gorm.DB, userID, id uuid.UUID) error {
	var count int64
	if err := db.Model(&models.Project{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidProjectRef
	}
	return nil
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID, projectID *uuid.UUID) ([]models.Goal, error) {
	q := s.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = goals.project_id").
		Where("projects.user_id = ?", userID)
	if projectID != nil {
		q = q.Where("goals.project_id = ?", *projectID)
	}
	var goals []models.Goal
	if err := q.Preload("Tasks").Order("goals.created_at").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (s *GoalService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	db := s.db.WithContext(ctx)

	goal, err := ownedGoal(db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := db.Where("goal_id = ?", id).Order("position, created_at").Find(&goal.Tasks).Error; err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, req *dto.GoalRequest) (*models.Goal, error) {
	db := s.db.WithContext(ctx)

	if err := projectRef(db, userID, req.ProjectID); err != nil {
		return nil, err
	}

	goal := models.Goal{ProjectID: req.ProjectID}
	s.apply(&goal, req)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Project", "Tasks").Create(&goal).Error; err != nil {
			return err
		}
		return linkTasks(tx, userID, goal.ID, req.TaskIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, goal.ID)
}

// Replace overwrites the goal and its task set wholesale: every current link
// is cleared, then the given tasks (possibly none) are attached.
func (s *GoalService) Replace(ctx context.Context, userID, id uuid.UUID, req *dto.GoalRequest) (*models.Goal, error) {
	db := s.db.WithContext(ctx)

	goal, err := ownedGoal(db, userID, id)
	if err != nil {
		return nil, err
	}
	if req.ProjectID != goal.ProjectID {
		if err := projectRef(db, userID, req.ProjectID); err != nil {
			return nil, err
		}
	}

	goal.ProjectID = req.ProjectID
	s.apply(goal, req)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Project", "Tasks").Save(goal).Error; err != nil {
			return err
		}
		if err := unlinkTasks(tx, id); err != nil {
			return err
		}
		return linkTasks(tx, userID, id, req.TaskIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Patch touches only the fields present in req. The task set changes only
// when taskIds is present.
func (s *GoalService) Patch(ctx context.Context, userID, id uuid.UUID, req *dto.GoalPatchRequest) (*models.Goal, error) {
	db := s.db.WithContext(ctx)

	goal, err := ownedGoal(db, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.ProjectID != nil && *req.ProjectID != goal.ProjectID {
		if err := projectRef(db, userID, *req.ProjectID); err != nil {
			return nil, err
		}
		updates["project_id"] = *req.ProjectID
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.TargetDate.Set {
		updates["target_date"] = nil
		if req.TargetDate.Value != nil {
			updates["target_date"] = req.TargetDate.Value.UTC()
		}
	}
	if req.Completed != nil {
		switch {
		case *req.Completed && goal.CompletedAt == nil:
			updates["completed_at"] = s.now().UTC()
		case !*req.Completed:
			updates["completed_at"] = nil
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Goal{ID: id}).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.TaskIDs == nil {
			return nil
		}
		if err := unlinkTasks(tx, id); err != nil {
			return err
		}
		return linkTasks(tx, userID, id, *req.TaskIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

// Delete removes the goal; its tasks stay and lose the link.
func (s *GoalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	db := s.db.WithContext(ctx)

	if _, err := ownedGoal(db, userID, id); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := unlinkTasks(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Goal{}, "id = ?", id).Error
	})
}

func (s *GoalService) apply(g *models.Goal, req *dto.GoalRequest) {
	g.Name = strings.TrimSpace(req.Name)
	g.Description = req.Description
	g.TargetDate = nil
	if req.TargetDate != nil {
		t := req.TargetDate.UTC()
		g.TargetDate = &t
	}
	switch {
	case req.Completed && g.CompletedAt == nil:
		now := s.now().UTC()
		g.CompletedAt = &now
	case !req.Completed:
		g.CompletedAt = nil
	}
}

func unlinkTasks(tx *gorm.DB, goalID uuid.UUID) error {
	return tx.Model(&models.Task{}).Where("goal_id = ?", goalID).Update("goal_id", nil).Error
}

// linkTasks attaches the given tasks to the goal. Every id must name a task
// owned by userID; otherwise nothing is linked.
func linkTasks(tx *gorm.DB, userID, goalID uuid.UUID, taskIDs []uuid.UUID) error {
	ids := dedupe(taskIDs)
	if len(ids) == 0 {
		return nil
	}

	var found int64
	if err := tx.Model(&models.Task{}).Where("id IN ? AND user_id = ?", ids, userID).Count(&found).Error; err != nil {
		return err
	}
	if found != int64(len(ids)) {
		return ErrInvalidTaskIDs
	}
	return tx.Model(&models.Task{}).Where("id IN ?", ids).Update("goal_id", goalID).Error
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
