package services

import (
	"context"
	"strings"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/tasktree"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// ownedProject loads a project and checks it belongs to userID.
func ownedProject(db *gorm.DB, userID, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrProjectNotFound)
	}
	if project.UserID != userID {
		return nil, ErrForbidden
	}
	return &project, nil
}

func (s *ProjectService) List(ctx context.Context, userID uuid.UUID, status string) ([]models.Project, error) {
	db := s.db.WithContext(ctx)

	q := db.Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}
	var projects []models.Project
	if err := q.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	var counts []struct {
		ProjectID uuid.UUID
		Count     int64
	}
	if err := db.Model(&models.Task{}).
		Select("project_id, COUNT(*) AS count").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	byProject := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		byProject[c.ProjectID] = c.Count
	}
	for i := range projects {
		projects[i].TaskCount = byProject[projects[i].ID]
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Project, error) {
	db := s.db.WithContext(ctx)

	project, err := ownedProject(db, userID, id)
	if err != nil {
		return nil, err
	}
	if err := db.Where("project_id = ?", id).Order("created_at").Find(&project.Goals).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Task{}).Where("project_id = ?", id).Count(&project.TaskCount).Error; err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, req *dto.ProjectRequest) (*models.Project, error) {
	project := models.Project{UserID: userID}
	applyProject(&project, req)
	if err := s.db.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Replace overwrites every editable field; omitted optional fields reset.
func (s *ProjectService) Replace(ctx context.Context, userID, id uuid.UUID, req *dto.ProjectRequest) (*models.Project, error) {
	db := s.db.WithContext(ctx)

	project, err := ownedProject(db, userID, id)
	if err != nil {
		return nil, err
	}
	applyProject(project, req)
	if err := db.Omit("Goals", "Tasks").Save(project).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, userID, id)
}

func (s *ProjectService) Patch(ctx context.Context, userID, id uuid.UUID, req *dto.ProjectPatchRequest) (*models.Project, error) {
	db := s.db.WithContext(ctx)

	project, err := ownedProject(db, userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if req.Status != nil {
		updates["status"] = models.ProjectStatus(strings.ToUpper(*req.Status))
	}
	if req.DueDate.Set {
		updates["due_date"] = nil
		if req.DueDate.Value != nil {
			updates["due_date"] = req.DueDate.Value.UTC()
		}
	}
	if len(updates) > 0 {
		if err := db.Model(project).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, userID, id)
}

// Delete removes a project. A project that still has tasks is only removed
// with cascade set, in which case its tasks and their subtrees go first,
// then its goals, then the project itself.
func (s *ProjectService) Delete(ctx context.Context, userID, id uuid.UUID, cascade bool) error {
	db := s.db.WithContext(ctx)

	if _, err := ownedProject(db, userID, id); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var direct []uuid.UUID
		if err := tx.Model(&models.Task{}).Where("project_id = ?", id).Pluck("id", &direct).Error; err != nil {
			return err
		}
		if len(direct) > 0 && !cascade {
			return ErrProjectHasTasks
		}

		if len(direct) > 0 {
			nodes, err := taskNodes(tx, userID)
			if err != nil {
				return err
			}
			if err := deleteTasks(tx, subtreeIDs(direct, nodes)); err != nil {
				return err
			}
		}

		goals := tx.Model(&models.Goal{}).Select("id").Where("project_id = ?", id)
		if err := tx.Model(&models.Task{}).Where("goal_id IN (?)", goals).Update("goal_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

func applyProject(p *models.Project, req *dto.ProjectRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Color = req.Color
	p.Status = models.ProjectActive
	if req.Status != "" {
		p.Status = models.ProjectStatus(strings.ToUpper(req.Status))
	}
	p.DueDate = nil
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		p.DueDate = &due
	}
}

// taskNodes loads the id/parent pairs of every task the user owns.
func taskNodes(db *gorm.DB, userID uuid.UUID) ([]tasktree.Node, error) {
	var nodes []tasktree.Node
	err := db.Model(&models.Task{}).Select("id", "parent_id").Where("user_id = ?", userID).Scan(&nodes).Error
	return nodes, err
}

// subtreeIDs expands roots with all their descendants, without duplicates.
func subtreeIDs(roots []uuid.UUID, nodes []tasktree.Node) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(roots))
	var out []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, r := range roots {
		add(r)
		for _, d := range tasktree.Descendants(r, nodes) {
			add(d)
		}
	}
	return out
}

// deleteTasks removes the given tasks and their category links.
func deleteTasks(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM task_categories WHERE task_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.Task{}).Error
}
