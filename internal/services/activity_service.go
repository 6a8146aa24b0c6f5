package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/tasktree"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultActivityDays = 7
	MaxActivityDays     = 90
)

// ParseDays reads the days query value. Empty means the default window.
func ParseDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultActivityDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > MaxActivityDays {
		return 0, ErrInvalidDays
	}
	return days, nil
}

// CompletionRate is completed/total as a whole percent, 0 when total is 0.
func CompletionRate(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

type ActivityService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewActivityService(db *gorm.DB, loc *time.Location) *ActivityService {
	if loc == nil {
		loc = time.Local
	}
	return &ActivityService{db: db, loc: loc, now: time.Now}
}

// Summary computes the stats and the per-day activity for the last days
// days. Every count is read inside one snapshot so they agree with each other.
func (s *ActivityService) Summary(ctx context.Context, userID uuid.UUID, days int) (*dto.ActivityResponse, error) {
	if days < 1 || days > MaxActivityDays {
		return nil, ErrInvalidDays
	}

	now := s.now()
	today := tasktree.StartOfDay(now, s.loc)
	tomorrow := today.AddDate(0, 0, 1)
	windowStart := today.AddDate(0, 0, -(days - 1))

	var (
		stats     dto.ActivityStats
		created   []time.Time
		completed []time.Time
	)
	err := database.Snapshot(ctx, s.db, func(tx *gorm.DB) error {
		owned := func() *gorm.DB {
			return tx.Model(&models.Task{}).Where("user_id = ?", userID)
		}
		if err := owned().Count(&stats.TotalTasks).Error; err != nil {
			return err
		}
		if err := owned().Where("completed_at IS NOT NULL").Count(&stats.CompletedTasks).Error; err != nil {
			return err
		}
		if err := owned().Where("completed_at IS NULL AND due_date < ?", now.UTC()).Count(&stats.OverdueTasks).Error; err != nil {
			return err
		}
		if err := owned().Where("due_date >= ? AND due_date < ?", today.UTC(), tomorrow.UTC()).Count(&stats.TasksDueToday).Error; err != nil {
			return err
		}
		if err := owned().Where("created_at >= ?", windowStart.UTC()).Pluck("created_at", &created).Error; err != nil {
			return err
		}
		return owned().Where("completed_at >= ?", windowStart.UTC()).Pluck("completed_at", &completed).Error
	})
	if err != nil {
		return nil, err
	}
	stats.CompletionRate = CompletionRate(stats.CompletedTasks, stats.TotalTasks)

	return &dto.ActivityResponse{
		Activity: s.daily(windowStart, days, created, completed),
		Stats:    stats,
	}, nil
}

func (s *ActivityService) daily(start time.Time, days int, created, completed []time.Time) []dto.ActivityDay {
	const layout = "2006-01-02"

	out := make([]dto.ActivityDay, days)
	index := make(map[string]int, days)
	for i := range out {
		date := start.AddDate(0, 0, i).Format(layout)
		out[i].Date = date
		index[date] = i
	}
	for _, t := range created {
		if i, ok := index[t.In(s.loc).Format(layout)]; ok {
			out[i].Created++
		}
	}
	for _, t := range completed {
		if i, ok := index[t.In(s.loc).Format(layout)]; ok {
			out[i].Completed++
		}
	}
	return out
}
