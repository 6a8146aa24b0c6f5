// Package tasktree holds pure helpers over task lists: grouping into named
// buckets, subtask progress, recurrence and subtree walking.
package tasktree

import (
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
)

type GroupBy string

const (
	ByCategory GroupBy = "category"
	ByPriority GroupBy = "priority"
	ByDueDate  GroupBy = "dueDate"
)

const (
	BucketUncategorized = "Uncategorized"
	BucketOverdue       = "Overdue"
	BucketToday         = "Today"
	BucketTomorrow      = "Tomorrow"
	BucketNoDueDate     = "No due date"

	// DateLayout names buckets for days after tomorrow.
	DateLayout = "Jan 2, 2006"
)

func ParseGroupBy(s string) (GroupBy, bool) {
	switch GroupBy(s) {
	case ByCategory, ByPriority, ByDueDate:
		return GroupBy(s), true
	}
	return "", false
}

type Bucket struct {
	Name  string
	Tasks []models.Task
}

// Group partitions tasks into named buckets. Empty buckets are omitted and
// tasks keep their input order inside a bucket. now and loc fix what "today"
// means for due-date buckets.
func Group(tasks []models.Task, by GroupBy, now time.Time, loc *time.Location) []Bucket {
	switch by {
	case ByCategory:
		return byCategory(tasks)
	case ByPriority:
		return byPriority(tasks)
	case ByDueDate:
		return byDueDate(tasks, now, loc)
	default:
		return []Bucket{{Name: "All", Tasks: tasks}}
	}
}

// A task in several categories shows up in each of them.
func byCategory(tasks []models.Task) []Bucket {
	index := map[string]int{}
	var buckets []Bucket
	var uncategorized []models.Task

	for _, t := range tasks {
		if len(t.Categories) == 0 {
			uncategorized = append(uncategorized, t)
			continue
		}
		for _, c := range t.Categories {
			i, ok := index[c.Name]
			if !ok {
				i = len(buckets)
				index[c.Name] = i
				buckets = append(buckets, Bucket{Name: c.Name})
			}
			buckets[i].Tasks = append(buckets[i].Tasks, t)
		}
	}

	sort.SliceStable(buckets, func(a, b int) bool { return buckets[a].Name < buckets[b].Name })
	if len(uncategorized) > 0 {
		buckets = append(buckets, Bucket{Name: BucketUncategorized, Tasks: uncategorized})
	}
	return buckets
}

func byPriority(tasks []models.Task) []Bucket {
	grouped := map[models.Priority][]models.Task{}
	for _, t := range tasks {
		grouped[t.Priority] = append(grouped[t.Priority], t)
	}

	var buckets []Bucket
	for _, p := range models.Priorities() {
		if ts := grouped[p]; len(ts) > 0 {
			buckets = append(buckets, Bucket{Name: p.String(), Tasks: ts})
		}
	}
	return buckets
}

func byDueDate(tasks []models.Task, now time.Time, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.Local
	}
	today := StartOfDay(now, loc)
	tomorrow := today.AddDate(0, 0, 1)
	dayAfter := today.AddDate(0, 0, 2)

	type dated struct {
		day   time.Time
		tasks []models.Task
	}
	var overdue, dueToday, dueTomorrow, undated []models.Task
	later := map[string]*dated{}

	for _, t := range tasks {
		if t.DueDate == nil {
			undated = append(undated, t)
			continue
		}
		due := t.DueDate.In(loc)
		switch {
		case due.Before(today):
			overdue = append(overdue, t)
		case due.Before(tomorrow):
			dueToday = append(dueToday, t)
		case due.Before(dayAfter):
			dueTomorrow = append(dueTomorrow, t)
		default:
			day := StartOfDay(due, loc)
			key := day.Format(DateLayout)
			d, ok := later[key]
			if !ok {
				d = &dated{day: day}
				later[key] = d
			}
			d.tasks = append(d.tasks, t)
		}
	}

	var buckets []Bucket
	add := func(name string, ts []models.Task) {
		if len(ts) > 0 {
			buckets = append(buckets, Bucket{Name: name, Tasks: ts})
		}
	}
	add(BucketOverdue, overdue)
	add(BucketToday, dueToday)
	add(BucketTomorrow, dueTomorrow)

	days := make([]*dated, 0, len(later))
	for _, d := range later {
		days = append(days, d)
	}
	sort.Slice(days, func(a, b int) bool { return days[a].day.Before(days[b].day) })
	for _, d := range days {
		add(d.day.Format(DateLayout), d.tasks)
	}

	add(BucketNoDueDate, undated)
	return buckets
}

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
