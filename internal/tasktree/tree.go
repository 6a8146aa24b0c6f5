package tasktree

import (
	"math"
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/google/uuid"
)

// Progress is the share of completed children in percent, or nil when there
// are no children.
func Progress(children []models.Task) *float64 {
	if len(children) == 0 {
		return nil
	}
	done := 0
	for _, c := range children {
		if c.Completed() {
			done++
		}
	}
	return Percent(done, len(children))
}

// Percent is done/total*100 rounded to two decimals, or nil when total is 0.
func Percent(done, total int) *float64 {
	if total <= 0 {
		return nil
	}
	p := math.Round(float64(done)/float64(total)*10000) / 100
	return &p
}

// Children returns the direct children of id from a flat list.
func Children(tasks []models.Task, id uuid.UUID) []models.Task {
	var out []models.Task
	for _, t := range tasks {
		if t.ParentID != nil && *t.ParentID == id {
			out = append(out, t)
		}
	}
	return out
}

// Node is the minimal shape needed to walk a task forest.
type Node struct {
	ID       uuid.UUID
	ParentID *uuid.UUID
}

// Descendants lists every task below root, breadth first, root excluded.
// A corrupt parent cycle cannot loop forever.
func Descendants(root uuid.UUID, nodes []Node) []uuid.UUID {
	kids := make(map[uuid.UUID][]uuid.UUID, len(nodes))
	for _, n := range nodes {
		if n.ParentID != nil {
			kids[*n.ParentID] = append(kids[*n.ParentID], n.ID)
		}
	}

	seen := map[uuid.UUID]bool{root: true}
	var out []uuid.UUID
	queue := []uuid.UUID{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, k := range kids[cur] {
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
			queue = append(queue, k)
		}
	}
	return out
}

// WouldCycle reports whether making parent the parent of id creates a loop.
func WouldCycle(id, parent uuid.UUID, nodes []Node) bool {
	if id == parent {
		return true
	}
	for _, d := range Descendants(id, nodes) {
		if d == parent {
			return true
		}
	}
	return false
}

// NextOccurrence advances due by one period of rule. Monthly and yearly steps
// clamp to the last day of a shorter month (Jan 31 -> Feb 28).
func NextOccurrence(due time.Time, rule models.Recurrence) (time.Time, bool) {
	switch rule {
	case models.RecurrenceDaily:
		return due.AddDate(0, 0, 1), true
	case models.RecurrenceWeekly:
		return due.AddDate(0, 0, 7), true
	case models.RecurrenceMonthly:
		return addMonths(due, 1), true
	case models.RecurrenceYearly:
		return addMonths(due, 12), true
	default:
		return time.Time{}, false
	}
}

func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}
