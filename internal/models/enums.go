package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is stored as its ordinal so tasks sort by urgency; on the wire it
// travels as its label.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

var priorityLabels = [...]string{"NONE", "LOW", "MEDIUM", "HIGH", "URGENT"}

func (p Priority) String() string {
	if p < PriorityNone || p > PriorityUrgent {
		return priorityLabels[PriorityNone]
	}
	return priorityLabels[p]
}

// ParsePriority accepts a label in any case.
func ParsePriority(s string) (Priority, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, label := range priorityLabels {
		if label == s {
			return Priority(i), true
		}
	}
	return PriorityNone, false
}

// Priorities lists every level from the most to the least urgent.
func Priorities() []Priority {
	return []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		parsed, ok := ParsePriority(label)
		if !ok {
			return fmt.Errorf("unknown priority %q", label)
		}
		*p = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("priority must be a label or ordinal: %w", err)
	}
	if n < int(PriorityNone) || n > int(PriorityUrgent) {
		return fmt.Errorf("priority ordinal %d out of range", n)
	}
	*p = Priority(n)
	return nil
}

type Emotion string

const (
	EmotionNeutral  Emotion = "NEUTRAL"
	EmotionHappy    Emotion = "HAPPY"
	EmotionExcited  Emotion = "EXCITED"
	EmotionCalm     Emotion = "CALM"
	EmotionTired    Emotion = "TIRED"
	EmotionStressed Emotion = "STRESSED"
	EmotionAnxious  Emotion = "ANXIOUS"
	EmotionSad      Emotion = "SAD"
)

var Emotions = []Emotion{
	EmotionNeutral, EmotionHappy, EmotionExcited, EmotionCalm,
	EmotionTired, EmotionStressed, EmotionAnxious, EmotionSad,
}

func (e Emotion) Valid() bool {
	for _, v := range Emotions {
		if v == e {
			return true
		}
	}
	return false
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
)

func (s ProjectStatus) Valid() bool {
	return s == ProjectActive || s == ProjectCompleted || s == ProjectArchived
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "NONE"
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
	RecurrenceYearly  Recurrence = "YEARLY"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}
