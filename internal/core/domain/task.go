package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTaskTitleEmpty   = fmt.Errorf("%w: task title cannot be empty", ErrInvalidInput)
	ErrTaskTitleTooLong = fmt.Errorf("%w: task title is too long (max 200 chars)", ErrInvalidInput)
	ErrInvalidPriority  = fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidInput)
	ErrInvalidDuration  = fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	ErrTaskInvalidUser  = fmt.Errorf("%w: invalid user id", ErrInvalidInput)
)

const MaxTaskTitleLen = 200

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts the lowercase tags; an empty string means medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", ErrInvalidPriority
	}
}

// Weight orders priorities: high > medium > low. Unknown values weigh 0.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Task struct {
	ID           string     `json:"id" db:"id" bson:"_id"`
	UserID       string     `json:"userId" db:"user_id" bson:"user_id"`
	Title        string     `json:"title" db:"title" bson:"title"`
	Description  string     `json:"description,omitempty" db:"description" bson:"description"`
	Duration     *int       `json:"duration,omitempty" db:"duration" bson:"duration,omitempty"`
	Completed    bool       `json:"completed" db:"completed" bson:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty" db:"completed_at" bson:"completed_at,omitempty"`
	Priority     Priority   `json:"priority" db:"priority" bson:"priority"`
	ScheduledFor time.Time  `json:"scheduledFor" db:"scheduled_for" bson:"scheduled_for"`
	GoalID       *string    `json:"goalId,omitempty" db:"goal_id" bson:"goal_id,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

func validateTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", ErrTaskTitleEmpty
	}
	if len(trimmed) > MaxTaskTitleLen {
		return "", ErrTaskTitleTooLong
	}
	return trimmed, nil
}

func validateDuration(d *int) error {
	if d != nil && *d < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// NewTask builds a pending task. A zero scheduledFor defaults to the creation time.
func NewTask(userID, title string, priority Priority, scheduledFor time.Time) (*Task, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrTaskInvalidUser
	}

	cleanTitle, err := validateTitle(title)
	if err != nil {
		return nil, err
	}

	if priority == "" {
		priority = PriorityMedium
	}
	if priority.Weight() == 0 {
		return nil, ErrInvalidPriority
	}

	now := time.Now().UTC()
	if scheduledFor.IsZero() {
		scheduledFor = now
	}

	return &Task{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        cleanTitle,
		Priority:     priority,
		ScheduledFor: scheduledFor.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// SetCompleted stamps CompletedAt on a false->true transition and clears it when reopened.
func (t *Task) SetCompleted(completed bool, at time.Time) {
	switch {
	case completed && !t.Completed:
		ts := at.UTC()
		t.CompletedAt = &ts
	case !completed:
		t.CompletedAt = nil
	}
	t.Completed = completed
	t.UpdatedAt = at.UTC()
}

// TaskPatch carries a partial task update; nil fields are left untouched.
type TaskPatch struct {
	Title        *string
	Description  *string
	Duration     *int
	Priority     *Priority
	ScheduledFor *time.Time
	GoalID       *string
	Completed    *bool
}

func (t *Task) Apply(p TaskPatch, at time.Time) error {
	var title string
	if p.Title != nil {
		var err error
		if title, err = validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if err := validateDuration(p.Duration); err != nil {
		return err
	}
	if p.Priority != nil && p.Priority.Weight() == 0 {
		return ErrInvalidPriority
	}

	if p.Title != nil {
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Duration != nil {
		d := *p.Duration
		t.Duration = &d
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ScheduledFor != nil {
		t.ScheduledFor = p.ScheduledFor.UTC()
	}
	if p.GoalID != nil {
		g := *p.GoalID
		t.GoalID = &g
	}
	if p.Completed != nil {
		t.SetCompleted(*p.Completed, at)
	}

	t.UpdatedAt = at.UTC()
	return nil
}

type TaskSort int

const (
	SortCreatedDesc TaskSort = iota
	SortScheduledAsc
	// SortPriorityDesc orders by priority (high first), then scheduledFor ascending.
	SortPriorityDesc
	// SortScheduledAscPriorityDesc orders by scheduledFor ascending, then priority (high first).
	SortScheduledAscPriorityDesc
)

// TaskFilter selects a user's tasks. Nil bounds and a nil Completed flag are not applied.
type TaskFilter struct {
	UserID    string
	From      *time.Time
	To        *time.Time
	Completed *bool
	Sort      TaskSort
	Limit     int
}
