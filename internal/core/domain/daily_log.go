package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidMood   = fmt.Errorf("%w: mood must be one of great, good, neutral, bad, terrible", ErrInvalidInput)
	ErrInvalidEnergy = fmt.Errorf("%w: energy level must be high, medium or low", ErrInvalidInput)
	ErrInvalidHours  = fmt.Errorf("%w: hours must be between 0 and 24", ErrInvalidInput)
)

type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodNeutral  Mood = "neutral"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

func ParseMood(s string) (Mood, error) {
	switch m := Mood(strings.ToLower(strings.TrimSpace(s))); m {
	case MoodGreat, MoodGood, MoodNeutral, MoodBad, MoodTerrible:
		return m, nil
	default:
		return "", ErrInvalidMood
	}
}

// Negative reports whether the mood counts towards burnout.
func (m Mood) Negative() bool {
	return m == MoodBad || m == MoodTerrible
}

type EnergyLevel string

const (
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

func ParseEnergyLevel(s string) (EnergyLevel, error) {
	switch e := EnergyLevel(strings.ToLower(strings.TrimSpace(s))); e {
	case EnergyHigh, EnergyMedium, EnergyLow:
		return e, nil
	default:
		return "", ErrInvalidEnergy
	}
}

// DailyLog is the self-reported record of one calendar day, unique per (user, date).
type DailyLog struct {
	ID          string       `json:"id" db:"id" bson:"_id"`
	UserID      string       `json:"userId" db:"user_id" bson:"user_id"`
	Date        string       `json:"date" db:"date" bson:"date"`
	SleepHours  *float64     `json:"sleepHours,omitempty" db:"sleep_hours" bson:"sleep_hours,omitempty"`
	StudyHours  *float64     `json:"studyHours,omitempty" db:"study_hours" bson:"study_hours,omitempty"`
	Mood        *Mood        `json:"mood,omitempty" db:"mood" bson:"mood,omitempty"`
	EnergyLevel *EnergyLevel `json:"energyLevel,omitempty" db:"energy_level" bson:"energy_level,omitempty"`
	Notes       *string      `json:"notes,omitempty" db:"notes" bson:"notes,omitempty"`

	// TasksCompleted is a denormalised snapshot kept by the snapshot worker.
	TasksCompleted int `json:"tasksCompleted" db:"tasks_completed" bson:"tasks_completed"`

	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updated_at"`
}

// DailyLogPatch holds the fields supplied by a write; nil fields keep their stored value.
type DailyLogPatch struct {
	SleepHours  *float64
	StudyHours  *float64
	Mood        *Mood
	EnergyLevel *EnergyLevel
	Notes       *string
}

func validHours(h *float64) bool {
	if h == nil {
		return true
	}
	return !math.IsNaN(*h) && *h >= 0 && *h <= 24
}

func (p DailyLogPatch) Validate() error {
	if !validHours(p.SleepHours) || !validHours(p.StudyHours) {
		return ErrInvalidHours
	}
	if p.Mood != nil {
		if _, err := ParseMood(string(*p.Mood)); err != nil {
			return err
		}
	}
	if p.EnergyLevel != nil {
		if _, err := ParseEnergyLevel(string(*p.EnergyLevel)); err != nil {
			return err
		}
	}
	return nil
}

// Apply overwrites only the supplied fields.
func (l *DailyLog) Apply(p DailyLogPatch, at time.Time) {
	if p.SleepHours != nil {
		v := *p.SleepHours
		l.SleepHours = &v
	}
	if p.StudyHours != nil {
		v := *p.StudyHours
		l.StudyHours = &v
	}
	if p.Mood != nil {
		v := *p.Mood
		l.Mood = &v
	}
	if p.EnergyLevel != nil {
		v := *p.EnergyLevel
		l.EnergyLevel = &v
	}
	if p.Notes != nil {
		v := *p.Notes
		l.Notes = &v
	}
	l.UpdatedAt = at.UTC()
}
