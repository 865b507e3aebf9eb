package domain

import "time"

// DailyStats is derived per request from a day's tasks and log; it is never persisted.
type DailyStats struct {
	Date              string       `json:"date"`
	ProductivityScore int          `json:"productivityScore"`
	TasksCompleted    int          `json:"tasksCompleted"`
	TotalTasks        int          `json:"totalTasks"`
	FocusHours        float64      `json:"focusHours"`
	Mood              *Mood        `json:"mood"`
	EnergyLevel       *EnergyLevel `json:"energyLevel"`
}

type BurnoutRisk string

const (
	BurnoutLow    BurnoutRisk = "low"
	BurnoutMedium BurnoutRisk = "medium"
	BurnoutHigh   BurnoutRisk = "high"
)

// Level orders risks low < medium < high.
func (r BurnoutRisk) Level() int {
	switch r {
	case BurnoutHigh:
		return 2
	case BurnoutMedium:
		return 1
	}
	return 0
}

type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}

type EnergyCount struct {
	Energy EnergyLevel `json:"energy"`
	Count  int         `json:"count"`
}

type WeeklyAnalytics struct {
	StartDate           string        `json:"startDate"`
	EndDate             string        `json:"endDate"`
	AverageProductivity int           `json:"averageProductivity"`
	TotalTasksCompleted int           `json:"totalTasksCompleted"`
	TotalFocusHours     float64       `json:"totalFocusHours"`
	MoodTrend           []MoodCount   `json:"moodTrend"`
	EnergyTrend         []EnergyCount `json:"energyTrend"`
	DailyBreakdown      []DailyStats  `json:"dailyBreakdown"`
	ConsistencyScore    int           `json:"consistencyScore"`
	BurnoutRisk         BurnoutRisk   `json:"burnoutRisk"`
}

// EnergyDays returns the number of days the given energy level was reported.
func (w WeeklyAnalytics) EnergyDays(level EnergyLevel) int {
	for _, e := range w.EnergyTrend {
		if e.Energy == level {
			return e.Count
		}
	}
	return 0
}

type NextTask struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Duration     *int      `json:"duration,omitempty"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

// TodayStats is the dashboard view: today's score plus the next pending task.
type TodayStats struct {
	DailyStats
	NextPriorityTask *NextTask `json:"nextPriorityTask"`
}
