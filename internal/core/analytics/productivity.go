package analytics

import (
	"math"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

// ScoreDay combines the tasks scheduled on date and the day's log (nil if absent)
// into DailyStats. A day with no tasks and no log scores 10: the energy
// component falls back to the medium bonus.
func ScoreDay(date string, tasks []*domain.Task, log *domain.DailyLog, cfg Config) domain.DailyStats {
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	total := len(tasks)

	var focusHours float64
	var mood *domain.Mood
	var energy *domain.EnergyLevel
	if log != nil {
		if log.StudyHours != nil {
			focusHours = *log.StudyHours
		}
		mood = log.Mood
		energy = log.EnergyLevel
	}

	taskScore := 0.0
	if total > 0 {
		taskScore = float64(completed) / float64(total)
	}
	focusScore := math.Min(focusHours/cfg.TargetFocusHours, 1)

	w := cfg.Weights
	score := roundHalfUp((taskScore*w.Tasks + focusScore*w.Focus + energyBonus(energy, cfg.EnergyBonus)*w.Energy) * 100)

	return domain.DailyStats{
		Date:              date,
		ProductivityScore: score,
		TasksCompleted:    completed,
		TotalTasks:        total,
		FocusHours:        focusHours,
		Mood:              mood,
		EnergyLevel:       energy,
	}
}

func energyBonus(level *domain.EnergyLevel, b EnergyBonus) float64 {
	if level == nil {
		return b.Medium
	}
	switch *level {
	case domain.EnergyHigh:
		return b.High
	case domain.EnergyLow:
		return b.Low
	default:
		return b.Medium
	}
}
