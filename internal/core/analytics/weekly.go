package analytics

import (
	"time"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

const WindowDays = 7

// WindowDates returns the seven calendar dates ending at end (inclusive), oldest first.
func WindowDates(end time.Time) []string {
	end = end.UTC()
	dates := make([]string, WindowDays)
	for i := 0; i < WindowDays; i++ {
		dates[i] = end.AddDate(0, 0, -(WindowDays - 1 - i)).Format(domain.DateLayout)
	}
	return dates
}

// hasData reports whether a day counts towards average and consistency.
// Days without tasks or log still score 10 and therefore count.
func hasData(d domain.DailyStats) bool {
	return d.ProductivityScore > 0 || d.TotalTasks > 0
}

// Aggregate folds a window of DailyStats, oldest first, into WeeklyAnalytics.
func Aggregate(days []domain.DailyStats, cfg Config) domain.WeeklyAnalytics {
	var (
		daysWithData      int
		totalProductivity int
		totalCompleted    int
		totalFocus        float64
	)

	moodTrend := make([]domain.MoodCount, 0)
	energyTrend := make([]domain.EnergyCount, 0)
	moodIdx := make(map[domain.Mood]int)
	energyIdx := make(map[domain.EnergyLevel]int)

	for _, d := range days {
		if hasData(d) {
			daysWithData++
			totalProductivity += d.ProductivityScore
		}

		totalCompleted += d.TasksCompleted
		totalFocus += d.FocusHours

		// Values outside the known enums (legacy rows) are left out of the trends.
		if mood, ok := knownMood(d.Mood); ok {
			if i, seen := moodIdx[mood]; seen {
				moodTrend[i].Count++
			} else {
				moodIdx[mood] = len(moodTrend)
				moodTrend = append(moodTrend, domain.MoodCount{Mood: mood, Count: 1})
			}
		}
		if energy, ok := knownEnergy(d.EnergyLevel); ok {
			if i, seen := energyIdx[energy]; seen {
				energyTrend[i].Count++
			} else {
				energyIdx[energy] = len(energyTrend)
				energyTrend = append(energyTrend, domain.EnergyCount{Energy: energy, Count: 1})
			}
		}
	}

	avg := 0
	if daysWithData > 0 {
		avg = roundHalfUp(float64(totalProductivity) / float64(daysWithData))
	}

	lowEnergyDays := 0
	if i, ok := energyIdx[domain.EnergyLow]; ok {
		lowEnergyDays = energyTrend[i].Count
	}
	badMoodDays := 0
	for _, m := range moodTrend {
		if m.Mood.Negative() {
			badMoodDays += m.Count
		}
	}

	result := domain.WeeklyAnalytics{
		AverageProductivity: avg,
		TotalTasksCompleted: totalCompleted,
		TotalFocusHours:     totalFocus,
		MoodTrend:           moodTrend,
		EnergyTrend:         energyTrend,
		DailyBreakdown:      days,
		ConsistencyScore:    roundHalfUp(float64(daysWithData) / float64(WindowDays) * 100),
		BurnoutRisk:         ClassifyBurnout(lowEnergyDays, badMoodDays, cfg.Burnout),
	}
	if len(days) > 0 {
		result.StartDate = days[0].Date
		result.EndDate = days[len(days)-1].Date
	}
	return result
}

// ClassifyBurnout evaluates high before medium; anything else is low.
func ClassifyBurnout(lowEnergyDays, badMoodDays int, t BurnoutThresholds) domain.BurnoutRisk {
	switch {
	case lowEnergyDays >= t.HighLowEnergyDays || badMoodDays >= t.HighBadMoodDays:
		return domain.BurnoutHigh
	case lowEnergyDays >= t.MediumLowEnergyDays || badMoodDays >= t.MediumBadMoodDays:
		return domain.BurnoutMedium
	default:
		return domain.BurnoutLow
	}
}

func knownMood(m *domain.Mood) (domain.Mood, bool) {
	if m == nil {
		return "", false
	}
	parsed, err := domain.ParseMood(string(*m))
	return parsed, err == nil
}

func knownEnergy(e *domain.EnergyLevel) (domain.EnergyLevel, bool) {
	if e == nil {
		return "", false
	}
	parsed, err := domain.ParseEnergyLevel(string(*e))
	return parsed, err == nil
}
