package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

const (
	MorningFocusWindow   = "9:00 AM - 12:00 PM (Morning peak detected)"
	AfternoonFocusWindow = "2:00 PM - 5:00 PM (Consider experimenting with different times)"
)

// RuleInput is everything the rules look at. It is fetched before any rule runs.
type RuleInput struct {
	Weekly       domain.WeeklyAnalytics
	RecentLogs   []*domain.DailyLog
	PendingTasks int
}

// Outcome is what a single rule contributes.
type Outcome struct {
	Recommendation *domain.Recommendation
	RiskFactors    []string
	SleepTarget    *float64
}

// Rule inspects the input and may contribute a recommendation, risk factors
// and a sleep target. Rules are independent: every rule runs on every input.
type Rule func(in RuleInput, cfg Config) Outcome

// DefaultRules in evaluation order. Ties after the priority sort keep this order.
var DefaultRules = []Rule{
	BurnoutRule,
	ConsistencyRule,
	SleepRule,
	OverloadRule,
	ProductivityRule,
	FocusTimeRule,
}

// Optimize runs rules over in and assembles the result.
func Optimize(in RuleInput, cfg Config, rules ...Rule) domain.OptimizationResult {
	if len(rules) == 0 {
		rules = DefaultRules
	}

	result := domain.OptimizationResult{
		Recommendations:      make([]domain.Recommendation, 0, len(rules)),
		RiskFactors:          make([]string, 0),
		SuggestedSleepTarget: cfg.Sleep.Default,
	}

	for _, rule := range rules {
		out := rule(in, cfg)
		if out.Recommendation != nil {
			result.Recommendations = append(result.Recommendations, *out.Recommendation)
		}
		result.RiskFactors = append(result.RiskFactors, out.RiskFactors...)
		if out.SleepTarget != nil {
			result.SuggestedSleepTarget = *out.SleepTarget
		}
	}

	result.OptimalFocusTime = OptimalFocusTime(in.Weekly, cfg)

	if len(result.Recommendations) == 0 {
		result.Recommendations = append(result.Recommendations, domain.Recommendation{
			Type:        domain.RecommendationHabit,
			Priority:    domain.PriorityLow,
			Title:       "Keep Going!",
			Description: "Your metrics look healthy. Stay consistent with your current routine.",
			Action:      "Continue logging daily for more personalized insights",
		})
	}

	sort.SliceStable(result.Recommendations, func(i, j int) bool {
		return result.Recommendations[i].Priority.Weight() > result.Recommendations[j].Priority.Weight()
	})

	return result
}

// AverageSleep is the mean sleep over logs, counting a missing value as 0.
func AverageSleep(logs []*domain.DailyLog) float64 {
	sum := 0.0
	for _, l := range logs {
		if l.SleepHours != nil {
			sum += *l.SleepHours
		}
	}
	return sum / float64(max(len(logs), 1))
}

// OptimalFocusTime picks the morning window once enough days reported high energy.
func OptimalFocusTime(w domain.WeeklyAnalytics, cfg Config) string {
	if w.EnergyDays(domain.EnergyHigh) >= cfg.Rules.MorningPeakDays {
		return MorningFocusWindow
	}
	return AfternoonFocusWindow
}

// BurnoutRule turns a medium or high weekly burnout risk into a recovery recommendation.
func BurnoutRule(in RuleInput, _ Config) Outcome {
	switch in.Weekly.BurnoutRisk {
	case domain.BurnoutHigh:
		return Outcome{
			Recommendation: &domain.Recommendation{
				Type:        domain.RecommendationRecovery,
				Priority:    domain.PriorityHigh,
				Title:       "Recovery Day Recommended",
				Description: "Your energy and mood patterns indicate high burnout risk. Schedule a rest day.",
				Action:      "Take a break from intense work for at least one day",
			},
			RiskFactors: []string{"High burnout risk detected from energy/mood patterns"},
		}
	case domain.BurnoutMedium:
		return Outcome{
			Recommendation: &domain.Recommendation{
				Type:        domain.RecommendationRecovery,
				Priority:    domain.PriorityMedium,
				Title:       "Watch Your Energy",
				Description: "You're showing early signs of fatigue. Prioritize sleep and leisure.",
				Action:      "Aim for 8 hours of sleep tonight",
			},
			RiskFactors: []string{"Moderate burnout indicators present"},
		}
	}
	return Outcome{}
}

// ConsistencyRule asks for daily logging when too few days carry data.
func ConsistencyRule(in RuleInput, cfg Config) Outcome {
	if in.Weekly.ConsistencyScore >= cfg.Rules.MinConsistency {
		return Outcome{}
	}
	return Outcome{
		Recommendation: &domain.Recommendation{
			Type:        domain.RecommendationHabit,
			Priority:    domain.PriorityHigh,
			Title:       "Improve Daily Logging",
			Description: fmt.Sprintf("You've only logged %d%% of days. Consistent tracking unlocks better insights.", in.Weekly.ConsistencyScore),
			Action:      "Set a daily reminder to log your metrics",
		},
		RiskFactors: []string{"Low data consistency - insights may be unreliable"},
	}
}

// SleepRule grades average sleep over the recent logs and sets the sleep target.
func SleepRule(in RuleInput, cfg Config) Outcome {
	avg := AverageSleep(in.RecentLogs)

	switch {
	case avg < cfg.Rules.ChronicSleepHours:
		target := cfg.Sleep.Recovery
		return Outcome{
			Recommendation: &domain.Recommendation{
				Type:        domain.RecommendationSchedule,
				Priority:    domain.PriorityHigh,
				Title:       "Critical: Increase Sleep",
				Description: fmt.Sprintf("You're averaging only %.1fh of sleep. This significantly impacts productivity.", avg),
				Action:      "Go to bed 1 hour earlier tonight",
			},
			RiskFactors: []string{"Chronic sleep deprivation"},
			SleepTarget: &target,
		}
	case avg < cfg.Rules.AdequateSleepHours:
		target := cfg.Sleep.Moderate
		return Outcome{
			Recommendation: &domain.Recommendation{
				Type:        domain.RecommendationSchedule,
				Priority:    domain.PriorityMedium,
				Title:       "Optimize Sleep",
				Description: fmt.Sprintf("You're averaging %.1fh. Aim for 7-8 hours for optimal performance.", avg),
				Action:      "Maintain a consistent sleep schedule",
			},
			SleepTarget: &target,
		}
	}
	return Outcome{}
}

// OverloadRule fires when the pending task count exceeds the overload threshold.
func OverloadRule(in RuleInput, cfg Config) Outcome {
	if in.PendingTasks <= cfg.Rules.TaskOverload {
		return Outcome{}
	}
	return Outcome{
		Recommendation: &domain.Recommendation{
			Type:        domain.RecommendationFocus,
			Priority:    domain.PriorityHigh,
			Title:       "Task Overload",
			Description: fmt.Sprintf("You have %d pending tasks. Consider prioritizing or delegating.", in.PendingTasks),
			Action:      "Review and prune your task list - delete or defer low-priority items",
		},
		RiskFactors: []string{"Task accumulation leading to overwhelm"},
	}
}

// ProductivityRule fires for a low or a high weekly average; the two cases exclude each other.
func ProductivityRule(in RuleInput, cfg Config) Outcome {
	avg := in.Weekly.AverageProductivity
	switch {
	case avg < cfg.Rules.LowProductivity:
		return Outcome{
			Recommendation: &domain.Recommendation{
				Type:        domain.RecommendationFocus,
				Priority:    domain.PriorityMedium,
				Title:       "Boost Productivity",
				Description: "Your productivity score is below optimal. Focus on completing high-impact tasks.",
				Action:      "Use Pomodoro technique: 25 min work, 5 min break",
			},
		}
	case avg > cfg.Rules.HighProductivity:
		return Outcome{
			Recommendation: &domain.Recommendation{
				Type:        domain.RecommendationHabit,
				Priority:    domain.PriorityLow,
				Title:       "Great Performance!",
				Description: fmt.Sprintf("You're averaging %d%% productivity. Keep up the momentum!", avg),
				Action:      "Share your success strategies with others",
			},
		}
	}
	return Outcome{}
}

// FocusTimeRule fires for low weekly focus hours, but only when the week is consistent enough to trust.
func FocusTimeRule(in RuleInput, cfg Config) Outcome {
	w := in.Weekly
	if w.TotalFocusHours >= cfg.Rules.MinWeeklyFocusHours || w.ConsistencyScore <= cfg.Rules.MinConsistency {
		return Outcome{}
	}
	return Outcome{
		Recommendation: &domain.Recommendation{
			Type:        domain.RecommendationFocus,
			Priority:    domain.PriorityMedium,
			Title:       "Increase Focus Time",
			Description: fmt.Sprintf("You logged only %sh this week. Target 4-6 hours daily.", strconv.FormatFloat(w.TotalFocusHours, 'f', -1, 64)),
			Action:      "Block 2 distraction-free hours each morning",
		},
	}
}
