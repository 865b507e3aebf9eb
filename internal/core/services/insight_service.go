package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

const (
	contextTaskLimit = 10
	contextLogLimit  = 7

	FallbackSuggestion = "Focus on your highest priority task first thing today."
)

// FallbackInsights are served whenever the completer fails or answers with garbage.
func FallbackInsights() []domain.Insight {
	return []domain.Insight{
		{
			Type:     domain.InsightSuggestion,
			Title:    "Start Logging Data",
			Content:  "Log your daily tasks and metrics to unlock personalized AI insights.",
			Priority: domain.PriorityMedium,
		},
		{
			Type:     domain.InsightObservation,
			Title:    "Track Your Progress",
			Content:  "Consistent tracking helps the AI understand your patterns better.",
			Priority: domain.PriorityLow,
		},
	}
}

type InsightService struct {
	analytics *AnalyticsService
	tasks     domain.TaskRepository
	logs      domain.DailyLogRepository
	completer domain.TextCompleter
	cache     domain.InsightCache
	logger    *slog.Logger
}

// NewInsightService accepts a nil cache.
func NewInsightService(
	analytics *AnalyticsService,
	tasks domain.TaskRepository,
	logs domain.DailyLogRepository,
	completer domain.TextCompleter,
	cache domain.InsightCache,
	logger *slog.Logger,
) *InsightService {
	return &InsightService{
		analytics: analytics,
		tasks:     tasks,
		logs:      logs,
		completer: completer,
		cache:     cache,
		logger:    logger,
	}
}

// BuildContext renders the user's last week as plain text for the prompt.
func (s *InsightService) BuildContext(ctx context.Context, userID string) (string, error) {
	weekly, err := s.analytics.WeeklyAt(ctx, userID, s.analytics.now())
	if err != nil {
		return "", err
	}

	tctx, cancel := s.analytics.withTimeout(ctx)
	defer cancel()

	tasks, err := s.tasks.Find(tctx, domain.TaskFilter{UserID: userID, Sort: domain.SortCreatedDesc, Limit: contextTaskLimit})
	if err != nil {
		return "", fmt.Errorf("insights: recent tasks: %w", err)
	}
	logs, err := s.logs.FindRecent(tctx, userID, contextLogLimit)
	if err != nil {
		return "", fmt.Errorf("insights: recent logs: %w", err)
	}

	var b strings.Builder

	b.WriteString("## User Analytics (Last 7 Days)\n")
	fmt.Fprintf(&b, "- Average Productivity Score: %d/100\n", weekly.AverageProductivity)
	fmt.Fprintf(&b, "- Total Tasks Completed: %d\n", weekly.TotalTasksCompleted)
	fmt.Fprintf(&b, "- Total Focus Hours: %s\n", formatHours(weekly.TotalFocusHours))
	fmt.Fprintf(&b, "- Consistency Score: %d%%\n", weekly.ConsistencyScore)
	fmt.Fprintf(&b, "- Burnout Risk: %s\n", weekly.BurnoutRisk)

	b.WriteString("\n## Recent Tasks\n")
	if len(tasks) == 0 {
		b.WriteString("No tasks recorded\n")
	}
	for _, t := range tasks {
		status := "Pending"
		if t.Completed {
			status = "Done"
		}
		fmt.Fprintf(&b, "- %s (%s, Priority: %s)\n", t.Title, status, t.Priority)
	}

	b.WriteString("\n## Daily Logs\n")
	if len(logs) == 0 {
		b.WriteString("No logs recorded\n")
	}
	for _, l := range logs {
		fmt.Fprintf(&b, "- %s: Sleep %sh, Study %sh, Mood: %s, Energy: %s\n",
			l.Date, optHours(l.SleepHours), optHours(l.StudyHours), optString(l.Mood), optString(l.EnergyLevel))
	}

	b.WriteString("\n## Mood Trend\n")
	moods := make([]string, 0, len(weekly.MoodTrend))
	for _, m := range weekly.MoodTrend {
		moods = append(moods, fmt.Sprintf("%s: %d days", m.Mood, m.Count))
	}
	b.WriteString(joinOr(moods, "No mood data"))

	b.WriteString("\n\n## Energy Trend\n")
	energy := make([]string, 0, len(weekly.EnergyTrend))
	for _, e := range weekly.EnergyTrend {
		energy = append(energy, fmt.Sprintf("%s: %d days", e.Energy, e.Count))
	}
	b.WriteString(joinOr(energy, "No energy data"))
	b.WriteString("\n")

	return b.String(), nil
}

// Insights asks the completer for 3-4 insights. Completer failures degrade to
// FallbackInsights; only store failures while building the context are returned.
func (s *InsightService) Insights(ctx context.Context, userID string) ([]domain.Insight, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			s.logger.Warn("insight cache read failed", "user_id", userID, "error", err)
		}
	}

	userContext, err := s.BuildContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.completer.Complete(ctx, insightsPrompt(userContext))
	if err != nil {
		s.logger.Warn("insight generation failed, serving fallback", "user_id", userID, "error", err)
		return FallbackInsights(), nil
	}

	insights, err := ParseInsights(reply)
	if err != nil {
		s.logger.Warn("unparseable insight reply, serving fallback", "user_id", userID, "error", err)
		return FallbackInsights(), nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, insights); err != nil {
			s.logger.Warn("insight cache write failed", "user_id", userID, "error", err)
		}
	}

	return insights, nil
}

func (s *InsightService) DailySuggestion(ctx context.Context, userID string) (string, error) {
	userContext, err := s.BuildContext(ctx, userID)
	if err != nil {
		return "", err
	}

	reply, err := s.completer.Complete(ctx, suggestionPrompt(userContext))
	if err != nil {
		s.logger.Warn("daily suggestion failed, serving fallback", "user_id", userID, "error", err)
		return FallbackSuggestion, nil
	}

	suggestion := strings.Trim(strings.TrimSpace(reply), `"`)
	if suggestion == "" {
		return FallbackSuggestion, nil
	}
	return suggestion, nil
}

// ParseInsights extracts the first JSON array in reply, from the first '[' to the last ']'.
func ParseInsights(reply string) ([]domain.Insight, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON array in reply", domain.ErrInvalidInput)
	}

	var insights []domain.Insight
	if err := json.Unmarshal([]byte(reply[start:end+1]), &insights); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if len(insights) == 0 {
		return nil, fmt.Errorf("%w: empty insight list", domain.ErrInvalidInput)
	}
	return insights, nil
}

func insightsPrompt(userContext string) string {
	return `You are a life optimization assistant. Read the user data below and give 3-4 actionable insights.

` + userContext + `
Answer with a JSON array shaped like this:
[
  {
    "type": "observation" | "suggestion" | "warning" | "prediction",
    "title": "Short title (max 50 chars)",
    "content": "Detailed insight (max 150 chars)",
    "priority": "low" | "medium" | "high"
  }
]

Cover productivity patterns, sleep and energy, burnout prevention when risk is present, and task completion strategies.

Return ONLY the JSON array, without markdown or extra text.`
}

func suggestionPrompt(userContext string) string {
	return `Given this user's data, give ONE short actionable suggestion for today (max 100 chars):

` + userContext + `
Reply with the suggestion text only, without quotes or formatting.`
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

func optHours(h *float64) string {
	if h == nil {
		return "?"
	}
	return formatHours(*h)
}

func optString[T ~string](v *T) string {
	if v == nil || *v == "" {
		return "?"
	}
	return string(*v)
}

func joinOr(parts []string, empty string) string {
	if len(parts) == 0 {
		return empty
	}
	return strings.Join(parts, ", ")
}
