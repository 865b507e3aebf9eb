package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

func ptr[T any](v T) *T { return &v }

func task(completed bool) *domain.Task {
	return &domain.Task{ID: "t", UserID: "u1", Title: "t", Completed: completed, ScheduledFor: time.Now()}
}

func TestScoreDay(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("Edge Case: No tasks and no log scores the floor of 10", func(t *testing.T) {
		stats := ScoreDay("2024-03-10", nil, nil, cfg)

		assert.Equal(t, "2024-03-10", stats.Date)
		assert.Equal(t, 10, stats.ProductivityScore)
		assert.Equal(t, 0, stats.TotalTasks)
		assert.Equal(t, 0, stats.TasksCompleted)
		assert.Equal(t, 0.0, stats.FocusHours)
		assert.Nil(t, stats.Mood)
		assert.Nil(t, stats.EnergyLevel)
	})

	t.Run("Success: Perfect day scores 100", func(t *testing.T) {
		log := &domain.DailyLog{StudyHours: ptr(6.0), EnergyLevel: ptr(domain.EnergyHigh), Mood: ptr(domain.MoodGreat)}
		stats := ScoreDay("2024-03-10", []*domain.Task{task(true), task(true)}, log, cfg)

		assert.Equal(t, 100, stats.ProductivityScore)
		assert.Equal(t, 2, stats.TasksCompleted)
		assert.Equal(t, 2, stats.TotalTasks)
		require.NotNil(t, stats.Mood)
		assert.Equal(t, domain.MoodGreat, *stats.Mood)
	})

	t.Run("Success: Focus credit clamps at the target", func(t *testing.T) {
		log := &domain.DailyLog{StudyHours: ptr(11.0), EnergyLevel: ptr(domain.EnergyHigh)}
		stats := ScoreDay("2024-03-10", []*domain.Task{task(true)}, log, cfg)

		assert.Equal(t, 100, stats.ProductivityScore)
		assert.Equal(t, 11.0, stats.FocusHours)
	})

	t.Run("Success: Partial completion with low energy", func(t *testing.T) {
		log := &domain.DailyLog{StudyHours: ptr(3.0), EnergyLevel: ptr(domain.EnergyLow)}
		stats := ScoreDay("2024-03-10", []*domain.Task{task(true), task(false)}, log, cfg)

		// 0.5*0.5 + 0.3*0.5 + 0.2*0.2
		assert.Equal(t, 44, stats.ProductivityScore)
		assert.Equal(t, 1, stats.TasksCompleted)
		assert.Equal(t, 2, stats.TotalTasks)
	})

	t.Run("Success: Missing or unknown energy uses the medium bonus", func(t *testing.T) {
		noEnergy := ScoreDay("2024-03-10", nil, &domain.DailyLog{StudyHours: ptr(6.0)}, cfg)
		unknown := ScoreDay("2024-03-10", nil, &domain.DailyLog{StudyHours: ptr(6.0), EnergyLevel: ptr(domain.EnergyLevel("ecstatic"))}, cfg)

		assert.Equal(t, 40, noEnergy.ProductivityScore)
		assert.Equal(t, noEnergy.ProductivityScore, unknown.ProductivityScore)
	})

	t.Run("Success: Custom target focus hours", func(t *testing.T) {
		custom := cfg
		custom.TargetFocusHours = 2
		stats := ScoreDay("2024-03-10", nil, &domain.DailyLog{StudyHours: ptr(2.0), EnergyLevel: ptr(domain.EnergyHigh)}, custom)

		assert.Equal(t, 50, stats.ProductivityScore)
	})

	t.Run("Success: Deterministic for the same snapshot", func(t *testing.T) {
		log := &domain.DailyLog{StudyHours: ptr(4.5), EnergyLevel: ptr(domain.EnergyMedium)}
		tasks := []*domain.Task{task(true), task(false), task(false)}

		assert.Equal(t, ScoreDay("2024-03-10", tasks, log, cfg), ScoreDay("2024-03-10", tasks, log, cfg))
	})
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 3, roundHalfUp(2.5))
	assert.Equal(t, 2, roundHalfUp(2.49))
	assert.Equal(t, 0, roundHalfUp(0.4))
	assert.Equal(t, 100, roundHalfUp(99.5))
}

func TestConfig_Validate(t *testing.T) {
	t.Run("Success: Defaults are valid", func(t *testing.T) {
		assert.NoError(t, DefaultConfig().Validate())
	})

	t.Run("Error: Non positive target", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.TargetFocusHours = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidTarget)
	})

	t.Run("Error: Weights must sum to 1", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights.Tasks = 0.6
		assert.ErrorIs(t, cfg.Validate(), ErrWeightsSum)
	})

	t.Run("Error: Negative weight", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Weights = Weights{Tasks: 1.2, Focus: -0.2, Energy: 0}
		assert.ErrorIs(t, cfg.Validate(), ErrNegativeWeight)
	})
}
