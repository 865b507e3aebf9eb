package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lifeos/internal/adapters/repository"
	"github.com/comitanigiacomo/lifeos/internal/core/analytics"
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
)

var fixedNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

type analyticsFixture struct {
	tasks *repository.InMemoryTaskRepository
	logs  *repository.InMemoryDailyLogRepository
	svc   *services.AnalyticsService
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		tasks: repository.NewInMemoryTaskRepository(),
		logs:  repository.NewInMemoryDailyLogRepository(),
	}
	f.svc = services.NewAnalyticsService(f.tasks, f.logs, analytics.DefaultConfig(), time.Second)
	f.svc.SetClock(func() time.Time { return fixedNow })
	return f
}

func (f *analyticsFixture) addTask(t *testing.T, userID, title string, p domain.Priority, at time.Time, completed bool) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(userID, title, p, at)
	require.NoError(t, err)
	task.SetCompleted(completed, at)
	require.NoError(t, f.tasks.Create(context.Background(), task))
	return task
}

func (f *analyticsFixture) addLog(t *testing.T, userID, date string, patch domain.DailyLogPatch) {
	t.Helper()
	_, err := f.logs.Upsert(context.Background(), userID, date, patch)
	require.NoError(t, err)
}

func TestAnalyticsService_Daily(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Only tasks of that calendar day count", func(t *testing.T) {
		f := newAnalyticsFixture()
		f.addTask(t, "u1", "a", domain.PriorityHigh, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), true)
		f.addTask(t, "u1", "b", domain.PriorityLow, time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), false)
		f.addTask(t, "u1", "next day", domain.PriorityLow, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), true)
		f.addTask(t, "u2", "someone else", domain.PriorityLow, time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), true)
		f.addLog(t, "u1", "2024-03-10", domain.DailyLogPatch{StudyHours: ptr(3.0), EnergyLevel: ptr(domain.EnergyLow)})

		stats, err := f.svc.Daily(ctx, "u1", "2024-03-10")

		require.NoError(t, err)
		assert.Equal(t, 1, stats.TasksCompleted)
		assert.Equal(t, 2, stats.TotalTasks)
		assert.Equal(t, 3.0, stats.FocusHours)
		assert.Equal(t, 44, stats.ProductivityScore)
	})

	t.Run("Edge Case: Empty day scores 10", func(t *testing.T) {
		stats, err := newAnalyticsFixture().svc.Daily(ctx, "u1", "2024-03-10")

		require.NoError(t, err)
		assert.Equal(t, 10, stats.ProductivityScore)
		assert.Nil(t, stats.Mood)
	})

	t.Run("Error: Invalid date is rejected", func(t *testing.T) {
		_, err := newAnalyticsFixture().svc.Daily(ctx, "u1", "2024-13-01")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Fail: Store error is fatal", func(t *testing.T) {
		tasks := new(MockTaskRepo)
		logs := new(MockLogRepo)
		dbErr := errors.New("db down")
		tasks.On("Find", mock.Anything, mock.Anything).Return([]*domain.Task{}, nil)
		logs.On("FindOne", mock.Anything, "u1", "2024-03-10").Return(nil, dbErr)

		svc := services.NewAnalyticsService(tasks, logs, analytics.DefaultConfig(), time.Second)
		_, err := svc.Daily(ctx, "u1", "2024-03-10")

		assert.ErrorIs(t, err, dbErr)
	})
}

func TestAnalyticsService_Weekly(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Seven ordered days ending today", func(t *testing.T) {
		f := newAnalyticsFixture()
		f.addTask(t, "u1", "a", domain.PriorityHigh, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), true)
		f.addTask(t, "u1", "b", domain.PriorityHigh, time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC), true)
		f.addTask(t, "u1", "out of window", domain.PriorityHigh, time.Date(2024, 3, 3, 9, 0, 0, 0, time.UTC), true)
		f.addLog(t, "u1", "2024-03-09", domain.DailyLogPatch{StudyHours: ptr(6.0), Mood: ptr(domain.MoodGood), EnergyLevel: ptr(domain.EnergyHigh)})
		f.addLog(t, "u1", "2024-03-10", domain.DailyLogPatch{StudyHours: ptr(1.5), Mood: ptr(domain.MoodBad), EnergyLevel: ptr(domain.EnergyLow)})

		w, err := f.svc.Weekly(ctx, "u1", "")

		require.NoError(t, err)
		require.Len(t, w.DailyBreakdown, 7)
		assert.Equal(t, "2024-03-04", w.StartDate)
		assert.Equal(t, "2024-03-10", w.EndDate)
		for i, d := range analytics.WindowDates(fixedNow) {
			assert.Equal(t, d, w.DailyBreakdown[i].Date)
		}
		assert.Equal(t, 2, w.TotalTasksCompleted)
		assert.Equal(t, 7.5, w.TotalFocusHours)
		assert.Equal(t, 100, w.DailyBreakdown[5].ProductivityScore)
		assert.Equal(t, 100, w.ConsistencyScore)
		assert.Equal(t, domain.BurnoutLow, w.BurnoutRisk)
		assert.Len(t, w.MoodTrend, 2)
	})

	t.Run("Success: Explicit end date", func(t *testing.T) {
		w, err := newAnalyticsFixture().svc.Weekly(ctx, "u1", "2024-01-03")

		require.NoError(t, err)
		assert.Equal(t, "2023-12-28", w.StartDate)
		assert.Equal(t, "2024-01-03", w.EndDate)
		assert.Equal(t, 10, w.AverageProductivity)
	})

	t.Run("Error: Malformed end date", func(t *testing.T) {
		_, err := newAnalyticsFixture().svc.Weekly(ctx, "u1", "yesterday")
		assert.ErrorIs(t, err, domain.ErrInvalidDate)
	})

	t.Run("Fail: One failing day fails the week", func(t *testing.T) {
		tasks := new(MockTaskRepo)
		logs := new(MockLogRepo)
		dbErr := errors.New("db down")
		tasks.On("Find", mock.Anything, mock.Anything).Return([]*domain.Task{}, nil)
		logs.On("FindOne", mock.Anything, "u1", "2024-03-07").Return(nil, dbErr)
		logs.On("FindOne", mock.Anything, "u1", mock.Anything).Return(nil, domain.ErrLogNotFound)

		svc := services.NewAnalyticsService(tasks, logs, analytics.DefaultConfig(), time.Second)
		w, err := svc.Weekly(ctx, "u1", "2024-03-10")

		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, w)
	})
}

func TestAnalyticsService_Today(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Next pending task is the earliest upcoming one", func(t *testing.T) {
		f := newAnalyticsFixture()
		f.addTask(t, "u1", "past", domain.PriorityHigh, fixedNow.Add(-time.Hour), false)
		f.addTask(t, "u1", "done", domain.PriorityHigh, fixedNow.Add(30*time.Minute), true)
		f.addTask(t, "u1", "later low", domain.PriorityLow, fixedNow.Add(2*time.Hour), false)
		f.addTask(t, "u1", "later high", domain.PriorityHigh, fixedNow.Add(2*time.Hour), false)
		f.addTask(t, "u1", "tomorrow", domain.PriorityHigh, fixedNow.Add(24*time.Hour), false)

		today, err := f.svc.Today(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "2024-03-10", today.Date)
		assert.Equal(t, 4, today.TotalTasks)
		assert.Equal(t, 1, today.TasksCompleted)
		require.NotNil(t, today.NextPriorityTask)
		assert.Equal(t, "later high", today.NextPriorityTask.Title)
	})

	t.Run("Success: No upcoming task", func(t *testing.T) {
		today, err := newAnalyticsFixture().svc.Today(ctx, "u1")

		require.NoError(t, err)
		assert.Nil(t, today.NextPriorityTask)
		assert.Equal(t, 10, today.ProductivityScore)
	})
}
