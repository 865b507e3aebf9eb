package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/lifeos/internal/core/analytics"
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

type AnalyticsService struct {
	tasks        domain.TaskRepository
	logs         domain.DailyLogRepository
	cfg          analytics.Config
	storeTimeout time.Duration
	now          func() time.Time
}

func NewAnalyticsService(tasks domain.TaskRepository, logs domain.DailyLogRepository, cfg analytics.Config, storeTimeout time.Duration) *AnalyticsService {
	return &AnalyticsService{
		tasks:        tasks,
		logs:         logs,
		cfg:          cfg,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// SetClock replaces the time source used for "today" and "now".
func (s *AnalyticsService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *AnalyticsService) Config() analytics.Config {
	return s.cfg
}

func (s *AnalyticsService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

// Daily scores a single YYYY-MM-DD date.
func (s *AnalyticsService) Daily(ctx context.Context, userID, date string) (*domain.DailyStats, error) {
	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}
	stats, err := s.dailyStats(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *AnalyticsService) dailyStats(ctx context.Context, userID string, day time.Time) (domain.DailyStats, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start, end := domain.DayBounds(day)
	date := domain.FormatDate(start)

	tasks, err := s.tasks.Find(ctx, domain.TaskFilter{
		UserID: userID,
		From:   &start,
		To:     &end,
		Sort:   domain.SortScheduledAsc,
	})
	if err != nil {
		return domain.DailyStats{}, fmt.Errorf("analytics: tasks for %s: %w", date, err)
	}

	log, err := s.logs.FindOne(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, domain.ErrLogNotFound) {
			return domain.DailyStats{}, fmt.Errorf("analytics: log for %s: %w", date, err)
		}
		log = nil
	}

	return analytics.ScoreDay(date, tasks, log, s.cfg), nil
}

// Weekly aggregates the seven days ending at endDate. An empty endDate means today.
func (s *AnalyticsService) Weekly(ctx context.Context, userID, endDate string) (*domain.WeeklyAnalytics, error) {
	end := s.now()
	if endDate != "" {
		var err error
		if end, err = domain.ParseDate(endDate); err != nil {
			return nil, err
		}
	}
	return s.WeeklyAt(ctx, userID, end)
}

// WeeklyAt computes the seven days concurrently; each goroutine owns its slot
// so the breakdown keeps the oldest-first order.
func (s *AnalyticsService) WeeklyAt(ctx context.Context, userID string, end time.Time) (*domain.WeeklyAnalytics, error) {
	dates := analytics.WindowDates(end)
	days := make([]domain.DailyStats, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analytics.WindowDays)

	for i, date := range dates {
		day, err := domain.ParseDate(date)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			stats, err := s.dailyStats(gctx, userID, day)
			if err != nil {
				return err
			}
			days[i] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	weekly := analytics.Aggregate(days, s.cfg)
	return &weekly, nil
}

// Today returns today's score and the next pending task at or after now.
func (s *AnalyticsService) Today(ctx context.Context, userID string) (*domain.TodayStats, error) {
	now := s.now().UTC()

	stats, err := s.dailyStats(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pending := false
	next, err := s.tasks.Find(ctx, domain.TaskFilter{
		UserID:    userID,
		From:      &now,
		Completed: &pending,
		Sort:      domain.SortScheduledAscPriorityDesc,
		Limit:     1,
	})
	if err != nil {
		return nil, fmt.Errorf("analytics: next task: %w", err)
	}

	today := &domain.TodayStats{DailyStats: stats}
	if len(next) > 0 {
		t := next[0]
		today.NextPriorityTask = &domain.NextTask{
			ID:           t.ID,
			Title:        t.Title,
			Duration:     t.Duration,
			ScheduledFor: t.ScheduledFor,
		}
	}
	return today, nil
}
