package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/lifeos/internal/core/analytics"
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

// RecentLogWindow is how many existing logs feed the sleep rule, regardless of gaps.
const RecentLogWindow = 7

type OptimizationService struct {
	analytics *AnalyticsService
	tasks     domain.TaskRepository
	logs      domain.DailyLogRepository
}

func NewOptimizationService(analytics *AnalyticsService, tasks domain.TaskRepository, logs domain.DailyLogRepository) *OptimizationService {
	return &OptimizationService{
		analytics: analytics,
		tasks:     tasks,
		logs:      logs,
	}
}

// Optimize fetches the weekly rollup, the recent logs and the pending tasks,
// then runs the rules. Any failed fetch fails the whole call.
func (s *OptimizationService) Optimize(ctx context.Context, userID string) (*domain.OptimizationResult, error) {
	var (
		weekly  *domain.WeeklyAnalytics
		recent  []*domain.DailyLog
		pending []*domain.Task
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		weekly, err = s.analytics.WeeklyAt(gctx, userID, s.analytics.now())
		return err
	})
	g.Go(func() error {
		ctx, cancel := s.analytics.withTimeout(gctx)
		defer cancel()
		var err error
		if recent, err = s.logs.FindRecent(ctx, userID, RecentLogWindow); err != nil {
			return fmt.Errorf("optimization: recent logs: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := s.analytics.withTimeout(gctx)
		defer cancel()
		open := false
		var err error
		pending, err = s.tasks.Find(ctx, domain.TaskFilter{
			UserID:    userID,
			Completed: &open,
			Sort:      domain.SortPriorityDesc,
		})
		if err != nil {
			return fmt.Errorf("optimization: pending tasks: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := analytics.Optimize(analytics.RuleInput{
		Weekly:       *weekly,
		RecentLogs:   recent,
		PendingTasks: len(pending),
	}, s.analytics.Config())

	return &result, nil
}
