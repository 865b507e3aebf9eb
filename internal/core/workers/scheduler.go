package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

const DefaultSnapshotSchedule = "5 0 * * *"

type LogIndex interface {
	ListUserIDsWithLog(ctx context.Context, date string) ([]string, error)
}

type Enqueuer interface {
	Enqueue(userID, date string)
}

// Scheduler re-queues yesterday's snapshot for every user that logged it,
// catching jobs the worker dropped or missed across restarts.
type Scheduler struct {
	cron    *cron.Cron
	logs    LogIndex
	queue   Enqueuer
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewScheduler(spec string, logs LogIndex, queue Enqueuer, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		logs:    logs,
		queue:   queue,
		logger:  logger,
		timeout: time.Minute,
		now:     time.Now,
	}

	if spec == "" {
		spec = DefaultSnapshotSchedule
	}
	if _, err := s.cron.AddFunc(spec, s.runNightly); err != nil {
		return nil, fmt.Errorf("scheduler: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "entries", len(s.cron.Entries()))
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) runNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	yesterday := s.now().UTC().AddDate(0, 0, -1)
	n, err := s.EnqueueDay(ctx, yesterday)
	if err != nil {
		s.logger.Error("nightly snapshot failed", "error", err)
		return
	}
	s.logger.Info("nightly snapshot queued", "date", domain.FormatDate(yesterday), "users", n)
}

// EnqueueDay queues a snapshot job for every user with a log on day.
func (s *Scheduler) EnqueueDay(ctx context.Context, day time.Time) (int, error) {
	date := domain.FormatDate(day)

	userIDs, err := s.logs.ListUserIDsWithLog(ctx, date)
	if err != nil {
		return 0, err
	}
	for _, id := range userIDs {
		s.queue.Enqueue(id, date)
	}
	return len(userIDs), nil
}
