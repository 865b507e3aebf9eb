package workers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

const defaultQueueSize = 100

type TaskReader interface {
	Find(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error)
}

type LogSnapshotStore interface {
	FindOne(ctx context.Context, userID, date string) (*domain.DailyLog, error)
	SetTasksCompleted(ctx context.Context, userID, date string, count int) error
}

type SnapshotJob struct {
	UserID string
	Date   string
}

// SnapshotWorker keeps DailyLog.TasksCompleted in line with the tasks completed
// on that day. It never creates logs.
type SnapshotWorker struct {
	tasks  TaskReader
	logs   LogSnapshotStore
	jobs   chan SnapshotJob
	logger *slog.Logger
}

func NewSnapshotWorker(tasks TaskReader, logs LogSnapshotStore, logger *slog.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		tasks:  tasks,
		logs:   logs,
		jobs:   make(chan SnapshotJob, defaultQueueSize),
		logger: logger,
	}
}

func (w *SnapshotWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("snapshot worker started")
		for {
			select {
			case job := <-w.jobs:
				if err := w.processJob(ctx, job); err != nil {
					w.logger.Error("snapshot job failed", "user_id", job.UserID, "date", job.Date, "error", err)
				}
			case <-ctx.Done():
				w.logger.Info("snapshot worker shutting down")
				return
			}
		}
	}()
}

// Enqueue never blocks: when the queue is full the job is dropped and the
// nightly reconciliation picks the day up later.
func (w *SnapshotWorker) Enqueue(userID, date string) {
	select {
	case w.jobs <- SnapshotJob{UserID: userID, Date: date}:
	default:
		w.logger.Warn("snapshot queue full, dropping job", "user_id", userID, "date", date)
	}
}

func (w *SnapshotWorker) processJob(ctx context.Context, job SnapshotJob) error {
	day, err := domain.ParseDate(job.Date)
	if err != nil {
		return err
	}

	log, err := w.logs.FindOne(ctx, job.UserID, job.Date)
	if err != nil {
		if errors.Is(err, domain.ErrLogNotFound) {
			return nil
		}
		return err
	}

	start, end := domain.DayBounds(day)
	done := true
	tasks, err := w.tasks.Find(ctx, domain.TaskFilter{
		UserID:    job.UserID,
		From:      &start,
		To:        &end,
		Completed: &done,
	})
	if err != nil {
		return err
	}

	if log.TasksCompleted == len(tasks) {
		return nil
	}
	if err := w.logs.SetTasksCompleted(ctx, job.UserID, job.Date, len(tasks)); err != nil {
		return err
	}

	w.logger.Debug("snapshot updated", "user_id", job.UserID, "date", job.Date, "tasks_completed", len(tasks))
	return nil
}
