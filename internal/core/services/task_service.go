package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

type TaskService struct {
	repo      domain.TaskRepository
	events    domain.EventPublisher
	snapshots SnapshotQueue
	logger    *slog.Logger
	now       func() time.Time
}

// NewTaskService accepts nil events and snapshots; pass an untyped nil, not a nil pointer.
func NewTaskService(repo domain.TaskRepository, events domain.EventPublisher, snapshots SnapshotQueue, logger *slog.Logger) *TaskService {
	return &TaskService{
		repo:      repo,
		events:    events,
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
	}
}

type CreateTaskInput struct {
	UserID       string
	Title        string
	Description  string
	Duration     *int
	Priority     string
	ScheduledFor *time.Time
	GoalID       *string
}

type UpdateTaskInput struct {
	ID           string
	UserID       string
	Title        *string
	Description  *string
	Duration     *int
	Priority     *string
	ScheduledFor *time.Time
	GoalID       *string
	Completed    *bool
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	priority, err := domain.ParsePriority(input.Priority)
	if err != nil {
		return nil, err
	}

	var scheduledFor time.Time
	if input.ScheduledFor != nil {
		scheduledFor = *input.ScheduledFor
	}

	task, err := domain.NewTask(input.UserID, input.Title, priority, scheduledFor)
	if err != nil {
		return nil, err
	}

	if err := task.Apply(domain.TaskPatch{
		Description: &input.Description,
		Duration:    input.Duration,
		GoalID:      input.GoalID,
	}, task.CreatedAt); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.logger, domain.NewEvent(domain.EventTaskCreated, task.UserID, task))
	s.enqueueSnapshot(task.UserID, task.ScheduledFor)

	return task, nil
}

// List returns every task of the user, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]*domain.Task, error) {
	return s.repo.Find(ctx, domain.TaskFilter{UserID: userID, Sort: domain.SortCreatedDesc})
}

// Get returns the task only when userID owns it.
func (s *TaskService) Get(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	task, err := s.Get(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}
	previousDay := task.ScheduledFor

	patch := domain.TaskPatch{
		Title:        input.Title,
		Description:  input.Description,
		Duration:     input.Duration,
		ScheduledFor: input.ScheduledFor,
		GoalID:       input.GoalID,
		Completed:    input.Completed,
	}
	if input.Priority != nil {
		p, err := domain.ParsePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		patch.Priority = &p
	}

	if err := task.Apply(patch, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.logger, domain.NewEvent(domain.EventTaskUpdated, task.UserID, task))
	s.enqueueSnapshot(task.UserID, task.ScheduledFor)
	if domain.FormatDate(previousDay) != domain.FormatDate(task.ScheduledFor) {
		s.enqueueSnapshot(task.UserID, previousDay)
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, userID string) error {
	task, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	publish(ctx, s.events, s.logger, domain.NewEvent(domain.EventTaskDeleted, userID, map[string]string{"id": id}))
	s.enqueueSnapshot(userID, task.ScheduledFor)

	return nil
}

func (s *TaskService) enqueueSnapshot(userID string, day time.Time) {
	if s.snapshots == nil {
		return
	}
	s.snapshots.Enqueue(userID, domain.FormatDate(day))
}
