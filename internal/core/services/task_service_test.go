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
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
	"github.com/comitanigiacomo/lifeos/internal/core/services"
)

func newTaskService(queue *recordingQueue) *services.TaskService {
	var q services.SnapshotQueue
	if queue != nil {
		q = queue
	}
	return services.NewTaskService(repository.NewInMemoryTaskRepository(), nil, q, discardLogger())
}

func TestTaskService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Applies defaults", func(t *testing.T) {
		queue := &recordingQueue{}
		svc := newTaskService(queue)

		task, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "  Write report  "})

		require.NoError(t, err)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, domain.PriorityMedium, task.Priority)
		assert.False(t, task.Completed)
		assert.Nil(t, task.CompletedAt)
		assert.WithinDuration(t, time.Now(), task.ScheduledFor, 2*time.Second)
		assert.Equal(t, []snapshotCall{{UserID: "u1", Date: domain.FormatDate(task.ScheduledFor)}}, queue.calls)
	})

	t.Run("Success: Keeps the optional fields", func(t *testing.T) {
		svc := newTaskService(nil)
		at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

		task, err := svc.Create(ctx, services.CreateTaskInput{
			UserID:       "u1",
			Title:        "Deep work",
			Description:  "chapter 3",
			Duration:     ptr(90),
			Priority:     "HIGH",
			ScheduledFor: &at,
			GoalID:       ptr("goal-1"),
		})

		require.NoError(t, err)
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		assert.Equal(t, "chapter 3", task.Description)
		assert.Equal(t, 90, *task.Duration)
		assert.Equal(t, at, task.ScheduledFor)
		assert.Equal(t, "goal-1", *task.GoalID)
	})

	t.Run("Error: Validation", func(t *testing.T) {
		svc := newTaskService(nil)

		_, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: " "})
		assert.ErrorIs(t, err, domain.ErrTaskTitleEmpty)

		_, err = svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "x", Priority: "urgent"})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)

		_, err = svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "x", Duration: ptr(-5)})
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	})

	t.Run("Fail: Repo error propagates and nothing is published", func(t *testing.T) {
		repo := new(MockTaskRepo)
		pub := new(MockPublisher)
		dbErr := errors.New("insert failed")
		repo.On("Create", ctx, mock.Anything).Return(dbErr)

		svc := services.NewTaskService(repo, pub, nil, discardLogger())
		_, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "x"})

		assert.ErrorIs(t, err, dbErr)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Completion stamps and clears completedAt", func(t *testing.T) {
		svc := newTaskService(nil)
		task, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "x"})
		require.NoError(t, err)

		done, err := svc.Update(ctx, services.UpdateTaskInput{ID: task.ID, UserID: "u1", Completed: ptr(true)})
		require.NoError(t, err)
		assert.True(t, done.Completed)
		require.NotNil(t, done.CompletedAt)
		stamped := *done.CompletedAt

		again, err := svc.Update(ctx, services.UpdateTaskInput{ID: task.ID, UserID: "u1", Completed: ptr(true), Title: ptr("y")})
		require.NoError(t, err)
		assert.Equal(t, stamped, *again.CompletedAt)
		assert.Equal(t, "y", again.Title)

		reopened, err := svc.Update(ctx, services.UpdateTaskInput{ID: task.ID, UserID: "u1", Completed: ptr(false)})
		require.NoError(t, err)
		assert.False(t, reopened.Completed)
		assert.Nil(t, reopened.CompletedAt)
	})

	t.Run("Error: Foreign owner sees not found", func(t *testing.T) {
		svc := newTaskService(nil)
		task, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "x"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, services.UpdateTaskInput{ID: task.ID, UserID: "intruder", Title: ptr("hacked")})
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)

		err = svc.Delete(ctx, task.ID, "intruder")
		assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	})

	t.Run("Error: Invalid patch leaves the task untouched", func(t *testing.T) {
		svc := newTaskService(nil)
		task, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "x"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, services.UpdateTaskInput{ID: task.ID, UserID: "u1", Title: ptr("ok"), Priority: ptr("asap")})
		assert.ErrorIs(t, err, domain.ErrInvalidPriority)

		stored, err := svc.Get(ctx, task.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, "x", stored.Title)
	})

	t.Run("Success: Rescheduling refreshes both days", func(t *testing.T) {
		queue := &recordingQueue{}
		svc := newTaskService(queue)
		from := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)

		task, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "x", ScheduledFor: &from})
		require.NoError(t, err)

		_, err = svc.Update(ctx, services.UpdateTaskInput{ID: task.ID, UserID: "u1", ScheduledFor: &to})
		require.NoError(t, err)

		assert.Equal(t, []snapshotCall{
			{UserID: "u1", Date: "2024-03-10"},
			{UserID: "u1", Date: "2024-03-12"},
			{UserID: "u1", Date: "2024-03-10"},
		}, queue.calls)
	})
}

func TestTaskService_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(nil)

	first, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "first"})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	second, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "second"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.CreateTaskInput{UserID: "u2", Title: "other"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)

	require.NoError(t, svc.Delete(ctx, first.ID, "u1"))

	tasks, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	assert.ErrorIs(t, svc.Delete(ctx, first.ID, "u1"), domain.ErrTaskNotFound)
}

func TestTaskService_WithoutSnapshotQueue(t *testing.T) {
	ctx := context.Background()
	svc := newTaskService(nil)

	task, err := svc.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: "no queue"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, services.UpdateTaskInput{ID: task.ID, UserID: "u1", Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)

	assert.NoError(t, svc.Delete(ctx, task.ID, "u1"))
}
