package domain

import "context"

type UserRepository interface {
	// Create persists a new user. A taken subject or email yields ErrDuplicate.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by internal id.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetBySubject retrieves a user by the identity provider's subject.
	GetBySubject(ctx context.Context, subject string) (*User, error)
}

type TaskRepository interface {
	Create(ctx context.Context, task *Task) error

	GetByID(ctx context.Context, id string) (*Task, error)

	// Update overwrites a stored task.
	Update(ctx context.Context, task *Task) error

	// Delete removes a task owned by userID.
	Delete(ctx context.Context, id string, userID string) error

	// Find returns the user's tasks matching the filter in the requested order.
	Find(ctx context.Context, filter TaskFilter) ([]*Task, error)
}

type DailyLogRepository interface {
	// FindOne returns the log of (userID, date) or ErrLogNotFound.
	FindOne(ctx context.Context, userID, date string) (*DailyLog, error)

	// Upsert atomically creates or patches the log keyed by (userID, date).
	// Only the fields supplied in the patch are written.
	Upsert(ctx context.Context, userID, date string, patch DailyLogPatch) (*DailyLog, error)

	// FindRange returns logs within the range ordered by date ascending.
	FindRange(ctx context.Context, userID string, r DateRange) ([]*DailyLog, error)

	// FindRecent returns up to limit logs, most recent date first, regardless of gaps.
	FindRecent(ctx context.Context, userID string, limit int) ([]*DailyLog, error)

	// SetTasksCompleted updates the snapshot counter of an existing log.
	SetTasksCompleted(ctx context.Context, userID, date string, count int) error

	// ListUserIDsWithLog returns the users that have a log for date.
	ListUserIDsWithLog(ctx context.Context, date string) ([]string, error)
}
