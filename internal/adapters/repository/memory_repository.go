package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Subject == user.Subject || strings.EqualFold(u.Email, user.Email) {
			return domain.ErrDuplicate
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *InMemoryUserRepository) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Subject == subject {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type InMemoryTaskRepository struct {
	store map[string]*domain.Task

	mu sync.RWMutex
}

func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{
		store: make(map[string]*domain.Task),
	}
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[task.ID]; ok {
		return domain.ErrDuplicate
	}
	clone := *task
	r.store[task.ID] = &clone
	return nil
}

func (r *InMemoryTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *InMemoryTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	clone := *task
	r.store[task.ID] = &clone
	return nil
}

func (r *InMemoryTaskRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok || t.UserID != userID {
		return domain.ErrTaskNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryTaskRepository) Find(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range r.store {
		if matchesTask(t, filter) {
			clone := *t
			tasks = append(tasks, &clone)
		}
	}

	sort.Slice(tasks, taskLess(tasks, filter.Sort))

	if filter.Limit > 0 && len(tasks) > filter.Limit {
		tasks = tasks[:filter.Limit]
	}
	return tasks, nil
}

func matchesTask(t *domain.Task, f domain.TaskFilter) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.From != nil && t.ScheduledFor.Before(*f.From) {
		return false
	}
	if f.To != nil && t.ScheduledFor.After(*f.To) {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// taskLess mirrors the SQL and Mongo orderings, ties broken by id ascending.
func taskLess(tasks []*domain.Task, s domain.TaskSort) func(i, j int) bool {
	byScheduled := func(a, b *domain.Task) int { return a.ScheduledFor.Compare(b.ScheduledFor) }
	byPriority := func(a, b *domain.Task) int { return b.Priority.Weight() - a.Priority.Weight() }
	byCreatedDesc := func(a, b *domain.Task) int { return b.CreatedAt.Compare(a.CreatedAt) }
	byID := func(a, b *domain.Task) int { return strings.Compare(a.ID, b.ID) }

	var keys []func(a, b *domain.Task) int
	switch s {
	case domain.SortScheduledAsc:
		keys = []func(a, b *domain.Task) int{byScheduled, byID}
	case domain.SortPriorityDesc:
		keys = []func(a, b *domain.Task) int{byPriority, byScheduled, byID}
	case domain.SortScheduledAscPriorityDesc:
		keys = []func(a, b *domain.Task) int{byScheduled, byPriority, byID}
	default:
		keys = []func(a, b *domain.Task) int{byCreatedDesc, byID}
	}

	return func(i, j int) bool {
		for _, cmp := range keys {
			if c := cmp(tasks[i], tasks[j]); c != 0 {
				return c < 0
			}
		}
		return false
	}
}

type logKey struct {
	userID string
	date   string
}

type InMemoryDailyLogRepository struct {
	store map[logKey]*domain.DailyLog

	mu sync.RWMutex
}

func NewInMemoryDailyLogRepository() *InMemoryDailyLogRepository {
	return &InMemoryDailyLogRepository{
		store: make(map[logKey]*domain.DailyLog),
	}
}

func (r *InMemoryDailyLogRepository) FindOne(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.store[logKey{userID, date}]
	if !ok {
		return nil, domain.ErrLogNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *InMemoryDailyLogRepository) Upsert(ctx context.Context, userID, date string, patch domain.DailyLogPatch) (*domain.DailyLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	key := logKey{userID, date}

	l, ok := r.store[key]
	if !ok {
		l = &domain.DailyLog{
			ID:        uuid.NewString(),
			UserID:    userID,
			Date:      date,
			CreatedAt: now,
		}
		r.store[key] = l
	}
	l.Apply(patch, now)

	clone := *l
	return &clone, nil
}

func (r *InMemoryDailyLogRepository) FindRange(ctx context.Context, userID string, dr domain.DateRange) ([]*domain.DailyLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	logs := make([]*domain.DailyLog, 0)
	for k, l := range r.store {
		if k.userID != userID {
			continue
		}
		if dr.Start != "" && l.Date < dr.Start {
			continue
		}
		if dr.End != "" && l.Date > dr.End {
			continue
		}
		clone := *l
		logs = append(logs, &clone)
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i].Date < logs[j].Date })
	return logs, nil
}

func (r *InMemoryDailyLogRepository) FindRecent(ctx context.Context, userID string, limit int) ([]*domain.DailyLog, error) {
	logs, err := r.FindRange(ctx, userID, domain.DateRange{})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r *InMemoryDailyLogRepository) SetTasksCompleted(ctx context.Context, userID, date string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.store[logKey{userID, date}]
	if !ok {
		return domain.ErrLogNotFound
	}
	l.TasksCompleted = count
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *InMemoryDailyLogRepository) ListUserIDsWithLog(ctx context.Context, date string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0)
	for k := range r.store {
		if k.date == date {
			ids = append(ids, k.userID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
