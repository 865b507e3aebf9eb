package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

var _ domain.TaskRepository = (*SQLTaskRepository)(nil)

const taskColumns = `id, user_id, title, description, duration, completed, completed_at,
	priority, scheduled_for, goal_id, created_at, updated_at`

type SQLTaskRepository struct {
	db *sqlx.DB
}

func NewSQLTaskRepository(db *sqlx.DB) *SQLTaskRepository {
	return &SQLTaskRepository{
		db: db,
	}
}

func (r *SQLTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.Rebind(`
		INSERT INTO tasks (
			id, user_id, title, description, duration, completed, completed_at,
			priority, priority_rank, scheduled_for, goal_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		nullable(task.Duration),
		task.Completed,
		nullableTime(task.CompletedAt),
		string(task.Priority),
		task.Priority.Weight(),
		task.ScheduledFor.UTC(),
		nullable(task.GoalID),
		task.CreatedAt.UTC(),
		task.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return storeError("create task", err)
	}

	return nil
}

func (r *SQLTaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)

	var task domain.Task
	if err := r.db.GetContext(ctx, &task, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, storeError("get task", err)
	}

	return &task, nil
}

func (r *SQLTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.Rebind(`
		UPDATE tasks SET
			title = ?, description = ?, duration = ?, completed = ?, completed_at = ?,
			priority = ?, priority_rank = ?, scheduled_for = ?, goal_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`)

	res, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		nullable(task.Duration),
		task.Completed,
		nullableTime(task.CompletedAt),
		string(task.Priority),
		task.Priority.Weight(),
		task.ScheduledFor.UTC(),
		nullable(task.GoalID),
		task.UpdatedAt.UTC(),
		task.ID,
		task.UserID,
	)
	if err != nil {
		return storeError("update task", err)
	}

	return expectOneRow(res, domain.ErrTaskNotFound)
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM tasks WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return storeError("delete task", err)
	}

	return expectOneRow(res, domain.ErrTaskNotFound)
}

func (r *SQLTaskRepository) Find(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE user_id = ?`)
	args := []any{filter.UserID}

	if filter.From != nil {
		sb.WriteString(` AND scheduled_for >= ?`)
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		sb.WriteString(` AND scheduled_for <= ?`)
		args = append(args, filter.To.UTC())
	}
	if filter.Completed != nil {
		sb.WriteString(` AND completed = ?`)
		args = append(args, *filter.Completed)
	}

	sb.WriteString(` ORDER BY ` + taskOrderBy(filter.Sort))

	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	tasks := make([]*domain.Task, 0)
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(sb.String()), args...); err != nil {
		return nil, storeError("find tasks", err)
	}

	return tasks, nil
}

func taskOrderBy(s domain.TaskSort) string {
	switch s {
	case domain.SortScheduledAsc:
		return `scheduled_for ASC, id ASC`
	case domain.SortPriorityDesc:
		return `priority_rank DESC, scheduled_for ASC, id ASC`
	case domain.SortScheduledAscPriorityDesc:
		return `scheduled_for ASC, priority_rank DESC, id ASC`
	default:
		return `created_at DESC, id ASC`
	}
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeError("rows affected", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
