package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

var _ domain.DailyLogRepository = (*SQLDailyLogRepository)(nil)

const dailyLogColumns = `id, user_id, date, sleep_hours, study_hours, mood, energy_level, notes,
	tasks_completed, created_at, updated_at`

type SQLDailyLogRepository struct {
	db *sqlx.DB
}

func NewSQLDailyLogRepository(db *sqlx.DB) *SQLDailyLogRepository {
	return &SQLDailyLogRepository{
		db: db,
	}
}

func (r *SQLDailyLogRepository) FindOne(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.Rebind(`SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = ? AND date = ?`)

	var l domain.DailyLog
	if err := r.db.GetContext(ctx, &l, query, userID, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLogNotFound
		}
		return nil, storeError("get daily log", err)
	}

	return &l, nil
}

// Upsert relies on the (user_id, date) unique key so concurrent writers for the same day
// never produce two rows. NULL parameters leave the stored column untouched.
func (r *SQLDailyLogRepository) Upsert(ctx context.Context, userID, date string, patch domain.DailyLogPatch) (*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.Rebind(`
		INSERT INTO daily_logs (
			id, user_id, date, sleep_hours, study_hours, mood, energy_level, notes,
			tasks_completed, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			sleep_hours  = COALESCE(excluded.sleep_hours, daily_logs.sleep_hours),
			study_hours  = COALESCE(excluded.study_hours, daily_logs.study_hours),
			mood         = COALESCE(excluded.mood, daily_logs.mood),
			energy_level = COALESCE(excluded.energy_level, daily_logs.energy_level),
			notes        = COALESCE(excluded.notes, daily_logs.notes),
			updated_at   = excluded.updated_at
		RETURNING ` + dailyLogColumns)

	now := time.Now().UTC()

	var l domain.DailyLog
	err := r.db.GetContext(ctx, &l, query,
		uuid.NewString(),
		userID,
		date,
		nullable(patch.SleepHours),
		nullable(patch.StudyHours),
		nullableString(patch.Mood),
		nullableString(patch.EnergyLevel),
		nullable(patch.Notes),
		now,
		now,
	)
	if err != nil {
		return nil, storeError("upsert daily log", err)
	}

	return &l, nil
}

func (r *SQLDailyLogRepository) FindRange(ctx context.Context, userID string, dr domain.DateRange) ([]*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = ?`
	args := []any{userID}

	if dr.Start != "" {
		query += ` AND date >= ?`
		args = append(args, dr.Start)
	}
	if dr.End != "" {
		query += ` AND date <= ?`
		args = append(args, dr.End)
	}
	query += ` ORDER BY date ASC`

	logs := make([]*domain.DailyLog, 0)
	if err := r.db.SelectContext(ctx, &logs, r.db.Rebind(query), args...); err != nil {
		return nil, storeError("find daily logs", err)
	}

	return logs, nil
}

func (r *SQLDailyLogRepository) FindRecent(ctx context.Context, userID string, limit int) ([]*domain.DailyLog, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = ? ORDER BY date DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	logs := make([]*domain.DailyLog, 0)
	if err := r.db.SelectContext(ctx, &logs, r.db.Rebind(query), args...); err != nil {
		return nil, storeError("find recent daily logs", err)
	}

	return logs, nil
}

func (r *SQLDailyLogRepository) SetTasksCompleted(ctx context.Context, userID, date string, count int) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := r.db.Rebind(`
		UPDATE daily_logs SET tasks_completed = ?, updated_at = ?
		WHERE user_id = ? AND date = ?
	`)

	res, err := r.db.ExecContext(ctx, query, count, time.Now().UTC(), userID, date)
	if err != nil {
		return storeError("update tasks completed", err)
	}

	return expectOneRow(res, domain.ErrLogNotFound)
}

func (r *SQLDailyLogRepository) ListUserIDsWithLog(ctx context.Context, date string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	ids := make([]string, 0)
	query := r.db.Rebind(`SELECT user_id FROM daily_logs WHERE date = ? ORDER BY user_id`)
	if err := r.db.SelectContext(ctx, &ids, query, date); err != nil {
		return nil, storeError("list users with log", err)
	}

	return ids, nil
}

func nullableString[T ~string](p *T) any {
	if p == nil {
		return nil
	}
	return string(*p)
}
