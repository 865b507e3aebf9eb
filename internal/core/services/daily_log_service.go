package services

import (
	"context"
	"log/slog"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

type DailyLogService struct {
	repo      domain.DailyLogRepository
	events    domain.EventPublisher
	snapshots SnapshotQueue
	logger    *slog.Logger
}

// NewDailyLogService accepts nil events and snapshots.
func NewDailyLogService(repo domain.DailyLogRepository, events domain.EventPublisher, snapshots SnapshotQueue, logger *slog.Logger) *DailyLogService {
	return &DailyLogService{
		repo:      repo,
		events:    events,
		snapshots: snapshots,
		logger:    logger,
	}
}

// UpsertDailyLogInput carries the raw request fields; nil means "not supplied".
type UpsertDailyLogInput struct {
	UserID      string
	Date        string
	SleepHours  *float64
	StudyHours  *float64
	Mood        *string
	EnergyLevel *string
	Notes       *string
}

func (s *DailyLogService) Upsert(ctx context.Context, input UpsertDailyLogInput) (*domain.DailyLog, error) {
	if _, err := domain.ParseDate(input.Date); err != nil {
		return nil, err
	}

	patch := domain.DailyLogPatch{
		SleepHours: input.SleepHours,
		StudyHours: input.StudyHours,
		Notes:      input.Notes,
	}
	if input.Mood != nil {
		m, err := domain.ParseMood(*input.Mood)
		if err != nil {
			return nil, err
		}
		patch.Mood = &m
	}
	if input.EnergyLevel != nil && *input.EnergyLevel != "" {
		e, err := domain.ParseEnergyLevel(*input.EnergyLevel)
		if err != nil {
			return nil, err
		}
		patch.EnergyLevel = &e
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	log, err := s.repo.Upsert(ctx, input.UserID, input.Date, patch)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.logger, domain.NewEvent(domain.EventDailyLogUpserted, input.UserID, log))
	if s.snapshots != nil {
		s.snapshots.Enqueue(input.UserID, input.Date)
	}

	return log, nil
}

func (s *DailyLogService) Get(ctx context.Context, userID, date string) (*domain.DailyLog, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, err
	}
	return s.repo.FindOne(ctx, userID, date)
}

// Range lists the user's logs by ascending date. The bounds only apply when both are given.
func (s *DailyLogService) Range(ctx context.Context, userID, startDate, endDate string) ([]*domain.DailyLog, error) {
	var r domain.DateRange
	if startDate != "" && endDate != "" {
		if _, err := domain.ParseDate(startDate); err != nil {
			return nil, err
		}
		if _, err := domain.ParseDate(endDate); err != nil {
			return nil, err
		}
		r = domain.DateRange{Start: startDate, End: endDate}
	}
	return s.repo.FindRange(ctx, userID, r)
}
