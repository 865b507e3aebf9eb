package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

type UserService struct {
	repo   domain.UserRepository
	events domain.EventPublisher
	logger *slog.Logger
}

func NewUserService(repo domain.UserRepository, events domain.EventPublisher, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// Sync returns the user bound to the identity, creating it on first sight.
// The boolean reports whether the user was created by this call.
func (s *UserService) Sync(ctx context.Context, identity domain.Identity) (*domain.User, bool, error) {
	user, err := domain.NewUser(identity)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.GetBySubject(ctx, user.Subject)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, fmt.Errorf("user service: failed to lookup user: %w", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// A concurrent sync for the same subject won the insert.
			if existing, getErr := s.repo.GetBySubject(ctx, user.Subject); getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("user service: failed to create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "subject", user.Subject)
	publish(ctx, s.events, s.logger, domain.NewEvent(domain.EventUserSynced, user.ID, user))

	return user, true, nil
}

// Resolve maps the identity provider's subject to the internal user.
func (s *UserService) Resolve(ctx context.Context, subject string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrUserNotFound
	}
	return s.repo.GetBySubject(ctx, subject)
}
