package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

const (
	DefaultTimeout   = 15 * time.Second
	failureThreshold = 5
	openDuration     = 30 * time.Second
)

var _ domain.TextCompleter = (*GuardedCompleter)(nil)

// GuardedCompleter bounds every call with a timeout and stops calling a failing
// collaborator for a while once it trips.
type GuardedCompleter struct {
	next    domain.TextCompleter
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[string]
}

func NewGuardedCompleter(next domain.TextCompleter, timeout time.Duration, logger *slog.Logger) *GuardedCompleter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	settings := gobreaker.Settings{
		Name:    "llm",
		Timeout: openDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &GuardedCompleter{
		next:    next,
		timeout: timeout,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (g *GuardedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	reply, err := g.breaker.Execute(func() (string, error) {
		ctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		type result struct {
			reply string
			err   error
		}
		done := make(chan result, 1)
		go func() {
			r, err := g.next.Complete(ctx, prompt)
			done <- result{r, err}
		}()

		select {
		case r := <-done:
			return r.reply, r.err
		case <-ctx.Done():
			return "", fmt.Errorf("%w: completion timed out: %v", domain.ErrUnavailable, ctx.Err())
		}
	})

	switch {
	case err == nil:
		return reply, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	case errors.Is(err, domain.ErrUnavailable):
		return "", err
	default:
		return "", fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
}
