package domain

import (
	"context"
	"errors"
)

type InsightType string

const (
	InsightObservation InsightType = "observation"
	InsightSuggestion  InsightType = "suggestion"
	InsightWarning     InsightType = "warning"
	InsightPrediction  InsightType = "prediction"
)

type Insight struct {
	Type     InsightType `json:"type"`
	Title    string      `json:"title"`
	Content  string      `json:"content"`
	Priority Priority    `json:"priority"`
}

// TextCompleter is the external text-completion collaborator.
// Implementations return an error wrapping ErrUnavailable on timeout or outage.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var ErrCacheMiss = errors.New("cache miss")

// InsightCache stores generated insights per user. Get returns ErrCacheMiss when nothing is stored.
type InsightCache interface {
	Get(ctx context.Context, userID string) ([]Insight, error)
	Set(ctx context.Context, userID string, insights []Insight) error
}
