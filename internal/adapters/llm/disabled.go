package llm

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

// DisabledCompleter stands in when no LLM is configured; callers fall back to canned text.
type DisabledCompleter struct{}

func (DisabledCompleter) Complete(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: no language model configured", domain.ErrUnavailable)
}
