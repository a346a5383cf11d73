package assistant

import (
	"context"

	"github.com/silkmart/support-assistant/pkg/metrics"
)

// Generation is the output of a single answer-generation call.
type Generation struct {
	Answer string
	Usage  metrics.TokenUsage
}

// Generator produces a natural-language answer for a question. When
// contextBlock is empty the open-domain template is used. One backend call,
// no retries: failures surface to the caller, which converts them into a
// user-facing apology.
type Generator interface {
	Generate(ctx context.Context, question, contextBlock string) (Generation, error)
}
