package embedder

import (
	"context"
	"log/slog"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

// Resilient wraps a primary provider with the deterministic fallback: a
// backend failure is logged and substituted with a flagged hash vector so
// neither ingestion nor query handling aborts. Invalid input still errors.
type Resilient struct {
	primary  assistant.EmbeddingProvider
	fallback assistant.EmbeddingProvider
	logger   *slog.Logger
}

// NewResilient constructs the wrapper. The fallback shares the primary's
// dimension so store and query vectors stay comparable.
func NewResilient(primary assistant.EmbeddingProvider, logger *slog.Logger) *Resilient {
	return &Resilient{
		primary:  primary,
		fallback: NewDeterministicEmbedder(primary.Dimensions()),
		logger:   logger.With("component", "embedder.resilient"),
	}
}

// Embed implements assistant.EmbeddingProvider.
func (r *Resilient) Embed(ctx context.Context, text string) (assistant.Embedding, error) {
	embedding, err := r.primary.Embed(ctx, text)
	if err == nil {
		return embedding, nil
	}
	if apperrors.IsKind(err, apperrors.KindInvalidInput) || apperrors.IsKind(err, apperrors.KindConfig) {
		return assistant.Embedding{}, err
	}
	r.logger.Warn("embedding backend unavailable, substituting fallback vector", "error", err)
	embedding, err = r.fallback.Embed(ctx, text)
	if err != nil {
		return assistant.Embedding{}, err
	}
	embedding.Fallback = true
	return embedding, nil
}

// Dimensions implements assistant.EmbeddingProvider.
func (r *Resilient) Dimensions() int {
	return r.primary.Dimensions()
}

var _ assistant.EmbeddingProvider = (*Resilient)(nil)
