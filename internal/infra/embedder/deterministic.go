package embedder

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

// DeterministicEmbedder avoids network calls by hashing text into a
// unit-length pseudo-vector. Identical text always yields the same vector,
// which keeps similarity search reproducible offline, but the result carries
// no semantic meaning.
type DeterministicEmbedder struct {
	dims int
}

// NewDeterministicEmbedder constructs the embedder.
func NewDeterministicEmbedder(dims int) *DeterministicEmbedder {
	if dims <= 0 {
		dims = 32
	}
	return &DeterministicEmbedder{dims: dims}
}

// Embed implements assistant.EmbeddingProvider.
func (e *DeterministicEmbedder) Embed(_ context.Context, text string) (assistant.Embedding, error) {
	if text == "" {
		return assistant.Embedding{}, apperrors.Wrap(apperrors.KindInvalidInput, "cannot embed empty text", nil)
	}
	vector := make([]float32, e.dims)
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(text))
	seed := hash.Sum64()
	var norm float64
	for i := 0; i < e.dims; i++ {
		seed = seed*1099511628211 + 1469598103934665603
		v := float64(seed%997)/997.0 - 0.5
		vector[i] = float32(v)
		norm += v * v
	}
	// Unit length so cosine similarity against other hash vectors stays in
	// a sane range.
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return assistant.Embedding{Vector: vector}, nil
}

// Dimensions implements assistant.EmbeddingProvider.
func (e *DeterministicEmbedder) Dimensions() int {
	return e.dims
}

var _ assistant.EmbeddingProvider = (*DeterministicEmbedder)(nil)
