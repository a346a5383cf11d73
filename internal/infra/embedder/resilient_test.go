package embedder

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

type flakyProvider struct {
	err  error
	dims int
}

func (p *flakyProvider) Embed(context.Context, string) (assistant.Embedding, error) {
	if p.err != nil {
		return assistant.Embedding{}, p.err
	}
	return assistant.Embedding{Vector: make([]float32, p.dims)}, nil
}

func (p *flakyProvider) Dimensions() int { return p.dims }

func TestResilient_PassesThroughOnSuccess(t *testing.T) {
	r := NewResilient(&flakyProvider{dims: 8}, slog.Default())

	emb, err := r.Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.False(t, emb.Fallback)
	require.Len(t, emb.Vector, 8)
	require.Equal(t, 8, r.Dimensions())
}

func TestResilient_SubstitutesFallbackOnBackendFailure(t *testing.T) {
	primary := &flakyProvider{dims: 8, err: apperrors.Wrap(apperrors.KindEmbedding, "backend down", errors.New("503"))}
	r := NewResilient(primary, slog.Default())

	emb, err := r.Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.True(t, emb.Fallback)
	require.Len(t, emb.Vector, 8)

	// Identical input keeps yielding the same substitute vector.
	again, err := r.Embed(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, emb.Vector, again.Vector)
}

func TestResilient_InvalidInputStillErrors(t *testing.T) {
	r := NewResilient(NewDeterministicEmbedder(8), slog.Default())

	_, err := r.Embed(context.Background(), "")
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}
