package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

func TestDeterministicEmbedder_Reproducible(t *testing.T) {
	e := NewDeterministicEmbedder(16)

	first, err := e.Embed(context.Background(), "return policy")
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), "return policy")
	require.NoError(t, err)
	require.Equal(t, first.Vector, second.Vector)
	require.False(t, first.Fallback)

	other, err := e.Embed(context.Background(), "shipping times")
	require.NoError(t, err)
	require.NotEqual(t, first.Vector, other.Vector)
}

func TestDeterministicEmbedder_UnitLength(t *testing.T) {
	e := NewDeterministicEmbedder(32)

	emb, err := e.Embed(context.Background(), "some text")
	require.NoError(t, err)
	require.Len(t, emb.Vector, 32)

	var norm float64
	for _, v := range emb.Vector {
		norm += float64(v) * float64(v)
	}
	require.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestDeterministicEmbedder_RejectsEmptyText(t *testing.T) {
	e := NewDeterministicEmbedder(8)

	_, err := e.Embed(context.Background(), "")
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestDeterministicEmbedder_DefaultDimensions(t *testing.T) {
	require.Equal(t, 32, NewDeterministicEmbedder(0).Dimensions())
	require.Equal(t, 64, NewDeterministicEmbedder(64).Dimensions())
}
