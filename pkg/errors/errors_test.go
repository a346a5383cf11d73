package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap_FormatsMessageAndCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(KindStorage, "order lookup failed", cause)

	require.EqualError(t, err, "order lookup failed: connection refused")
	require.ErrorIs(t, err, cause)

	err = Wrap(KindInvalidInput, "question cannot be empty", nil)
	require.EqualError(t, err, "question cannot be empty")
}

func TestIsKind(t *testing.T) {
	err := Wrap(KindEmbedding, "embedding call failed", nil)

	require.True(t, IsKind(err, KindEmbedding))
	require.False(t, IsKind(err, KindLLM))
	require.False(t, IsKind(stderrors.New("plain"), KindEmbedding))
	require.False(t, IsKind(nil, KindEmbedding))
}

func TestIsKind_SeesThroughWrapping(t *testing.T) {
	inner := Wrap(KindNotFound, "no such tool", nil)
	outer := fmt.Errorf("invoking tool: %w", inner)

	require.True(t, IsKind(outer, KindNotFound))
	require.Equal(t, KindNotFound, KindOf(outer))
}

func TestKindOf_PlainError(t *testing.T) {
	require.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
	require.Equal(t, Kind(""), KindOf(nil))
}
