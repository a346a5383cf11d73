package answercache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
)

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := assistant.AnswerRecord{Question: "Return policy?", Answer: "30 days."}
	require.NoError(t, store.SaveAnswer(ctx, "return policy", record, 0))

	got, ok, err := store.GetAnswer(ctx, "return policy")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, record.Answer, got.Answer)

	_, ok, err = store.GetAnswer(ctx, "unknown")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.GetAnswer(ctx, "")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := assistant.AnswerRecord{Question: "q", Answer: "a"}
	require.NoError(t, store.SaveAnswer(ctx, "q", record, time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	_, ok, err := store.GetAnswer(ctx, "q")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_TrendingOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.IncrementQuery(ctx, "return policy", "Return policy?"))
	}
	require.NoError(t, store.IncrementQuery(ctx, "shipping times", "Shipping times?"))

	top, err := store.TopQueries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	require.Equal(t, "Return policy?", top[0].Query)
	require.EqualValues(t, 3, top[0].Count)
	require.Equal(t, "Shipping times?", top[1].Query)

	top, err = store.TopQueries(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
}

func TestMemoryStore_IgnoresEmptyCanonical(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.IncrementQuery(context.Background(), "", "display"))
	top, err := store.TopQueries(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, top)
}
