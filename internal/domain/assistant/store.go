package assistant

import (
	"context"
	"time"
)

// AnswerStore caches generated answers and tracks trending queries. Keys are
// the normalized question text.
type AnswerStore interface {
	GetAnswer(ctx context.Context, key string) (AnswerRecord, bool, error)
	SaveAnswer(ctx context.Context, key string, record AnswerRecord, ttl time.Duration) error
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}
