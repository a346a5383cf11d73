package assistant

import "context"

// KnowledgeRepository owns the FAQ and page-content tables plus their vector
// index. The retrieval pipeline only reads; ingestion only writes.
type KnowledgeRepository interface {
	// UpsertFAQ inserts or, if the question already exists, replaces the
	// answer, embedding and source in place.
	UpsertFAQ(ctx context.Context, rec FaqRecord) (FaqRecord, error)
	// UpsertFAQBatch applies a whole ingestion run transactionally: a
	// failure partway through leaves the store unchanged.
	UpsertFAQBatch(ctx context.Context, recs []FaqRecord) error

	// UpsertContent inserts or replaces the record keyed by (url, section).
	UpsertContent(ctx context.Context, rec ContentRecord) (ContentRecord, error)
	UpsertContentBatch(ctx context.Context, recs []ContentRecord) error

	// SearchFAQ returns rows whose cosine similarity with the query vector
	// strictly exceeds minSimilarity, ordered descending, ties broken by
	// insertion order, capped at limit.
	SearchFAQ(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]SimilarityMatch, error)
	SearchContent(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]SimilarityMatch, error)
}
