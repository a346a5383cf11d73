package assistant

import "context"

// EmbeddingProvider turns text into a fixed-length vector. Store and query
// embeddings must share the same dimension; mixing dimensionalities across
// records is a configuration error surfaced by the repository.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) (Embedding, error)
	Dimensions() int
}
