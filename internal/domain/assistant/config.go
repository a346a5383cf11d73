package assistant

import "time"

// Config holds runtime knobs for the retrieval pipeline.
type Config struct {
	StoreName          string
	SearchLimit        int
	SimilarityFloor    float64
	MaxContextTokens   int
	CacheTTL           time.Duration
	TopRecommendations int
}
