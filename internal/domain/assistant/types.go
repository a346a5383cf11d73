package assistant

import (
	"time"

	"github.com/silkmart/support-assistant/pkg/metrics"
)

// Source identifies where a knowledge record was ingested from.
type Source string

const (
	// SourceCSV marks records loaded from the tab-separated FAQ file.
	SourceCSV Source = "csv"
	// SourceScraped marks records produced by the page-content refresh job.
	SourceScraped Source = "scraped"
)

// FaqRecord is a question/answer pair together with its embedding vector.
// The question text acts as the natural key: re-ingesting the same question
// replaces answer, embedding and source in place.
type FaqRecord struct {
	ID        int64
	Question  string
	Answer    string
	Embedding []float32
	Source    Source
	CreatedAt time.Time
}

// ContentRecord is an embedded page-content snippet. Records are keyed by
// (url, section index) so a page with several FAQ sections keeps them all;
// rescraping a section replaces content, embedding and last_updated.
type ContentRecord struct {
	ID           int64
	URL          string
	SectionIndex int
	Content      string
	Embedding    []float32
	LastUpdated  time.Time
}

// SimilarityMatch is a transient search result. For FAQ rows Primary is the
// question and Secondary the answer; for content rows Primary is the content
// and Secondary the url.
type SimilarityMatch struct {
	Primary    string
	Secondary  string
	Similarity float64
}

// Embedding is a fixed-dimension vector plus a degradation flag. Fallback is
// true when the vector was substituted by the deterministic hash backend
// after the real provider failed; it must never be mistaken for a semantic
// embedding.
type Embedding struct {
	Vector   []float32
	Fallback bool
}

// Request encapsulates an incoming support question.
type Request struct {
	Question string `json:"question"`
}

// Response is returned to the HTTP transport and the CLI.
type Response struct {
	Question        string              `json:"question"`
	Answer          string              `json:"answer"`
	Source          string              `json:"source"`
	Matches         int                 `json:"matches"`
	Degraded        bool                `json:"degraded,omitempty"`
	Recommendations []TrendingQuery     `json:"recommendations,omitempty"`
	DurationMs      int64               `json:"durationMs,omitempty"`
	TokenUsage      *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// Answer sources reported in Response.Source.
const (
	AnswerSourceCache   = "cache"
	AnswerSourceLLM     = "llm"
	AnswerSourceLLMOpen = "llm_open"
	AnswerSourceError   = "error"
)

// TrendingQuery represents a frequently asked question.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// AnswerRecord captures a generated answer cached under the normalized
// question text.
type AnswerRecord struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}
