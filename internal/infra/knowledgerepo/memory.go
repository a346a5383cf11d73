package knowledgerepo

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/pkg/util"
)

type contentKey struct {
	url     string
	section int
}

// MemoryRepository is an in-memory KnowledgeRepository used for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64

	faqs       []assistant.FaqRecord
	faqByText  map[string]int
	content    []assistant.ContentRecord
	contentIdx map[contentKey]int
}

// NewMemoryRepository constructs a repo backed by memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:     1,
		faqByText:  make(map[string]int),
		contentIdx: make(map[contentKey]int),
	}
}

// UpsertFAQ implements assistant.KnowledgeRepository.
func (r *MemoryRepository) UpsertFAQ(_ context.Context, rec assistant.FaqRecord) (assistant.FaqRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upsertFAQLocked(rec), nil
}

// UpsertFAQBatch implements assistant.KnowledgeRepository. Memory writes
// cannot fail partway, so the transactional contract holds trivially.
func (r *MemoryRepository) UpsertFAQBatch(_ context.Context, recs []assistant.FaqRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.upsertFAQLocked(rec)
	}
	return nil
}

func (r *MemoryRepository) upsertFAQLocked(rec assistant.FaqRecord) assistant.FaqRecord {
	rec.Embedding = append([]float32(nil), rec.Embedding...)
	if idx, ok := r.faqByText[rec.Question]; ok {
		rec.ID = r.faqs[idx].ID
		rec.CreatedAt = r.faqs[idx].CreatedAt
		r.faqs[idx] = rec
		return rec
	}
	rec.ID = r.nextID
	r.nextID++
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = util.NowUTC()
	}
	r.faqByText[rec.Question] = len(r.faqs)
	r.faqs = append(r.faqs, rec)
	return rec
}

// UpsertContent implements assistant.KnowledgeRepository.
func (r *MemoryRepository) UpsertContent(_ context.Context, rec assistant.ContentRecord) (assistant.ContentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upsertContentLocked(rec), nil
}

// UpsertContentBatch implements assistant.KnowledgeRepository.
func (r *MemoryRepository) UpsertContentBatch(_ context.Context, recs []assistant.ContentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.upsertContentLocked(rec)
	}
	return nil
}

func (r *MemoryRepository) upsertContentLocked(rec assistant.ContentRecord) assistant.ContentRecord {
	rec.Embedding = append([]float32(nil), rec.Embedding...)
	key := contentKey{url: rec.URL, section: rec.SectionIndex}
	if idx, ok := r.contentIdx[key]; ok {
		rec.ID = r.content[idx].ID
		r.content[idx] = rec
		return rec
	}
	rec.ID = r.nextID
	r.nextID++
	r.contentIdx[key] = len(r.content)
	r.content = append(r.content, rec)
	return rec
}

// SearchFAQ implements assistant.KnowledgeRepository.
func (r *MemoryRepository) SearchFAQ(_ context.Context, embedding []float32, limit int, minSimilarity float64) ([]assistant.SimilarityMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []assistant.SimilarityMatch
	for _, rec := range r.faqs {
		sim := cosineSimilarity(embedding, rec.Embedding)
		if sim > minSimilarity {
			matches = append(matches, assistant.SimilarityMatch{
				Primary:    rec.Question,
				Secondary:  rec.Answer,
				Similarity: sim,
			})
		}
	}
	return rankMatches(matches, limit), nil
}

// SearchContent implements assistant.KnowledgeRepository.
func (r *MemoryRepository) SearchContent(_ context.Context, embedding []float32, limit int, minSimilarity float64) ([]assistant.SimilarityMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []assistant.SimilarityMatch
	for _, rec := range r.content {
		sim := cosineSimilarity(embedding, rec.Embedding)
		if sim > minSimilarity {
			matches = append(matches, assistant.SimilarityMatch{
				Primary:    rec.Content,
				Secondary:  rec.URL,
				Similarity: sim,
			})
		}
	}
	return rankMatches(matches, limit), nil
}

// rankMatches sorts descending by similarity, keeping insertion order for
// equal scores, and caps the result at limit.
func rankMatches(matches []assistant.SimilarityMatch, limit int) []assistant.SimilarityMatch {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func cosineSimilarity(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ assistant.KnowledgeRepository = (*MemoryRepository)(nil)
