package assistant

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// contextBuilder assembles the ranked context block handed to the answer
// generator, capped by a token budget. The best match always survives the
// cap so the generator never sees an empty block when matches exist.
type contextBuilder struct {
	maxTokens int

	once sync.Once
	enc  *tiktoken.Tiktoken
}

func newContextBuilder(maxTokens int) *contextBuilder {
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &contextBuilder{maxTokens: maxTokens}
}

// Build merges FAQ and content matches into one descending-ranked block.
// FAQ matches render as Q/A pairs, content matches as content/url pairs.
func (b *contextBuilder) Build(faqMatches, contentMatches []SimilarityMatch) string {
	type entry struct {
		text       string
		similarity float64
	}
	entries := make([]entry, 0, len(faqMatches)+len(contentMatches))
	for _, m := range faqMatches {
		entries = append(entries, entry{
			text:       "Q: " + m.Primary + "\nA: " + m.Secondary,
			similarity: m.Similarity,
		})
	}
	for _, m := range contentMatches {
		entries = append(entries, entry{
			text:       "Content: " + m.Primary + "\nURL: " + m.Secondary,
			similarity: m.Similarity,
		})
	}
	// Stable insertion-order tie break: both inputs arrive ranked, so a
	// stable merge by similarity preserves it.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].similarity > entries[j-1].similarity; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}

	var (
		block  strings.Builder
		budget = b.maxTokens
	)
	for i, e := range entries {
		cost := b.countTokens(e.text)
		if i > 0 && cost > budget {
			break
		}
		if i > 0 {
			block.WriteString("\n")
		}
		block.WriteString(e.text)
		budget -= cost
	}
	return block.String()
}

func (b *contextBuilder) countTokens(text string) int {
	b.once.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			b.enc = enc
		}
	})
	if b.enc != nil {
		return len(b.enc.Encode(text, nil, nil))
	}
	return estimateTokens(text)
}

// estimateTokens is an upper-biased heuristic used when the tokenizer
// encoding cannot be loaded (offline environments).
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	runes := len([]rune(text))
	words := len(strings.Fields(text))
	byRunes := (runes + 1) / 2
	if byRunes < words {
		return words
	}
	return byRunes
}
