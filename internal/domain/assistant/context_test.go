package assistant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextBuilder_MergesByDescendingSimilarity(t *testing.T) {
	b := newContextBuilder(2048)

	block := b.Build(
		[]SimilarityMatch{
			{Primary: "q1", Secondary: "a1", Similarity: 0.9},
			{Primary: "q2", Secondary: "a2", Similarity: 0.75},
		},
		[]SimilarityMatch{
			{Primary: "shipping info", Secondary: "https://shop.example/help", Similarity: 0.8},
		},
	)

	lines := strings.Split(block, "\n")
	require.Equal(t, []string{
		"Q: q1",
		"A: a1",
		"Content: shipping info",
		"URL: https://shop.example/help",
		"Q: q2",
		"A: a2",
	}, lines)
}

func TestContextBuilder_TiesKeepFAQFirst(t *testing.T) {
	b := newContextBuilder(2048)

	block := b.Build(
		[]SimilarityMatch{{Primary: "q", Secondary: "a", Similarity: 0.8}},
		[]SimilarityMatch{{Primary: "c", Secondary: "u", Similarity: 0.8}},
	)

	require.True(t, strings.Index(block, "Q: q") < strings.Index(block, "Content: c"))
}

func TestContextBuilder_BudgetKeepsBestMatch(t *testing.T) {
	b := newContextBuilder(1)

	long := strings.Repeat("return policy details ", 50)
	block := b.Build(
		[]SimilarityMatch{
			{Primary: long, Secondary: long, Similarity: 0.95},
			{Primary: "second", Secondary: "answer", Similarity: 0.8},
		},
		nil,
	)

	require.Contains(t, block, "Q: "+long)
	require.NotContains(t, block, "second")
}

func TestContextBuilder_EmptyInputs(t *testing.T) {
	b := newContextBuilder(2048)
	require.Empty(t, b.Build(nil, nil))
}

func TestEstimateTokens(t *testing.T) {
	require.Zero(t, estimateTokens(""))
	require.Equal(t, 2, estimateTokens("word"))
	require.GreaterOrEqual(t, estimateTokens("three small words"), 3)
}
