package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/silkmart/support-assistant/pkg/errors"
	"github.com/silkmart/support-assistant/pkg/util"
)

// Apology is the fixed degradation message: Answer never returns an empty
// string and never lets an internal failure escape to the interactive loop.
const Apology = "I apologize, but I encountered an error while processing your question. Please try again."

const emptyQuestionReply = "Please enter a question so I can help."

// Service exposes the retrieval pipeline.
type Service interface {
	Answer(ctx context.Context, req Request) Response
	Trending(ctx context.Context) ([]TrendingQuery, error)
}

type service struct {
	cfg       Config
	repo      KnowledgeRepository
	store     AnswerStore
	embedder  EmbeddingProvider
	generator Generator
	builder   *contextBuilder
	logger    *slog.Logger
}

// NewService wires up the retrieval pipeline.
func NewService(cfg Config, repo KnowledgeRepository, store AnswerStore, embedder EmbeddingProvider, generator Generator, logger *slog.Logger) Service {
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = 3
	}
	if cfg.SimilarityFloor <= 0 {
		cfg.SimilarityFloor = 0.7
	}
	return &service{
		cfg:       cfg,
		repo:      repo,
		store:     store,
		embedder:  embedder,
		generator: generator,
		builder:   newContextBuilder(cfg.MaxContextTokens),
		logger:    logger.With("component", "assistant.service"),
	}
}

func (s *service) Answer(ctx context.Context, req Request) Response {
	start := time.Now()
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return Response{Answer: emptyQuestionReply, Source: AnswerSourceError}
	}

	canonical := normalizeQuestion(question)
	resp := s.answer(ctx, question, canonical)
	resp.Question = question
	resp.DurationMs = time.Since(start).Milliseconds()

	if err := s.store.IncrementQuery(ctx, canonical, question); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}
	if recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations); err != nil {
		s.logger.Warn("trending fetch failed", "error", err)
	} else {
		resp.Recommendations = recs
	}
	return resp
}

func (s *service) answer(ctx context.Context, question, canonical string) Response {
	if cached, ok, err := s.store.GetAnswer(ctx, canonical); err != nil {
		s.logger.Warn("answer cache lookup failed", "error", err)
	} else if ok {
		return Response{Answer: cached.Answer, Source: AnswerSourceCache}
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		s.logger.Error("query embedding failed", "error", err, "kind", apperrors.KindOf(err))
		return s.generateOpen(ctx, canonical, question, false)
	}
	if embedding.Fallback {
		s.logger.Warn("embedding degraded to fallback vector", "question", canonical)
	}

	faqMatches, err := s.repo.SearchFAQ(ctx, embedding.Vector, s.cfg.SearchLimit, s.cfg.SimilarityFloor)
	if err != nil {
		s.logger.Error("faq search failed", "error", err, "kind", apperrors.KindOf(err))
		return Response{Answer: Apology, Source: AnswerSourceError, Degraded: embedding.Fallback}
	}
	contentMatches, err := s.repo.SearchContent(ctx, embedding.Vector, s.cfg.SearchLimit, s.cfg.SimilarityFloor)
	if err != nil {
		s.logger.Error("content search failed", "error", err, "kind", apperrors.KindOf(err))
		return Response{Answer: Apology, Source: AnswerSourceError, Degraded: embedding.Fallback}
	}

	total := len(faqMatches) + len(contentMatches)
	if total == 0 {
		return s.generateOpen(ctx, canonical, question, embedding.Fallback)
	}

	block := s.builder.Build(faqMatches, contentMatches)
	gen, err := s.generator.Generate(ctx, question, block)
	if err != nil {
		s.logger.Error("context generation failed", "error", err, "kind", apperrors.KindOf(err))
		return Response{Answer: Apology, Source: AnswerSourceError, Matches: total, Degraded: embedding.Fallback}
	}
	s.cacheAnswer(ctx, canonical, question, gen.Answer)
	resp := Response{Answer: gen.Answer, Source: AnswerSourceLLM, Matches: total, Degraded: embedding.Fallback}
	if !gen.Usage.IsZero() {
		usage := gen.Usage
		resp.TokenUsage = &usage
	}
	return resp
}

// generateOpen is the open-domain fallback: no context block at all.
func (s *service) generateOpen(ctx context.Context, canonical, question string, degraded bool) Response {
	gen, err := s.generator.Generate(ctx, question, "")
	if err != nil {
		s.logger.Error("open generation failed", "error", err, "kind", apperrors.KindOf(err))
		return Response{Answer: Apology, Source: AnswerSourceError, Degraded: degraded}
	}
	s.cacheAnswer(ctx, canonical, question, gen.Answer)
	resp := Response{Answer: gen.Answer, Source: AnswerSourceLLMOpen, Degraded: degraded}
	if !gen.Usage.IsZero() {
		usage := gen.Usage
		resp.TokenUsage = &usage
	}
	return resp
}

func (s *service) cacheAnswer(ctx context.Context, canonical, question, answer string) {
	if answer == "" {
		return
	}
	record := AnswerRecord{
		Question:  question,
		Answer:    answer,
		CreatedAt: util.NowUTC(),
	}
	if err := s.store.SaveAnswer(ctx, canonical, record, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("answer cache save failed", "error", err)
	}
}

func (s *service) Trending(ctx context.Context) ([]TrendingQuery, error) {
	recs, err := s.store.TopQueries(ctx, s.cfg.TopRecommendations)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "failed to load trending queries", err)
	}
	return recs, nil
}
