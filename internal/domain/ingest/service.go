package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
	"github.com/silkmart/support-assistant/pkg/util"
)

// Config drives the ingestion jobs.
type Config struct {
	FAQPath   string
	SourceURL string
}

// Result summarizes an ingestion run.
type Result struct {
	RunID   uuid.UUID `json:"runId"`
	Loaded  int       `json:"loaded"`
	Skipped int       `json:"skipped"`
}

// Service runs the batch ingestion jobs. It only writes through the
// knowledge repository's upsert path, never reads.
type Service struct {
	cfg      Config
	repo     assistant.KnowledgeRepository
	embedder assistant.EmbeddingProvider
	fetcher  PageFetcher
	archive  Archive
	logger   *slog.Logger
}

// NewService constructs the ingestion service. archive may be nil when
// archiving is disabled.
func NewService(cfg Config, repo assistant.KnowledgeRepository, embedder assistant.EmbeddingProvider, fetcher PageFetcher, archive Archive, logger *slog.Logger) *Service {
	return &Service{
		cfg:      cfg,
		repo:     repo,
		embedder: embedder,
		fetcher:  fetcher,
		archive:  archive,
		logger:   logger.With("component", "ingest.service"),
	}
}

// LoadFAQFile parses a tab-separated file with a mandatory question/answer
// header, embeds each accepted question and upserts the batch in one
// transaction. Rows with fewer than two populated fields are skipped with a
// warning, never aborting the run.
func (s *Service) LoadFAQFile(ctx context.Context, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		path = s.cfg.FAQPath
	}
	result := Result{RunID: uuid.New()}

	raw, err := os.ReadFile(path)
	if err != nil {
		return result, apperrors.Wrap(apperrors.KindInvalidInput, "failed to read faq file "+path, err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return result, apperrors.Wrap(apperrors.KindInvalidInput, "faq file has no header row", err)
	}
	questionCol, answerCol, err := locateColumns(header)
	if err != nil {
		return result, err
	}

	var records []assistant.FaqRecord
	degraded := false
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.logger.Warn("skipping malformed row", "run_id", result.RunID, "line", line, "error", err)
			result.Skipped++
			continue
		}
		question, answer, ok := extractPair(row, questionCol, answerCol)
		if !ok {
			s.logger.Warn("skipping row with missing values", "run_id", result.RunID, "line", line)
			result.Skipped++
			continue
		}
		embedding, err := s.embedder.Embed(ctx, question)
		if err != nil {
			return result, apperrors.Wrap(apperrors.KindEmbedding, "failed to embed question", err)
		}
		degraded = degraded || embedding.Fallback
		records = append(records, assistant.FaqRecord{
			Question:  question,
			Answer:    answer,
			Embedding: embedding.Vector,
			Source:    assistant.SourceCSV,
			CreatedAt: util.NowUTC(),
		})
	}
	if degraded {
		s.logger.Warn("faq embeddings degraded to fallback vectors", "run_id", result.RunID)
	}

	if len(records) > 0 {
		if err := s.repo.UpsertFAQBatch(ctx, records); err != nil {
			return result, apperrors.Wrap(apperrors.KindStorage, "faq batch upsert failed", err)
		}
	}
	result.Loaded = len(records)

	s.archivePayload(ctx, fmt.Sprintf("ingest/faq/%s.tsv", result.RunID), raw, "text/tab-separated-values")
	s.logger.Info("faq file loaded", "run_id", result.RunID, "path", path, "loaded", result.Loaded, "skipped", result.Skipped)
	return result, nil
}

// RefreshContent fetches the configured page, embeds every FAQ/help-tagged
// section and upserts each under its (url, section index) key, so a page
// with several sections keeps them all.
func (s *Service) RefreshContent(ctx context.Context) (Result, error) {
	result := Result{RunID: uuid.New()}
	if strings.TrimSpace(s.cfg.SourceURL) == "" {
		return result, apperrors.Wrap(apperrors.KindConfig, "scrape source url not configured", nil)
	}

	page, err := s.fetcher.Fetch(ctx, s.cfg.SourceURL)
	if err != nil {
		return result, apperrors.Wrap(apperrors.KindScrape, "failed to fetch page content", err)
	}
	if len(page.Sections) == 0 {
		s.logger.Info("no faq sections found on page", "run_id", result.RunID, "url", page.URL)
		return result, nil
	}

	degraded := false
	records := make([]assistant.ContentRecord, 0, len(page.Sections))
	for _, section := range page.Sections {
		embedding, err := s.embedder.Embed(ctx, section.Text)
		if err != nil {
			return result, apperrors.Wrap(apperrors.KindEmbedding, "failed to embed section", err)
		}
		degraded = degraded || embedding.Fallback
		records = append(records, assistant.ContentRecord{
			URL:          page.URL,
			SectionIndex: section.Index,
			Content:      section.Text,
			Embedding:    embedding.Vector,
			LastUpdated:  util.NowUTC(),
		})
	}
	if degraded {
		s.logger.Warn("content embeddings degraded to fallback vectors", "run_id", result.RunID)
	}

	if err := s.repo.UpsertContentBatch(ctx, records); err != nil {
		return result, apperrors.Wrap(apperrors.KindStorage, "content batch upsert failed", err)
	}
	result.Loaded = len(records)

	s.archivePayload(ctx, fmt.Sprintf("ingest/content/%s.html", result.RunID), page.Raw, "text/html")
	s.logger.Info("page content refreshed", "run_id", result.RunID, "url", page.URL, "sections", result.Loaded)
	return result, nil
}

func (s *Service) archivePayload(ctx context.Context, key string, data []byte, mimeType string) {
	if s.archive == nil || len(data) == 0 {
		return
	}
	if err := s.archive.Put(ctx, key, data, mimeType); err != nil {
		s.logger.Warn("archive write failed", "key", key, "error", err)
	}
}

func locateColumns(header []string) (int, int, error) {
	questionCol, answerCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "question":
			questionCol = i
		case "answer":
			answerCol = i
		}
	}
	if questionCol < 0 || answerCol < 0 {
		return 0, 0, apperrors.Wrap(apperrors.KindInvalidInput, "faq file header must contain question and answer columns", nil)
	}
	return questionCol, answerCol, nil
}

func extractPair(row []string, questionCol, answerCol int) (string, string, bool) {
	if questionCol >= len(row) || answerCol >= len(row) {
		return "", "", false
	}
	question := strings.TrimSpace(row[questionCol])
	answer := strings.TrimSpace(row[answerCol])
	if question == "" || answer == "" {
		return "", "", false
	}
	return question, answer, true
}
