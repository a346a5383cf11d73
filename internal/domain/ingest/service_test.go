package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

type recordingRepo struct {
	faqBatches     [][]assistant.FaqRecord
	contentBatches [][]assistant.ContentRecord
	batchErr       error
}

func (r *recordingRepo) UpsertFAQ(_ context.Context, rec assistant.FaqRecord) (assistant.FaqRecord, error) {
	return rec, nil
}

func (r *recordingRepo) UpsertFAQBatch(_ context.Context, recs []assistant.FaqRecord) error {
	if r.batchErr != nil {
		return r.batchErr
	}
	r.faqBatches = append(r.faqBatches, recs)
	return nil
}

func (r *recordingRepo) UpsertContent(_ context.Context, rec assistant.ContentRecord) (assistant.ContentRecord, error) {
	return rec, nil
}

func (r *recordingRepo) UpsertContentBatch(_ context.Context, recs []assistant.ContentRecord) error {
	if r.batchErr != nil {
		return r.batchErr
	}
	r.contentBatches = append(r.contentBatches, recs)
	return nil
}

func (r *recordingRepo) SearchFAQ(context.Context, []float32, int, float64) ([]assistant.SimilarityMatch, error) {
	return nil, nil
}

func (r *recordingRepo) SearchContent(context.Context, []float32, int, float64) ([]assistant.SimilarityMatch, error) {
	return nil, nil
}

type fixedEmbedder struct{ fallback bool }

func (e fixedEmbedder) Embed(context.Context, string) (assistant.Embedding, error) {
	return assistant.Embedding{Vector: []float32{0.1, 0.2}, Fallback: e.fallback}, nil
}

func (e fixedEmbedder) Dimensions() int { return 2 }

type fakeFetcher struct {
	page Page
	err  error
}

func (f fakeFetcher) Fetch(context.Context, string) (Page, error) {
	return f.page, f.err
}

type recordingArchive struct {
	keys []string
}

func (a *recordingArchive) Put(_ context.Context, key string, _ []byte, _ string) error {
	a.keys = append(a.keys, key)
	return nil
}

func writeFAQFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faq.tsv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFAQFile_SkipsBadRows(t *testing.T) {
	path := writeFAQFile(t, "question\tanswer\n"+
		"What is your return policy?\tYou can return items within 30 days.\n"+
		"only a question\n"+
		"How long does shipping take?\tUsually 3-5 business days.\n")

	repo := &recordingRepo{}
	arch := &recordingArchive{}
	svc := NewService(Config{}, repo, fixedEmbedder{}, nil, arch, slog.Default())

	result, err := svc.LoadFAQFile(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, result.Loaded)
	require.Equal(t, 1, result.Skipped)

	require.Len(t, repo.faqBatches, 1)
	batch := repo.faqBatches[0]
	require.Len(t, batch, 2)
	require.Equal(t, "What is your return policy?", batch[0].Question)
	require.Equal(t, assistant.SourceCSV, batch[0].Source)
	require.NotEmpty(t, batch[0].Embedding)

	require.Len(t, arch.keys, 1)
	require.Contains(t, arch.keys[0], "ingest/faq/")
}

func TestLoadFAQFile_MissingColumns(t *testing.T) {
	path := writeFAQFile(t, "frage\tantwort\nx\ty\n")

	svc := NewService(Config{}, &recordingRepo{}, fixedEmbedder{}, nil, nil, slog.Default())

	_, err := svc.LoadFAQFile(context.Background(), path)
	require.Error(t, err)
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestLoadFAQFile_MissingFile(t *testing.T) {
	svc := NewService(Config{}, &recordingRepo{}, fixedEmbedder{}, nil, nil, slog.Default())

	_, err := svc.LoadFAQFile(context.Background(), filepath.Join(t.TempDir(), "missing.tsv"))
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}

func TestLoadFAQFile_BatchFailureSurfacesStorageError(t *testing.T) {
	path := writeFAQFile(t, "question\tanswer\nq\ta\n")

	repo := &recordingRepo{batchErr: errors.New("deadlock")}
	svc := NewService(Config{}, repo, fixedEmbedder{}, nil, nil, slog.Default())

	_, err := svc.LoadFAQFile(context.Background(), path)
	require.True(t, apperrors.IsKind(err, apperrors.KindStorage))
}

func TestLoadFAQFile_DefaultsToConfiguredPath(t *testing.T) {
	path := writeFAQFile(t, "question\tanswer\nq\ta\n")

	repo := &recordingRepo{}
	svc := NewService(Config{FAQPath: path}, repo, fixedEmbedder{}, nil, nil, slog.Default())

	result, err := svc.LoadFAQFile(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, result.Loaded)
}

func TestRefreshContent_StoresEverySection(t *testing.T) {
	fetcher := fakeFetcher{page: Page{
		URL: "https://shop.example/help",
		Sections: []Section{
			{Index: 0, Text: "How do returns work?"},
			{Index: 1, Text: "Shipping times and costs."},
		},
		Raw: []byte("<html>raw</html>"),
	}}

	repo := &recordingRepo{}
	arch := &recordingArchive{}
	svc := NewService(Config{SourceURL: "https://shop.example/help"}, repo, fixedEmbedder{}, fetcher, arch, slog.Default())

	result, err := svc.RefreshContent(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Loaded)

	require.Len(t, repo.contentBatches, 1)
	batch := repo.contentBatches[0]
	require.Equal(t, 0, batch[0].SectionIndex)
	require.Equal(t, 1, batch[1].SectionIndex)
	require.Equal(t, "https://shop.example/help", batch[0].URL)
	require.False(t, batch[0].LastUpdated.IsZero())

	require.Len(t, arch.keys, 1)
	require.Contains(t, arch.keys[0], "ingest/content/")
}

func TestRefreshContent_NoSectionsIsANoOp(t *testing.T) {
	fetcher := fakeFetcher{page: Page{URL: "https://shop.example/help"}}

	repo := &recordingRepo{}
	svc := NewService(Config{SourceURL: "https://shop.example/help"}, repo, fixedEmbedder{}, fetcher, nil, slog.Default())

	result, err := svc.RefreshContent(context.Background())
	require.NoError(t, err)
	require.Zero(t, result.Loaded)
	require.Empty(t, repo.contentBatches)
}

func TestRefreshContent_FetchFailure(t *testing.T) {
	fetcher := fakeFetcher{err: errors.New("dns failure")}
	svc := NewService(Config{SourceURL: "https://shop.example/help"}, &recordingRepo{}, fixedEmbedder{}, fetcher, nil, slog.Default())

	_, err := svc.RefreshContent(context.Background())
	require.True(t, apperrors.IsKind(err, apperrors.KindScrape))
}

func TestRefreshContent_RequiresSourceURL(t *testing.T) {
	svc := NewService(Config{}, &recordingRepo{}, fixedEmbedder{}, fakeFetcher{}, nil, slog.Default())

	_, err := svc.RefreshContent(context.Background())
	require.True(t, apperrors.IsKind(err, apperrors.KindConfig))
}
