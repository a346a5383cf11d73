package knowledgerepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

// PostgresRepository implements assistant.KnowledgeRepository on pgx with
// pgvector columns for both tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
	dims int
}

// NewPostgresRepository constructs the repository. dims is the embedding
// width every stored and queried vector must match.
func NewPostgresRepository(pool *pgxpool.Pool, dims int) *PostgresRepository {
	return &PostgresRepository{pool: pool, dims: dims}
}

// EnsureSchema creates the vector extension and both knowledge tables. The
// unique keys carry the upsert semantics: question text for FAQ rows,
// (url, section_index) for scraped content.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS faqs (
			id BIGSERIAL PRIMARY KEY,
			question TEXT NOT NULL UNIQUE,
			answer TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.dims),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS website_content (
			id BIGSERIAL PRIMARY KEY,
			url TEXT NOT NULL,
			section_index INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (url, section_index)
		)`, r.dims),
	}
	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return apperrors.Wrap(apperrors.KindStorage, "ensure knowledge schema", err)
		}
	}
	return nil
}

// UpsertFAQ inserts or replaces the row keyed by question text.
func (r *PostgresRepository) UpsertFAQ(ctx context.Context, rec assistant.FaqRecord) (assistant.FaqRecord, error) {
	if err := r.checkDims(len(rec.Embedding)); err != nil {
		return assistant.FaqRecord{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO faqs (question, answer, embedding, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (question) DO UPDATE
		SET answer = EXCLUDED.answer, embedding = EXCLUDED.embedding, source = EXCLUDED.source
		RETURNING id, created_at
	`, rec.Question, rec.Answer, pgvector.NewVector(rec.Embedding), rec.Source)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return assistant.FaqRecord{}, apperrors.Wrap(apperrors.KindStorage, "upsert faq", err)
	}
	return rec, nil
}

// UpsertFAQBatch applies a whole ingestion run inside one transaction.
func (r *PostgresRepository) UpsertFAQBatch(ctx context.Context, recs []assistant.FaqRecord) error {
	for _, rec := range recs {
		if err := r.checkDims(len(rec.Embedding)); err != nil {
			return err
		}
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range recs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO faqs (question, answer, embedding, source)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (question) DO UPDATE
				SET answer = EXCLUDED.answer, embedding = EXCLUDED.embedding, source = EXCLUDED.source
			`, rec.Question, rec.Answer, pgvector.NewVector(rec.Embedding), rec.Source); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpsertContent inserts or replaces the row keyed by (url, section_index).
func (r *PostgresRepository) UpsertContent(ctx context.Context, rec assistant.ContentRecord) (assistant.ContentRecord, error) {
	if err := r.checkDims(len(rec.Embedding)); err != nil {
		return assistant.ContentRecord{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO website_content (url, section_index, content, embedding, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (url, section_index) DO UPDATE
		SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, last_updated = EXCLUDED.last_updated
		RETURNING id
	`, rec.URL, rec.SectionIndex, rec.Content, pgvector.NewVector(rec.Embedding), rec.LastUpdated)
	if err := row.Scan(&rec.ID); err != nil {
		return assistant.ContentRecord{}, apperrors.Wrap(apperrors.KindStorage, "upsert content", err)
	}
	return rec, nil
}

// UpsertContentBatch applies a whole refresh run inside one transaction.
func (r *PostgresRepository) UpsertContentBatch(ctx context.Context, recs []assistant.ContentRecord) error {
	for _, rec := range recs {
		if err := r.checkDims(len(rec.Embedding)); err != nil {
			return err
		}
	}
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, rec := range recs {
			if _, err := tx.Exec(ctx, `
				INSERT INTO website_content (url, section_index, content, embedding, last_updated)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (url, section_index) DO UPDATE
				SET content = EXCLUDED.content, embedding = EXCLUDED.embedding, last_updated = EXCLUDED.last_updated
			`, rec.URL, rec.SectionIndex, rec.Content, pgvector.NewVector(rec.Embedding), rec.LastUpdated); err != nil {
				return err
			}
		}
		return nil
	})
}

// SearchFAQ returns FAQ rows above the similarity floor.
func (r *PostgresRepository) SearchFAQ(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]assistant.SimilarityMatch, error) {
	return r.search(ctx, `
		SELECT question, answer, 1 - (embedding <=> $1) AS similarity
		FROM faqs
		WHERE 1 - (embedding <=> $1) > $2
		ORDER BY similarity DESC, id ASC
		LIMIT $3
	`, embedding, limit, minSimilarity)
}

// SearchContent returns content rows above the similarity floor.
func (r *PostgresRepository) SearchContent(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]assistant.SimilarityMatch, error) {
	return r.search(ctx, `
		SELECT content, url, 1 - (embedding <=> $1) AS similarity
		FROM website_content
		WHERE 1 - (embedding <=> $1) > $2
		ORDER BY similarity DESC, id ASC
		LIMIT $3
	`, embedding, limit, minSimilarity)
}

func (r *PostgresRepository) search(ctx context.Context, query string, embedding []float32, limit int, minSimilarity float64) ([]assistant.SimilarityMatch, error) {
	if err := r.checkDims(len(embedding)); err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(embedding), minSimilarity, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "similarity search", err)
	}
	defer rows.Close()

	var matches []assistant.SimilarityMatch
	for rows.Next() {
		var match assistant.SimilarityMatch
		if err := rows.Scan(&match.Primary, &match.Secondary, &match.Similarity); err != nil {
			return nil, apperrors.Wrap(apperrors.KindStorage, "scan similarity row", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindStorage, "similarity search", err)
	}
	return matches, nil
}

func (r *PostgresRepository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return apperrors.Wrap(apperrors.KindStorage, "apply batch", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "commit transaction", err)
	}
	return nil
}

func (r *PostgresRepository) checkDims(got int) error {
	if got != r.dims {
		return apperrors.Wrap(apperrors.KindConfig,
			fmt.Sprintf("embedding has %d dimensions, store expects %d", got, r.dims), nil)
	}
	return nil
}

var _ assistant.KnowledgeRepository = (*PostgresRepository)(nil)
