package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/internal/domain/ingest"
	"github.com/silkmart/support-assistant/internal/domain/storefront"
	"github.com/silkmart/support-assistant/internal/infra/archive"
	"github.com/silkmart/support-assistant/internal/infra/config"
	"github.com/silkmart/support-assistant/internal/infra/embedder"
	"github.com/silkmart/support-assistant/internal/infra/knowledgerepo"
	"github.com/silkmart/support-assistant/internal/infra/storefrontrepo"
)

func TestRouter_AskSuccess(t *testing.T) {
	resp := assistant.Response{
		Question: "How do returns work?",
		Answer:   "You have 30 days.",
		Source:   assistant.AnswerSourceLLM,
		Matches:  2,
	}
	svc := &stubAssistant{
		answerFn: func(ctx context.Context, req assistant.Request) assistant.Response {
			require.Equal(t, "How do returns work?", req.Question)
			return resp
		},
	}

	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":"How do returns work?"}`, newRouterUnderTest(t, svc, testEnv{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got assistant.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, resp, got)
}

func TestRouter_AskInvalidJSON(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/ask", `{"question":123}`, newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.NotEmpty(t, errBody["error"]["message"])
}

func TestRouter_Trending(t *testing.T) {
	svc := &stubAssistant{
		trendingFn: func(ctx context.Context) ([]assistant.TrendingQuery, error) {
			return []assistant.TrendingQuery{
				{Query: "Return policy?", Count: 12},
				{Query: "Shipping times?", Count: 7},
			}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/trending", "", newRouterUnderTest(t, svc, testEnv{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Recommendations []assistant.TrendingQuery `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Recommendations, 2)
	require.Equal(t, "Return policy?", body.Recommendations[0].Query)
}

func TestRouter_TrendingFailure(t *testing.T) {
	svc := &stubAssistant{
		trendingFn: func(ctx context.Context) ([]assistant.TrendingQuery, error) {
			return nil, fmt.Errorf("store unreachable")
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/trending", "", newRouterUnderTest(t, svc, testEnv{}))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "trending_failed", errBody["error"]["code"])
}

func TestRouter_IngestFAQ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.tsv")
	require.NoError(t, os.WriteFile(path, []byte("question\tanswer\nHow do I return an item?\tShip it back within 30 days.\n"), 0o600))

	recorder := performRequest(http.MethodPost, "/api/v1/ingest/faq", fmt.Sprintf(`{"path":%q}`, path), newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var result ingest.Result
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &result))
	require.Equal(t, 1, result.Loaded)
	require.Zero(t, result.Skipped)
}

func TestRouter_IngestFAQMissingFile(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/ingest/faq", `{"path":"does/not/exist.tsv"}`, newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_RefreshContentWithoutSourceURL(t *testing.T) {
	recorder := performRequest(http.MethodPost, "/api/v1/ingest/content", "", newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "refresh_failed", errBody["error"]["code"])
}

func TestRouter_Orders(t *testing.T) {
	shop := storefrontrepo.NewMemoryRepository()
	shop.AddOrder(storefront.Order{
		ID:       1042,
		Status:   "wc-completed",
		Date:     time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC),
		Customer: "Dana Reyes",
		Total:    "59.90",
	}, "dana@example.com")

	recorder := performRequest(http.MethodGet, "/api/v1/orders?id=1042", "", newRouterUnderTest(t, &stubAssistant{}, testEnv{shop: shop}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Orders []storefront.Order `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Orders, 1)
	require.Equal(t, int64(1042), body.Orders[0].ID)
	require.Equal(t, "Completed", body.Orders[0].Status)
}

func TestRouter_OrdersNonNumericID(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/orders?id=abc", "", newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
	require.Contains(t, errBody["error"]["message"], "numeric")
}

func TestRouter_OrdersWithoutQuery(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/orders", "", newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_Products(t *testing.T) {
	shop := storefrontrepo.NewMemoryRepository()
	shop.AddProduct(storefront.Product{ID: 7, Title: "Linen Shirt", Price: "49.00", Link: "linen-shirt"})

	recorder := performRequest(http.MethodGet, "/api/v1/products?q=linen", "", newRouterUnderTest(t, &stubAssistant{}, testEnv{shop: shop}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Products []storefront.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Len(t, body.Products, 1)
	require.Equal(t, "Linen Shirt", body.Products[0].Title)
}

func TestRouter_ProductsWithoutQuery(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/api/v1/products", "", newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_Health(t *testing.T) {
	recorder := performRequest(http.MethodGet, "/healthz", "", newRouterUnderTest(t, &stubAssistant{}, testEnv{}))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

type testEnv struct {
	shop *storefrontrepo.MemoryRepository
}

func newRouterUnderTest(t *testing.T, svc assistant.Service, env testEnv) *http.Server {
	t.Helper()
	logger := newTestLogger()

	ingestSvc := ingest.NewService(
		ingest.Config{},
		knowledgerepo.NewMemoryRepository(),
		embedder.NewDeterministicEmbedder(8),
		unusedFetcher{},
		archive.NewMemoryArchive(),
		logger,
	)
	if env.shop == nil {
		env.shop = storefrontrepo.NewMemoryRepository()
	}
	storefrontSvc := storefront.NewService(storefront.Config{BaseURL: "https://shop.example"}, env.shop, logger)

	handler := NewHandler(svc, ingestSvc, storefrontSvc, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubAssistant struct {
	answerFn   func(ctx context.Context, req assistant.Request) assistant.Response
	trendingFn func(ctx context.Context) ([]assistant.TrendingQuery, error)
}

func (s *stubAssistant) Answer(ctx context.Context, req assistant.Request) assistant.Response {
	if s.answerFn != nil {
		return s.answerFn(ctx, req)
	}
	return assistant.Response{}
}

func (s *stubAssistant) Trending(ctx context.Context) ([]assistant.TrendingQuery, error) {
	if s.trendingFn != nil {
		return s.trendingFn(ctx)
	}
	return nil, nil
}

type unusedFetcher struct{}

func (unusedFetcher) Fetch(context.Context, string) (ingest.Page, error) {
	return ingest.Page{}, fmt.Errorf("fetcher not configured")
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
