package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

const helpPage = `<!DOCTYPE html>
<html>
<body>
	<div class="hero">Welcome to our store</div>
	<div class="faq-block">
		<h2>How do returns work?</h2>
		<p>Items can be returned within 30 days.</p>
		<div class="faq-item">Nested entry that must not duplicate.</div>
	</div>
	<section class="help-center">
		<p>Contact support at help@shop.example.</p>
	</section>
	<div class="footer">Copyright</div>
</body>
</html>`

func TestHTTPFetcher_ExtractsMarkedSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(helpPage))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, nil)
	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	require.Len(t, page.Sections, 2)
	require.Equal(t, 0, page.Sections[0].Index)
	require.Contains(t, page.Sections[0].Text, "How do returns work?")
	require.Contains(t, page.Sections[0].Text, "Nested entry that must not duplicate.")
	require.Equal(t, 1, page.Sections[1].Index)
	require.Contains(t, page.Sections[1].Text, "Contact support")

	require.Contains(t, string(page.Raw), "<!DOCTYPE html>")
	require.Equal(t, server.URL, page.URL)
}

func TestHTTPFetcher_CustomMarkers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<div class="support-info">Opening hours</div><div class="faq">ignored</div>`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, []string{"support"})
	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, page.Sections, 1)
	require.Equal(t, "Opening hours", page.Sections[0].Text)
}

func TestHTTPFetcher_NoSections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<div class="hero">nothing tagged</div>`))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, nil)
	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Empty(t, page.Sections)
}

func TestHTTPFetcher_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, nil)
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.True(t, apperrors.IsKind(err, apperrors.KindScrape))
}

func TestHTTPFetcher_EmptyURL(t *testing.T) {
	fetcher := NewHTTPFetcher(5*time.Second, nil)

	_, err := fetcher.Fetch(context.Background(), "  ")
	require.True(t, apperrors.IsKind(err, apperrors.KindInvalidInput))
}
