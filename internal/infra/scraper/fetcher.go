package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/silkmart/support-assistant/internal/domain/ingest"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

// HTTPFetcher downloads a page and extracts div/section elements whose class
// contains one of the configured markers. Nested matches are skipped so a
// container and its children do not produce duplicate sections.
type HTTPFetcher struct {
	client  *http.Client
	markers []string
}

// NewHTTPFetcher constructs the fetcher. markers defaults to ["faq", "help"].
func NewHTTPFetcher(timeout time.Duration, markers []string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if len(markers) == 0 {
		markers = []string{"faq", "help"}
	}
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(strings.TrimSpace(m))
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: timeout},
		markers: lowered,
	}
}

// Fetch implements ingest.PageFetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (ingest.Page, error) {
	if strings.TrimSpace(url) == "" {
		return ingest.Page{}, apperrors.Wrap(apperrors.KindInvalidInput, "source url is empty", nil)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ingest.Page{}, apperrors.Wrap(apperrors.KindInvalidInput, "build page request", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := f.client.Do(req)
	if err != nil {
		return ingest.Page{}, apperrors.Wrap(apperrors.KindScrape, "fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ingest.Page{}, apperrors.Wrap(apperrors.KindScrape,
			fmt.Sprintf("fetch page: unexpected status %d", resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ingest.Page{}, apperrors.Wrap(apperrors.KindScrape, "read page body", err)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	sections, err := f.extractSections(raw)
	if err != nil {
		return ingest.Page{}, err
	}

	return ingest.Page{
		URL:      finalURL,
		Sections: sections,
		Raw:      raw,
	}, nil
}

func (f *HTTPFetcher) extractSections(raw []byte) ([]ingest.Section, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindScrape, "parse page html", err)
	}

	var sections []ingest.Section
	doc.Find("div, section").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		if !f.classMatches(class) {
			return
		}
		if f.hasMatchingAncestor(sel) {
			return
		}
		text := collapseWhitespace(sel.Text())
		if text == "" {
			return
		}
		sections = append(sections, ingest.Section{
			Index: len(sections),
			Text:  text,
		})
	})
	return sections, nil
}

func (f *HTTPFetcher) classMatches(class string) bool {
	if class == "" {
		return false
	}
	lowered := strings.ToLower(class)
	for _, marker := range f.markers {
		if marker != "" && strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

func (f *HTTPFetcher) hasMatchingAncestor(sel *goquery.Selection) bool {
	for parents := sel.Parent(); parents.Length() > 0; parents = parents.Parent() {
		node := goquery.NodeName(parents)
		if node != "div" && node != "section" {
			continue
		}
		class, _ := parents.Attr("class")
		if f.classMatches(class) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var _ ingest.PageFetcher = (*HTTPFetcher)(nil)
