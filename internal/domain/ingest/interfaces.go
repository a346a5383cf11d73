package ingest

import "context"

// Section is one FAQ/help block extracted from a fetched page, in document
// order.
type Section struct {
	Index int
	Text  string
}

// Page is the result of fetching the configured source URL. URL is the final
// response URL after redirects; Raw is the unparsed HTML kept for archival.
type Page struct {
	URL      string
	Sections []Section
	Raw      []byte
}

// PageFetcher retrieves a page and extracts its FAQ/help-tagged sections.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

// Archive stores raw ingestion payloads (fetched HTML, loaded FAQ files)
// for audit and reprocessing. Implementations must tolerate being disabled.
type Archive interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
}
