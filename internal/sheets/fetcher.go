// Package sheets pulls the remote catalog and sales feeds: CSV exports of
// the catalog spreadsheets over plain HTTP, and marketplace feed files via
// the Google Drive API.
package sheets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/vendas-ops/backend-go/internal/frame"
)

// ErrCatalogUnavailable signals that a remote catalog fetch timed out or
// returned something that is not CSV. Callers degrade to an empty catalog.
var ErrCatalogUnavailable = errors.New("catalog source unavailable")

// fetchTimeout is the fixed budget for one catalog export fetch.
const fetchTimeout = 15 * time.Second

// Fetcher downloads CSV exports of a published spreadsheet.
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher returns a fetcher with the fixed 15-second timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: fetchTimeout},
		baseURL: "https://docs.google.com/spreadsheets/d",
	}
}

// NewFetcherWithBase is used by tests to point at a local server.
func NewFetcherWithBase(baseURL string) *Fetcher {
	f := NewFetcher()
	f.baseURL = strings.TrimRight(baseURL, "/")
	return f
}

// ExportURL builds the CSV export URL for one sheet of a spreadsheet.
func (f *Fetcher) ExportURL(spreadsheetID, gid string) string {
	return fmt.Sprintf("%s/%s/export?format=csv&gid=%s", f.baseURL, spreadsheetID, gid)
}

// FetchCSV downloads one sheet as a frame. Timeouts, HTTP errors and HTML
// payloads (sign-in pages and such) all map to ErrCatalogUnavailable.
func (f *Fetcher) FetchCSV(ctx context.Context, spreadsheetID, gid string) (*frame.Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ExportURL(spreadsheetID, gid), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	if looksLikeHTML(body) {
		return nil, fmt.Errorf("%w: received HTML instead of CSV", ErrCatalogUnavailable)
	}

	fr, err := frame.ReadCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return fr, nil
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 256)])))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}
