// Package fetch retrieves live ticket inventory from event sale pages.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/okian/racegate/internal/domain/normalize"
)

// Default fetcher configuration constants.
const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodyBytes     = 16 << 20
)

// Sentinel kinds for fetch errors.
var (
	ErrBadStatus  = errors.New("unexpected http status")
	ErrNoPageData = errors.New("__NEXT_DATA__ script tag not found")
)

// The sale pages embed their state as JSON in a __NEXT_DATA__ script tag.
var pageDataRe = regexp.MustCompile(`(?is)<script[^>]*id="__NEXT_DATA__"[^>]*>(.*?)</script>`)

// Fetcher retrieves and extracts raw inventory rows for one event URL.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// New creates a Fetcher with configuration options.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page payload shapes, limited to the fields the extraction walks.
type pageData struct {
	Props struct {
		PageProps struct {
			Event    *eventPayload `json:"event"`
			Fallback struct {
				Event *eventPayload `json:"event"`
			} `json:"fallback"`
		} `json:"pageProps"`
	} `json:"props"`
}

type eventPayload struct {
	Tickets    []ticketPayload   `json:"tickets"`
	Categories []categoryPayload `json:"categories"`
}

type ticketPayload struct {
	Name         string  `json:"name"`
	Active       bool    `json:"active"`
	Stock        float64 `json:"v"`
	CategoryRef  string  `json:"categoryRef"`
	StyleOptions struct {
		Hidden bool `json:"hiddenInSelectionArea"`
	} `json:"styleOptions"`
}

type categoryPayload struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

// Inventory fetches the sale page and extracts its raw inventory rows.
// Only active, in-stock, visible tickets are returned; a page without an
// event payload yields an empty inventory, not an error.
func (f *Fetcher) Inventory(ctx context.Context, url string) ([]normalize.RawLine, error) {
	body, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	m := pageDataRe.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPageData, url)
	}

	var page pageData
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(m[1]))), &page); err != nil {
		return nil, fmt.Errorf("decode page data: %w", err)
	}

	event := page.Props.PageProps.Event
	if event == nil {
		event = page.Props.PageProps.Fallback.Event
	}
	if event == nil {
		return nil, nil
	}

	categories := make(map[string]string, len(event.Categories))
	for _, c := range event.Categories {
		name := c.Name
		if name == "" {
			name = "Unknown"
		}
		categories[c.Ref] = name
	}

	rows := make([]normalize.RawLine, 0, len(event.Tickets))
	for _, t := range event.Tickets {
		name := strings.TrimSpace(t.Name)
		stock := int(t.Stock)
		if name == "" || !t.Active || stock <= 0 || t.StyleOptions.Hidden {
			continue
		}
		category, ok := categories[t.CategoryRef]
		if !ok {
			category = "Unknown"
		}
		rows = append(rows, normalize.RawLine{Category: category, Name: name, Stock: stock})
	}
	return rows, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ErrBadStatus, resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
