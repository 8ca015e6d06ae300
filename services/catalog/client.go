package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"cinefeed/models"
)

// Client talks to the upstream movie catalog API. The upstream uses two JSON
// shapes: a lightweight search-results shape for list/search endpoints and a
// richer full-record shape for by-id lookups. Missing fields arrive as the
// literal "N/A" sentinel; the field type below is the only place that checks
// for it.

const (
	defaultTimeout  = 15 * time.Second
	requestAttempts = 3
	retryBaseDelay  = 300 * time.Millisecond
)

// field is an upstream string value that may carry the not-available sentinel.
type field string

func (f field) present() bool {
	s := strings.TrimSpace(string(f))
	return s != "" && s != models.NotAvailable
}

func (f field) or(fallback string) string {
	if f.present() {
		return strings.TrimSpace(string(f))
	}
	return fallback
}

// SearchItem is the lightweight upstream shape carried by search and list
// responses. It never includes a synopsis or genre information.
type SearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type searchResponse struct {
	Search       []SearchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
}

// FullRecord is the richer upstream shape returned by by-id lookups. Numeric
// fields arrive as strings ("8.6", "1,234,567") and dates as YYYY-MM-DD.
type FullRecord struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Released   string `json:"Released"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Language   string `json:"Language"`
	Plot       string `json:"Plot"`
	Tagline    string `json:"Tagline"`
	Status     string `json:"Status"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
	IMDBVotes  string `json:"imdbVotes"`
	IMDBID     string `json:"imdbID"`
	Website    string `json:"Website"`
	Production string `json:"Production"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// ListKind selects one of the three upstream list feeds.
type ListKind string

const (
	ListPopular  ListKind = "popular"
	ListTopRated ListKind = "top_rated"
	ListUpcoming ListKind = "upcoming"
)

// statusError marks an upstream HTTP failure. 4xx responses are permanent;
// retrying them cannot help.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("catalog request failed: status %d", e.code)
}

func (e *statusError) permanent() bool {
	return e.code >= 400 && e.code < 500
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client

	// Rate limiting
	throttleMu  sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

func NewClient(baseURL, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      strings.TrimSpace(apiKey),
		httpc:       httpc,
		minInterval: 20 * time.Millisecond,
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

func (c *Client) endpoint(params url.Values) string {
	params.Set("apikey", c.apiKey)
	return c.baseURL + "/?" + params.Encode()
}

// doGET performs a rate-limited GET with bounded retries and exponential
// backoff. Transport failures and 429/5xx responses are retried; other 4xx
// responses fail immediately.
func (c *Client) doGET(ctx context.Context, endpoint string, v any) error {
	return retry.Do(
		func() error {
			c.throttleMu.Lock()
			since := time.Since(c.lastRequest)
			if since < c.minInterval {
				time.Sleep(c.minInterval - since)
			}
			c.lastRequest = time.Now()
			c.throttleMu.Unlock()

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 400 {
				serr := &statusError{code: resp.StatusCode}
				if resp.StatusCode != http.StatusTooManyRequests && serr.permanent() {
					return retry.Unrecoverable(serr)
				}
				return serr
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode catalog response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(requestAttempts),
		retry.Delay(retryBaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[catalog] request retry %d/%d: %v", n+1, requestAttempts, err)
		}),
	)
}

// Search runs a text search against the upstream. An upstream "Response":
// "False" payload is a valid empty result, not an error. Returns the matching
// items and the upstream total across all pages.
func (c *Client) Search(ctx context.Context, query string, page int) ([]SearchItem, int, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("s", query)
	params.Set("type", "movie")
	params.Set("page", strconv.Itoa(page))

	var payload searchResponse
	if err := c.doGET(ctx, c.endpoint(params), &payload); err != nil {
		return nil, 0, err
	}
	if payload.Response == "False" {
		return nil, 0, nil
	}
	total, _ := strconv.Atoi(payload.TotalResults)
	return payload.Search, total, nil
}

// List fetches one page of the given curated feed (popular, top_rated or
// upcoming). The response uses the same lightweight shape as Search.
func (c *Client) List(ctx context.Context, kind ListKind, page int) ([]SearchItem, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("list", string(kind))
	params.Set("type", "movie")
	params.Set("page", strconv.Itoa(page))

	var payload searchResponse
	if err := c.doGET(ctx, c.endpoint(params), &payload); err != nil {
		return nil, err
	}
	if payload.Response == "False" {
		return nil, nil
	}
	return payload.Search, nil
}

// MovieByID fetches the full record for one title. A "Response": "False"
// payload (unknown id) yields (nil, nil).
func (c *Client) MovieByID(ctx context.Context, id string) (*FullRecord, error) {
	params := url.Values{}
	params.Set("i", id)
	params.Set("plot", "full")

	var payload FullRecord
	if err := c.doGET(ctx, c.endpoint(params), &payload); err != nil {
		return nil, err
	}
	if payload.Response == "False" {
		log.Printf("[catalog] no record for id=%q: %s", id, payload.Error)
		return nil, nil
	}
	return &payload, nil
}
