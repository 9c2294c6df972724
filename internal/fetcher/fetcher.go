// Package fetcher retrieves balance ledgers from the public OpenDataSoft
// datasets published by the French finance ministry.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/collectivites/m57/internal/ledger"
	"github.com/collectivites/m57/internal/model"
)

// DefaultBaseURL is the records endpoint of the yearly municipal balances.
// {year} is replaced by the fiscal year.
const DefaultBaseURL = "https://data.economie.gouv.fr/api/explore/v2.1/catalog/datasets/balances-comptables-des-communes-en-{year}/records"

// MaxPageSize is the largest page the API serves.
const MaxPageSize = 100

// maxOffset is the API's limit on offset+limit.
const maxOffset = 10000

// ErrNoRecords is returned when the dataset holds no line for the entity.
var ErrNoRecords = errors.New("no ledger records found")

// Config tunes the client.
type Config struct {
	BaseURL           string
	DirectoryURL      string
	PageSize          int
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	CacheTTL          time.Duration
	// Concurrency bounds FetchYears.
	Concurrency int
}

// DefaultConfig returns a polite configuration for the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		DirectoryURL:      DefaultDirectoryURL,
		PageSize:          MaxPageSize,
		RequestsPerSecond: 5,
		Burst:             5,
		Timeout:           30 * time.Second,
		CacheTTL:          time.Hour,
		Concurrency:       3,
	}
}

// StatusError reports a non-2xx API response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client fetches ledger pages, throttled and cached.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	pages   *cache.Cache
	log     *zap.Logger
}

// New creates a Client. Zero fields of cfg take their default; a nil logger
// discards output.
func New(cfg Config, log *zap.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.DirectoryURL == "" {
		cfg.DirectoryURL = def.DirectoryURL
	}
	if cfg.PageSize <= 0 || cfg.PageSize > MaxPageSize {
		cfg.PageSize = def.PageSize
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		pages:   cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		log:     log.Named("fetcher"),
	}
}

// DatasetURL returns the records endpoint for year.
func (c *Client) DatasetURL(year int) string {
	return strings.ReplaceAll(c.cfg.BaseURL, "{year}", strconv.Itoa(year))
}

func (c *Client) pageURL(siren string, year, offset int) (string, error) {
	u, err := url.Parse(c.DatasetURL(year))
	if err != nil {
		return "", fmt.Errorf("parsing dataset URL: %w", err)
	}
	q := u.Query()
	q.Set("where", "siren="+siren)
	q.Set("limit", strconv.Itoa(c.cfg.PageSize))
	q.Set("offset", strconv.Itoa(offset))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchYear returns every ledger line of siren for year, all budgets
// included. Pages are requested until one comes back short.
func (c *Client) FetchYear(ctx context.Context, siren string, year int) ([]model.LedgerLine, error) {
	var records []ledger.Record
	for offset := 0; ; offset += c.cfg.PageSize {
		if offset+c.cfg.PageSize > maxOffset {
			c.log.Warn("result window exhausted, ledger truncated",
				zap.String("siren", siren), zap.Int("year", year), zap.Int("records", len(records)))
			break
		}
		u, err := c.pageURL(siren, year, offset)
		if err != nil {
			return nil, err
		}
		page, err := c.page(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("fetching %s %d: %w", siren, year, err)
		}
		records = append(records, page...)
		if len(page) < c.cfg.PageSize {
			break
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s %d: %w", siren, year, ErrNoRecords)
	}
	c.log.Info("ledger fetched", zap.String("siren", siren), zap.Int("year", year), zap.Int("records", len(records)))
	return ledger.Lines(records), nil
}

func (c *Client) page(ctx context.Context, u string) ([]ledger.Record, error) {
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var page ledger.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", u, err)
	}
	return page.Results, nil
}

// get returns the body of a successful GET on u, throttled and cached by URL.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if cached, ok := c.pages.Get(u); ok {
		c.log.Debug("page cache hit", zap.String("url", u))
		return cached.([]byte), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u, err)
	}
	c.log.Debug("page fetched", zap.String("url", u),
		zap.Int("bytes", len(body)), zap.Duration("elapsed", time.Since(start)))

	c.pages.Set(u, body, cache.DefaultExpiration)
	return body, nil
}

// FetchYears fetches several years concurrently. Years without records are
// logged and left out; ErrNoRecords is returned only when every year is
// empty. Any other failure cancels the remaining requests.
func (c *Client) FetchYears(ctx context.Context, siren string, years []int) (map[int][]model.LedgerLine, error) {
	var mu sync.Mutex
	out := make(map[int][]model.LedgerLine, len(years))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for _, year := range years {
		g.Go(func() error {
			lines, err := c.FetchYear(ctx, siren, year)
			if errors.Is(err, ErrNoRecords) {
				c.log.Warn("no records for year", zap.String("siren", siren), zap.Int("year", year))
				return nil
			}
			if err != nil {
				return err
			}
			mu.Lock()
			out[year] = lines
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		sorted := append([]int(nil), years...)
		sort.Ints(sorted)
		return nil, fmt.Errorf("%s %v: %w", siren, sorted, ErrNoRecords)
	}
	return out, nil
}
