package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/squareeyes/backend/pkg/config"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/logger"
	"github.com/squareeyes/backend/pkg/metrics"
)

const (
	sourcePrimary  = "primary"
	sourceFallback = "fallback"
)

// Client fetches and normalizes the product catalog. The three collections
// (all, movies, series) are cached after the first successful fetch and
// served from memory for the remainder of the process lifetime.
type Client struct {
	cfg     config.CatalogConfig
	http    *http.Client
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics

	mu     sync.Mutex
	all    []Product
	movies []Product
	series []Product
	warm   bool
}

// NewClient builds a catalog client. The HTTP client timeout bounds every
// outbound request (primary and by-id).
func NewClient(cfg config.CatalogConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog base URL is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		logg:    logg,
		metrics: m,
	}, nil
}

// PingPrimary checks that the primary catalog endpoint answers at all. Any
// HTTP response counts as reachable; server-side errors still mean the host
// is up and the fallback file covers actual outages.
func (c *Client) PingPrimary(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.cfg.BaseURL, nil)
	if err != nil {
		return fmt.Errorf("build catalog ping request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catalog primary unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// envelope accepts any of the three shapes the upstream catalog is known to
// return: {data: [...]}, {movies: [...], series: [...]}, or a bare array.
type envelope struct {
	Data   []json.RawMessage `json:"data"`
	Movies []json.RawMessage `json:"movies"`
	Series []json.RawMessage `json:"series"`
}

// normalize flattens a response body into one raw-record sequence.
func normalize(body []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var records []json.RawMessage
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("decode catalog array: %w", err)
		}
		return records, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode catalog envelope: %w", err)
	}
	if env.Data != nil {
		return env.Data, nil
	}
	if env.Movies != nil || env.Series != nil {
		records := make([]json.RawMessage, 0, len(env.Movies)+len(env.Series))
		records = append(records, env.Movies...)
		records = append(records, env.Series...)
		return records, nil
	}
	return nil, fmt.Errorf("catalog response matches none of the known shapes")
}

// transformAll converts raw records independently; a record that fails to
// transform is dropped and logged, never aborting the batch.
func (c *Client) transformAll(ctx context.Context, records []json.RawMessage) []Product {
	products := make([]Product, 0, len(records))
	for _, raw := range records {
		p, err := transform(raw)
		if err != nil {
			c.logg.Warn(ctx, fmt.Sprintf("dropping malformed catalog record: %v", err))
			continue
		}
		products = append(products, p)
	}
	return products
}

func (c *Client) fetchPrimary(ctx context.Context) ([]Product, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncFetchOutcome(sourcePrimary, "failure")
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncFetchOutcome(sourcePrimary, "failure")
		return nil, fmt.Errorf("catalog request: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFetchOutcome(sourcePrimary, "failure")
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	records, err := normalize(body)
	if err != nil {
		c.metrics.IncFetchOutcome(sourcePrimary, "failure")
		return nil, err
	}

	c.metrics.ObserveFetchDuration(sourcePrimary, time.Since(start))
	c.metrics.IncFetchOutcome(sourcePrimary, "success")
	return c.transformAll(ctx, records), nil
}

func (c *Client) fetchFallback(ctx context.Context) ([]Product, error) {
	if c.cfg.FallbackPath == "" {
		return nil, fmt.Errorf("no fallback source configured")
	}
	body, err := os.ReadFile(c.cfg.FallbackPath)
	if err != nil {
		c.metrics.IncFetchOutcome(sourceFallback, "failure")
		return nil, fmt.Errorf("read fallback catalog: %w", err)
	}
	records, err := normalize(body)
	if err != nil {
		c.metrics.IncFetchOutcome(sourceFallback, "failure")
		return nil, err
	}
	c.metrics.IncFetchOutcome(sourceFallback, "success")
	return c.transformAll(ctx, records), nil
}

// All returns the full normalized catalog, fetching it on first use.
// A primary failure falls back once to the local source; when both fail the
// returned dependency error carries both causes.
func (c *Client) All(ctx context.Context) ([]Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.warm {
		return c.all, nil
	}

	products, primaryErr := c.fetchPrimary(ctx)
	if primaryErr != nil {
		ctx = c.logg.WithSource(ctx, sourcePrimary)
		c.logg.Warn(ctx, fmt.Sprintf("primary catalog fetch failed, trying fallback: %v", primaryErr))

		var fallbackErr error
		products, fallbackErr = c.fetchFallback(ctx)
		if fallbackErr != nil {
			return nil, pkgerrors.Wrap(
				pkgerrors.CodeDependency,
				multierr.Append(primaryErr, fallbackErr),
				"failed to load products from primary and fallback sources",
			)
		}
	}

	c.all = products
	c.movies = filterByKind(products, KindMovie)
	c.series = filterByKind(products, KindSeries)
	c.warm = true
	return c.all, nil
}

// Movies returns the cached movie subset, warming the catalog if needed.
func (c *Client) Movies(ctx context.Context) ([]Product, error) {
	if _, err := c.All(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.movies, nil
}

// Series returns the cached series subset, warming the catalog if needed.
func (c *Client) Series(ctx context.Context) ([]Product, error) {
	if _, err := c.All(ctx); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.series, nil
}

// ByKind returns the cached subset for the given section.
func (c *Client) ByKind(ctx context.Context, kind Kind) ([]Product, error) {
	if kind == KindSeries {
		return c.Series(ctx)
	}
	return c.Movies(ctx)
}

// ByID fetches a single product from the per-resource endpoint. This is an
// independent request with no cache and no fallback.
func (c *Client) ByID(ctx context.Context, id string) (*Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build product request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load product")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("failed to load product: unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product response")
	}

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product response")
	}

	p, err := transform(env.Data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product record is unparsable")
	}
	return &p, nil
}

// ClearCache resets all three cached collections so the next call fetches
// from the network again.
func (c *Client) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = nil
	c.movies = nil
	c.series = nil
	c.warm = false
}
