package market

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"flowerboard/internal"
	"flowerboard/internal/config"
)

const snippetLen = 200

// Snapshot is one immutable price book together with where and when it was fetched.
type Snapshot struct {
	ID        string
	FetchedAt time.Time
	Source    internal.PriceSource
	Book      internal.PriceBook
}

// Feed produces price book snapshots.
type Feed interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// StatusError reports a non-2xx response from an upstream feed.
type StatusError struct {
	Source     internal.PriceSource
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s prices fetch failed: status %d", e.Source, e.StatusCode)
}

// Client resolves the price book from the private feed when configured,
// falling back to the public feed.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

func NewClient(cfg config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.FeedTimeout()},
		logger:     logger,
		now:        time.Now,
	}
}

func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	if book, ok := c.fetchPrivate(ctx); ok {
		return c.snapshot(internal.SourcePrivate, book), nil
	}

	book, err := c.fetchPublic(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return c.snapshot(internal.SourcePublic, book), nil
}

// fetchPrivate reports ok=false whenever the private feed is unconfigured,
// unreachable, malformed or empty.
func (c *Client) fetchPrivate(ctx context.Context) (internal.PriceBook, bool) {
	base := strings.TrimSpace(c.cfg.PrivateAPIBase)
	if base == "" {
		return nil, false
	}

	endpoint := strings.TrimRight(base, "/") + "/resources"
	body, err := c.get(ctx, internal.SourcePrivate, endpoint, c.cfg.PrivateAPIToken)
	if err != nil {
		c.logger.Warn("private price feed unavailable", "url", endpoint, "err", err)
		return nil, false
	}

	book, err := DecodeResources(body)
	if err != nil {
		c.logger.Warn("private price feed unparseable", "url", endpoint, "err", err, "snippet", snippet(body))
		return nil, false
	}
	if len(book) == 0 {
		c.logger.Debug("private price feed returned no usable entries", "url", endpoint)
		return nil, false
	}
	return book, true
}

func (c *Client) fetchPublic(ctx context.Context) (internal.PriceBook, error) {
	u, err := url.Parse(c.publicURL())
	if err != nil {
		return nil, fmt.Errorf("parse public prices url: %w", err)
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(c.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, internal.SourcePublic, u.String(), "")
	if err != nil {
		return nil, err
	}

	decoded, err := DecodePublic(body)
	if err != nil {
		c.logger.Error("public price feed is not JSON", "err", err, "snippet", snippet(body))
		return internal.PriceBook{}, nil
	}
	if decoded.Shape == ShapeUnknown {
		c.logger.Warn("unknown public price feed shape", "keys", decoded.Keys, "snippet", snippet(body))
		return internal.PriceBook{}, nil
	}

	c.logger.Debug("public price feed decoded", "shape", decoded.Shape.String(), "items", len(decoded.Book))
	return decoded.Book, nil
}

func (c *Client) get(ctx context.Context, source internal.PriceSource, endpoint, token string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br, gzip")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s prices request: %w", source, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("%s prices read body: %w", source, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Source: source, StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}

func (c *Client) publicURL() string {
	if u := strings.TrimSpace(c.cfg.PublicPricesURL); u != "" {
		return u
	}
	return config.DefaultPublicPricesURL
}

func (c *Client) snapshot(source internal.PriceSource, book internal.PriceBook) Snapshot {
	return Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: c.now().UTC(),
		Source:    source,
		Book:      book,
	}
}

func snippet(body []byte) string {
	r := []rune(string(body))
	if len(r) > snippetLen {
		r = r[:snippetLen]
	}
	return string(r)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
