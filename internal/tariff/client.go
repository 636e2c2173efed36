// Package tariff is the client for the upstream trade-tariff API: commodity
// classification, search, measures and duties.
//
// Each call is a single GET bounded by the client timeout. There is no
// retry; rejections come back as the sentinel errors in errors.go.
package tariff

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 4 << 20

// commoditiesPath prefixes the commodity endpoint.
const commoditiesPath = "commodities/"

// Client calls the trade-tariff API.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call. Zero leaves calls bounded only by ctx.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tariff api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("tariff api url %q is not absolute", baseURL)
	}

	c := &Client{
		base:   u,
		http:   http.DefaultClient,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Commodity returns the classification of code, including its additional
// codes for the given trade.
func (c *Client) Commodity(ctx context.Context, code string, q Query) (*Commodity, error) {
	var out Commodity
	if err := c.get(ctx, commoditiesPath+url.PathEscape(code), q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CommodityExists reports whether the upstream knows code.
func (c *Client) CommodityExists(ctx context.Context, code string) (bool, error) {
	_, err := c.Commodity(ctx, code, Query{})
	if errors.Is(err, ErrCommodityNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Search runs one step of the classification search.
func (c *Client) Search(ctx context.Context, sq SearchQuery) (*SearchResult, error) {
	v := url.Values{}
	setIf(v, "term", sq.Term)
	setIf(v, "heading", sq.Heading)
	setIf(v, "subheading", sq.Subheading)
	setIf(v, "suffix", sq.SubheadingSuffix)

	var out SearchResult
	if err := c.get(ctx, "search", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Measures returns the regulatory measures for a trade.
func (c *Client) Measures(ctx context.Context, q Query) (*Measures, error) {
	var out Measures
	if err := c.get(ctx, "measures", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Duties returns the tariff and tax lines for a trade.
func (c *Client) Duties(ctx context.Context, q Query) (*Duties, error) {
	var out Duties
	if err := c.get(ctx, "duties", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, rel string, query url.Values, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := *c.base
	u.Path = path.Join(u.Path, rel)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("tariff api call failed", zap.String("path", rel), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	c.logger.Debug("tariff api call",
		zap.String("path", rel),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, rel, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUpstream, rel, err)
	}
	return nil
}

// statusError turns a non-200 response into a rejection when the body
// names one, and into a StatusError otherwise. A bare 404 from the
// commodity endpoint means the commodity is unknown.
func statusError(status int, rel string, body []byte) error {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		for _, e := range eb.Errors {
			if rej, ok := rejectionCodes[e.Code]; ok {
				return rej
			}
		}
	}
	if status == http.StatusNotFound && strings.HasPrefix(rel, commoditiesPath) {
		return ErrCommodityNotFound
	}
	return &StatusError{Status: status, Path: rel}
}

func (q Query) values() url.Values {
	v := url.Values{}
	setIf(v, "commodity", q.Commodity)
	setIf(v, "originCountry", q.OriginCountry)
	setIf(v, "destinationCountry", q.DestinationCountry)
	setIf(v, "tradeType", q.TradeType)
	setIf(v, "date", q.Date)
	setIf(v, "additionalCode", q.AdditionalCode)
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
