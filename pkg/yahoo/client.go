// Package yahoo implements the market data provider client. The provider is
// slow and rate-limited, so every request passes through a shared token
// bucket and transient failures are retried with backoff.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vettr/ingest-cli/internal/resilience"
)

const (
	quoteSummaryModules = "assetProfile,price,summaryDetail,financialData,defaultKeyStatistics"
	maxNewsItems        = 10
	maxOfficers         = 5
)

// Config configures the provider client.
type Config struct {
	BaseURL    string  `mapstructure:"base_url"`
	UserAgent  string  `mapstructure:"user_agent"`
	TimeoutSec int     `mapstructure:"timeout_secs"`
	RateLimit  float64 `mapstructure:"rate_limit"`
	Burst      int     `mapstructure:"burst"`
	MaxRetries int     `mapstructure:"max_retries"`
}

// Client fetches raw attribute bundles for symbols.
type Client struct {
	http    *http.Client
	cfg     Config
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// New creates a provider client with the given configuration.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query2.finance.yahoo.com"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "vettr-ingest/1.0"
	}
	if cfg.TimeoutSec == 0 {
		cfg.TimeoutSec = 30
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	retry := resilience.DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}
	retry.OnRetry = resilience.RetryLogger("yahoo", "fetch")

	return &Client{
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		retry:   retry,
	}
}

// Fetch returns the raw attribute bundle for a provider symbol. A symbol the
// provider does not know yields an empty Snapshot and a nil error; transport
// and upstream failures yield an error after retries are exhausted.
func (c *Client) Fetch(ctx context.Context, symbol string) (*Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "yahoo: rate limiter wait")
	}

	snap, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Snapshot, error) {
		return c.fetchSummary(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}

	// News powers a recency field only; a failed lookup is tolerated.
	if snap.HasPrice() {
		news, err := c.fetchNews(ctx, symbol)
		if err != nil {
			zap.L().Debug("news lookup failed", zap.String("symbol", symbol), zap.Error(err))
		} else {
			snap.News = news
		}
	}

	if len(snap.Officers) > maxOfficers {
		snap.Officers = snap.Officers[:maxOfficers]
	}
	return snap, nil
}

func (c *Client) fetchSummary(ctx context.Context, symbol string) (*Snapshot, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.cfg.BaseURL, url.PathEscape(symbol), url.QueryEscape(quoteSummaryModules))

	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	// The provider answers 404 for symbols it has no data for. That is a
	// valid "nothing here" response, not a failure.
	if status == http.StatusNotFound {
		return &Snapshot{}, nil
	}
	if status != http.StatusOK {
		err := eris.Errorf("yahoo: quote summary for %s: http %d", symbol, status)
		if resilience.IsTransientHTTPStatus(status) {
			return nil, resilience.NewTransientError(err, status)
		}
		return nil, err
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrapf(err, "yahoo: decode quote summary for %s", symbol)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return &Snapshot{}, nil
	}
	return toSnapshot(resp.QuoteSummary.Result[0]), nil
}

func (c *Client) fetchNews(ctx context.Context, symbol string) ([]NewsItem, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&newsCount=%d&quotesCount=0",
		c.cfg.BaseURL, url.QueryEscape(symbol), maxNewsItems)

	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("yahoo: news search for %s: http %d", symbol, status)
	}

	var resp newsSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrapf(err, "yahoo: decode news for %s", symbol)
	}
	if len(resp.News) > maxNewsItems {
		resp.News = resp.News[:maxNewsItems]
	}
	return resp.News, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, eris.Wrap(err, "yahoo: create request")
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, eris.Wrap(err, "yahoo: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, eris.Wrap(err, "yahoo: read response")
	}
	return body, resp.StatusCode, nil
}
