// Package registry fetches raw filing documents and structured facts
// payloads from an EDGAR-style disclosure registry. It is a collaborator of
// the analysis core: everything it returns arrives at the core pre-fetched,
// and the core itself performs no I/O.
package registry

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okazarov/attest/internal/cache"
	"github.com/okazarov/attest/internal/model"
	"github.com/okazarov/attest/internal/util"
	"github.com/okazarov/attest/internal/worker"
)

const fetchMaxRetries = 3

// sleepFunc is the sleep used between retries (injectable for tests)
var sleepFunc = time.Sleep

// Client fetches registry payloads with caching, per-domain rate limiting,
// and robots.txt politeness
type Client struct {
	httpClient     *http.Client
	userAgent      string
	maxBytes       int64
	baseURL        string
	archiveBaseURL string
	cache          cache.Cache
	limiter        *worker.Limiter
	robots         *util.RobotsChecker
	log            *logrus.Logger
}

// NewClient creates a registry client from configuration. cacheStore may be
// nil to disable caching.
func NewClient(cfg *model.Config, cacheStore cache.Cache, log *logrus.Logger) *Client {
	transport := &http.Transport{
		Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy),
	}
	if cfg.HTTP.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.HTTP.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:      cfg.HTTP.UserAgent,
		maxBytes:       cfg.HTTP.MaxBodyBytes,
		baseURL:        "https://data.sec.gov",
		archiveBaseURL: "https://www.sec.gov",
		cache:          cacheStore,
		limiter:        worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		robots:         util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout),
		log:            log,
	}
}

// CompanyFacts fetches the structured numeric-facts payload for a CIK
func (c *Client) CompanyFacts(ctx context.Context, cik string) ([]byte, error) {
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.baseURL, padCIK(cik))
	return c.fetch(ctx, url)
}

// LatestFiling fetches the primary document of the most recent filing of
// the given kind, returning its raw markup
func (c *Client) LatestFiling(ctx context.Context, cik string, kind model.FilingKind) (string, error) {
	subsURL := fmt.Sprintf("%s/submissions/CIK%s.json", c.baseURL, padCIK(cik))
	raw, err := c.fetch(ctx, subsURL)
	if err != nil {
		return "", fmt.Errorf("fetch submissions: %w", err)
	}

	accession, document, err := latestFilingRef(raw, kind.Form())
	if err != nil {
		return "", err
	}

	docURL := fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s",
		c.archiveBaseURL, strings.TrimLeft(padCIK(cik), "0"), strings.ReplaceAll(accession, "-", ""), document)
	body, err := c.fetch(ctx, docURL)
	if err != nil {
		return "", fmt.Errorf("fetch filing document: %w", err)
	}
	return string(body), nil
}

// fetch retrieves one URL through the cache, limiter, and robots layers,
// retrying transient failures with exponential backoff
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	key := cache.CacheKey(url)
	if c.cache != nil {
		if data, found := c.cache.Get(key); found {
			c.log.WithField("url", url).Debug("cache hit")
			return data, nil
		}
	}

	if allowed, delay, err := c.robots.CanFetch(ctx, url); err == nil && !allowed {
		return nil, fmt.Errorf("robots.txt disallows fetching %s", url)
	} else if delay > 0 {
		sleepFunc(delay)
	}

	var data []byte
	var err error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		if lerr := c.limiter.Wait(ctx, url); lerr != nil {
			return nil, fmt.Errorf("rate limit wait: %w", lerr)
		}
		data, err = c.fetchOnce(ctx, url)
		if err == nil {
			break
		}
		if !isRetryable(err) || attempt == fetchMaxRetries-1 {
			return nil, err
		}
		backoff := time.Duration(1<<uint(attempt)) * time.Second
		c.log.WithField("url", url).WithError(err).Warnf("fetch failed, retrying in %s", backoff)
		sleepFunc(backoff)
	}
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(key, data, 0)
	}
	return data, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return data, nil
}

// isRetryable reports whether the fetch failure looks transient
func isRetryable(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "status 5") ||
		strings.Contains(s, "status 429") ||
		strings.Contains(s, "timeout") ||
		strings.Contains(s, "connection refused") ||
		strings.Contains(s, "connection reset")
}

// padCIK left-pads a CIK to the 10 digits registry URLs require
func padCIK(cik string) string {
	cik = strings.TrimSpace(cik)
	for len(cik) < 10 {
		cik = "0" + cik
	}
	return cik
}
