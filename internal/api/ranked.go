package api

import (
	"context"
	"fmt"
	"mcsr-tracker/internal/config"
	"mcsr-tracker/internal/constants"
	"mcsr-tracker/internal/jsonvalue"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const userAgent = "mcsr-tracker/1.0"

type RankedClient struct {
	baseURL     string
	apiKey      string
	client      *fasthttp.Client
	logger      zerolog.Logger
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	// seconds until reset
	Reset int `json:"reset"`

	UpdatedAt time.Time `json:"updated_at"`
}

// FetchResult is one upstream exchange. Failures never surface as errors:
// a transport error leaves Status at 0 with the error text in Raw, and a
// body that is not JSON leaves Parsed null.
type FetchResult struct {
	URL    string          `json:"url"`
	OK     bool            `json:"ok"`
	Status int             `json:"status"`
	Raw    string          `json:"raw"`
	Parsed jsonvalue.Value `json:"parsed"`
}

// Usable reports whether the call succeeded with a JSON body.
func (r FetchResult) Usable() bool {
	return r.OK && !r.Parsed.IsNull()
}

func NewRankedClient(cfg *config.Config, logger zerolog.Logger) *RankedClient {
	return &RankedClient{
		baseURL: cfg.RankedBaseURL,
		apiKey:  cfg.RankedAPIKey,
		logger:  logger,
		client: &fasthttp.Client{
			Name:                userAgent,
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
			MaxResponseBodySize: constants.MaxUpstreamBodySize,
		},
	}
}

func (c *RankedClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RankedClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	seen := false
	if limit := string(resp.Header.Peek("X-Ratelimit-Limit")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
			seen = true
		}
	}
	if remaining := string(resp.Header.Peek("X-Ratelimit-Remaining")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
			seen = true
		}
	}
	if reset := string(resp.Header.Peek("X-Ratelimit-Reset")); reset != "" {
		if val, err := strconv.Atoi(reset); err == nil {
			c.rateLimit.Reset = val
			seen = true
		}
	}
	if seen {
		c.rateLimit.UpdatedAt = time.Now()
	}
}

func (c *RankedClient) UserURL(username string) string {
	return fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(username))
}

func (c *RankedClient) GetUser(ctx context.Context, username string) FetchResult {
	return c.fetch(ctx, c.UserURL(username))
}

func (c *RankedClient) GetMatch(ctx context.Context, matchID string) FetchResult {
	return c.fetch(ctx, fmt.Sprintf("%s/matches/%s", c.baseURL, url.PathEscape(matchID)))
}

func (c *RankedClient) GetRecentMatches(ctx context.Context, limit int) FetchResult {
	return c.fetch(ctx, fmt.Sprintf("%s/matches/recent?limit=%d", c.baseURL, limit))
}

func (c *RankedClient) fetch(ctx context.Context, target string) FetchResult {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("API-Key", c.apiKey)
	}

	result := FetchResult{URL: target}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		result.Raw = err.Error()
		return result
	}
	deadline, _ := ctx.Deadline()
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Warn().Err(err).Str("url", target).Msg("upstream request failed")
		result.Raw = err.Error()
		return result
	}

	c.updateRateLimit(resp)

	result.Status = resp.StatusCode()
	result.OK = result.Status >= 200 && result.Status < 300
	result.Raw = string(resp.Body())

	parsed, err := jsonvalue.Parse(resp.Body())
	if err != nil {
		c.logger.Debug().Err(err).Str("url", target).Int("status", result.Status).Msg("upstream body is not JSON")
	} else {
		result.Parsed = parsed
	}

	c.logger.Debug().
		Str("url", target).
		Int("status", result.Status).
		Int("bytes", len(result.Raw)).
		Dur("duration", time.Since(start)).
		Msg("upstream request completed")

	return result
}
