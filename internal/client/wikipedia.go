package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"category/extractor/internal/config"
	"category/extractor/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type WikipediaClient interface {
	PageExists(ctx context.Context, title string) (bool, error)
	CategoryMembers(ctx context.Context, title string) ([]domain.Member, error)
	Links(ctx context.Context, title string) ([]string, error)
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Close() error
}

type wikipediaClient struct {
	rl         ratelimit.Limiter
	apiURL     string
	maxItems   int
	httpClient *resty.Client

	// Circuit breaker for API throttling
	circuitBreakerMutex sync.RWMutex
	throttledUntil      time.Time
	circuitBreakerDelay time.Duration
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type apiTitle struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

type apiPage struct {
	PageID  int        `json:"pageid"`
	NS      int        `json:"ns"`
	Title   string     `json:"title"`
	Missing bool       `json:"missing"`
	Invalid bool       `json:"invalid"`
	Links   []apiTitle `json:"links"`
}

type apiResponse struct {
	Continue map[string]string `json:"continue"`
	Error    *apiError         `json:"error"`
	Query    struct {
		Pages           []apiPage  `json:"pages"`
		CategoryMembers []apiTitle `json:"categorymembers"`
		Search          []apiTitle `json:"search"`
	} `json:"query"`
}

func NewWikipediaClient(cfg config.WikipediaConfig) WikipediaClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &wikipediaClient{
		rl:                  rl,
		apiURL:              cfg.APIURL,
		maxItems:            cfg.MaxItems,
		httpClient:          client,
		circuitBreakerDelay: time.Duration(cfg.Cooldown) * time.Second,
	}
}

func (c *wikipediaClient) PageExists(ctx context.Context, title string) (bool, error) {
	resp, err := c.query(ctx, map[string]string{
		"titles": title,
	})
	if err != nil {
		return false, fmt.Errorf("failed to look up %q: %w", title, err)
	}

	if len(resp.Query.Pages) == 0 {
		return false, nil
	}
	page := resp.Query.Pages[0]
	return !page.Missing && !page.Invalid, nil
}

func (c *wikipediaClient) CategoryMembers(ctx context.Context, title string) ([]domain.Member, error) {
	var members []domain.Member

	err := c.paginate(ctx, map[string]string{
		"list":    "categorymembers",
		"cmtitle": title,
		"cmprop":  "title|ns",
		"cmlimit": "500",
	}, func(resp *apiResponse) int {
		for _, m := range resp.Query.CategoryMembers {
			members = append(members, domain.Member{Title: m.Title, Namespace: domain.Namespace(m.NS)})
		}
		return len(members)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list members of %q: %w", title, err)
	}

	log.Debugf("Fetched %d members of %s", len(members), title)
	return members, nil
}

func (c *wikipediaClient) Links(ctx context.Context, title string) ([]string, error) {
	var links []string
	missing := false

	err := c.paginate(ctx, map[string]string{
		"prop":    "links",
		"titles":  title,
		"pllimit": "max",
	}, func(resp *apiResponse) int {
		for _, page := range resp.Query.Pages {
			if page.Missing || page.Invalid {
				missing = true
				continue
			}
			for _, l := range page.Links {
				links = append(links, l.Title)
			}
		}
		return len(links)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list links of %q: %w", title, err)
	}
	if missing {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, title)
	}

	log.Debugf("Fetched %d links of %s", len(links), title)
	return links, nil
}

func (c *wikipediaClient) Search(ctx context.Context, query string, limit int) ([]string, error) {
	resp, err := c.query(ctx, map[string]string{
		"list":     "search",
		"srsearch": query,
		"srlimit":  strconv.Itoa(limit),
		"srprop":   "",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		titles = append(titles, hit.Title)
	}

	log.Debugf("Search %q returned %d titles", query, len(titles))
	return titles, nil
}

func (c *wikipediaClient) Close() error {
	return c.httpClient.Close()
}

// paginate follows MediaWiki continuation until the listing ends or the
// collected count reaches maxItems. collect returns the running total.
func (c *wikipediaClient) paginate(ctx context.Context, params map[string]string, collect func(*apiResponse) int) error {
	next := make(map[string]string, len(params))
	for k, v := range params {
		next[k] = v
	}

	for {
		resp, err := c.query(ctx, next)
		if err != nil {
			return err
		}

		total := collect(resp)
		if len(resp.Continue) == 0 {
			return nil
		}
		if c.maxItems > 0 && total >= c.maxItems {
			log.Debugf("Stopping continuation at %d items", total)
			return nil
		}

		for k, v := range resp.Continue {
			next[k] = v
		}
	}
}

func (c *wikipediaClient) query(ctx context.Context, params map[string]string) (*apiResponse, error) {
	if c.isCircuitBreakerOpen() {
		remaining := c.getRemainingCircuitBreakerTime()
		log.Debugf("🚫 Request blocked by circuit breaker. Remaining time: %v", remaining.Round(time.Second))
		return nil, fmt.Errorf("%w: requests disabled for %v more", domain.ErrCircuitOpen, remaining.Round(time.Second))
	}

	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":        "query",
			"format":        "json",
			"formatversion": "2",
		}).
		SetQueryParams(params).
		Get(c.apiURL)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		c.triggerCircuitBreaker()
		return nil, fmt.Errorf("%w: HTTP error: %d %s", domain.ErrSourceUnavailable, resp.StatusCode(), resp.Status())
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: HTTP error: %d %s", domain.ErrSourceUnavailable, resp.StatusCode(), resp.Status())
	}

	var body apiResponse
	if err := json.Unmarshal([]byte(resp.String()), &body); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}

	if body.Error != nil {
		if body.Error.Code == "ratelimited" || body.Error.Code == "maxlag" {
			c.triggerCircuitBreaker()
		}
		return nil, fmt.Errorf("%w: API error %s: %s", domain.ErrSourceUnavailable, body.Error.Code, body.Error.Info)
	}

	return &body, nil
}

func (c *wikipediaClient) isCircuitBreakerOpen() bool {
	c.circuitBreakerMutex.RLock()
	now := time.Now()
	wasOpen := now.Before(c.throttledUntil)
	wasTriggered := !c.throttledUntil.IsZero()
	c.circuitBreakerMutex.RUnlock()

	if !wasOpen && wasTriggered {
		c.circuitBreakerMutex.Lock()
		if !c.throttledUntil.IsZero() && !now.Before(c.throttledUntil) {
			c.throttledUntil = time.Time{}
			log.Infof("✅ Circuit breaker automatically re-enabled - requests are now allowed")
		}
		c.circuitBreakerMutex.Unlock()
	}

	return wasOpen
}

func (c *wikipediaClient) triggerCircuitBreaker() {
	if c.circuitBreakerDelay <= 0 {
		return
	}

	c.circuitBreakerMutex.Lock()
	defer c.circuitBreakerMutex.Unlock()

	c.throttledUntil = time.Now().Add(c.circuitBreakerDelay)
	log.Warnf("🚫 Circuit breaker activated! Knowledge-base requests disabled until %v",
		c.throttledUntil.Format("15:04:05"))
}

func (c *wikipediaClient) getRemainingCircuitBreakerTime() time.Duration {
	c.circuitBreakerMutex.RLock()
	defer c.circuitBreakerMutex.RUnlock()

	remaining := time.Until(c.throttledUntil)
	if remaining < 0 {
		return 0
	}
	return remaining
}
