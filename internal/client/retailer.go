package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"category/extractor/internal/config"
	"category/extractor/internal/domain"
	"category/extractor/internal/proxy"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

type RetailerClient interface {
	FetchPage(ctx context.Context, pageURL string) (string, error)
	ExtractTexts(html string, selectors []string) ([]string, error)
	Close() error
}

type retailerClient struct {
	httpClient    *resty.Client
	parser        *pageParser
	proxySupplier proxy.ProxySupplier
	proxyMutex    sync.Mutex
}

func NewRetailerClient(cfg config.RetailerConfig, proxySupplier proxy.ProxySupplier) RetailerClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.5")

	if proxySupplier != nil {
		if proxyURL := proxySupplier.Get(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using initial proxy: %s", proxyURL)
		}
	}

	return &retailerClient{
		httpClient:    client,
		parser:        newPageParser(),
		proxySupplier: proxySupplier,
	}
}

func (c *retailerClient) FetchPage(ctx context.Context, pageURL string) (string, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(pageURL)

	if err != nil {
		c.rotateProxy()
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("%w: failed to fetch URL: %v", domain.ErrSourceUnavailable, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("%w: HTTP error: %d %s", domain.ErrSourceUnavailable, resp.StatusCode(), resp.Status())
	}

	html := resp.String()
	log.Debugf("Fetched %d bytes from %s", len(html), pageURL)
	return html, nil
}

func (c *retailerClient) ExtractTexts(html string, selectors []string) ([]string, error) {
	return c.parser.ExtractTexts(html, selectors)
}

func (c *retailerClient) Close() error {
	return c.httpClient.Close()
}

// rotateProxy moves subsequent fetches to the next proxy after a transport failure.
func (c *retailerClient) rotateProxy() {
	if c.proxySupplier == nil {
		return
	}

	c.proxyMutex.Lock()
	defer c.proxyMutex.Unlock()

	if newProxy := c.proxySupplier.Get(); newProxy != "" {
		log.Infof("🔄 Switching to new proxy: %s", newProxy)
		c.httpClient.SetProxy(newProxy)
	}
}
