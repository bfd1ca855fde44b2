package proxy

import (
	"context"
	"sync"
	"time"

	"category/extractor/internal/config"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

// ProxySupplier hands out proxies in round-robin order
type ProxySupplier interface {
	Get() string
	Len() int
}

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier builds a supplier from the configured proxies. When a
// validation URL is configured only proxies that can reach it are kept.
func NewProxySupplier(ctx context.Context, cfg config.ProxyConfig) ProxySupplier {
	if len(cfg.URLs) == 0 || cfg.ValidateURL == "" {
		return &proxySupplier{proxies: append([]string(nil), cfg.URLs...)}
	}

	log.Infof("🔄 Testing %d proxies in parallel...", len(cfg.URLs))

	working := make([]bool, len(cfg.URLs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(50)

	for i, proxyURL := range cfg.URLs {
		g.Go(func() error {
			if isProxyValid(ctx, proxyURL, cfg.ValidateURL, time.Duration(cfg.ValidateTimeout)*time.Second) {
				working[i] = true
				log.Infof("✅ Proxy %s is working", proxyURL)
			} else {
				log.Infof("❌ Proxy %s is not working, skipping", proxyURL)
			}
			return nil
		})
	}
	_ = g.Wait()

	validProxies := make([]string, 0, len(cfg.URLs))
	for i, ok := range working {
		if ok {
			validProxies = append(validProxies, cfg.URLs[i])
		}
	}

	log.Infof("✅ ProxySupplier initialized with %d working proxies out of %d tested", len(validProxies), len(cfg.URLs))

	return &proxySupplier{proxies: validProxies}
}

// Get returns the next proxy URL, or "" when none are available
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)

	return proxy
}

func (p *proxySupplier) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.proxies)
}

func isProxyValid(ctx context.Context, proxyURL, testURL string, timeout time.Duration) bool {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetProxy(proxyURL)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Get(testURL)

	if err != nil {
		log.Debugf("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}

	if resp.IsError() {
		log.Debugf("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}

	return true
}
