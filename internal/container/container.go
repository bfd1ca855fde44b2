package container

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"category/extractor/internal/client"
	"category/extractor/internal/config"
	httpDelivery "category/extractor/internal/delivery/http"
	"category/extractor/internal/extractor"
	"category/extractor/internal/proxy"
	"category/extractor/internal/queue"
	"category/extractor/internal/service"
	"category/extractor/internal/state"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Wikipedia client.WikipediaClient
	Retailer  client.RetailerClient
	Extractor *extractor.Extractor
	Queue     queue.Queue
	Jobs      state.JobStore
	Service   *service.Service

	redis *redis.Client
}

// New creates a new container with all dependencies initialized.
// Redis is only dialled when redis.enabled is set.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Retailer.Proxy)

	container.Wikipedia = client.NewWikipediaClient(cfg.Wikipedia)
	container.Retailer = client.NewRetailerClient(cfg.Retailer, proxySupplier)
	container.Extractor = extractor.New(
		container.Wikipedia,
		container.Retailer,
		ThresholdsFromConfig(cfg.Extraction),
		cfg.Retailer.Selectors,
	)

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.Redis.Host, strconv.Itoa(cfg.Redis.Port)),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		redisQueue, err := queue.NewRedisQueue(ctx, rdb, cfg.Redis)
		if err != nil {
			_ = rdb.Close()
			return nil, err
		}

		container.redis = rdb
		container.Queue = redisQueue
		container.Jobs = state.NewRedisJobStore(rdb, time.Duration(cfg.Redis.ResultTTL)*time.Second)
	} else {
		log.Info("ℹ️ Redis disabled, asynchronous jobs are unavailable")
	}

	container.Service = service.NewService(
		container.Extractor,
		container.Queue,
		container.Jobs,
		cfg.Redis.MinIdleTime,
	)

	return container, nil
}

func ThresholdsFromConfig(cfg config.ExtractionConfig) extractor.Thresholds {
	return extractor.Thresholds{
		Richness:           cfg.RichnessThreshold,
		CategoryConfidence: cfg.CategoryConfidence,
		ListConfidence:     cfg.ListConfidence,
		KeywordConfidence:  cfg.KeywordConfidence,
		PageConfidence:     cfg.PageConfidence,
		MaxDepth:           cfg.MaxDepth,
		ListSearchResults:  cfg.ListSearchResults,
		ListMinLinks:       cfg.ListMinLinks,
		KeywordMaxResults:  cfg.KeywordMaxResults,
		KeywordMaxLinks:    cfg.KeywordMaxLinks,
	}
}

// Serve runs the HTTP server, plus job workers when Redis is enabled,
// until ctx is cancelled or one of them fails.
func (c *Container) Serve(ctx context.Context) error {
	router := httpDelivery.SetupRouter(c.Config, httpDelivery.NewHandler(c.Service))
	server := &http.Server{
		Addr:              net.JoinHostPort(c.Config.Server.Host, strconv.Itoa(c.Config.Server.Port)),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("🛑 Shutting down server...")
		return server.Shutdown(shutdownCtx)
	})

	if c.Service.JobsEnabled() {
		g.Go(func() error {
			return c.Service.RunWorkers(ctx, c.Config.Extraction.Workers)
		})
	}

	return g.Wait()
}

// RunWorkers processes queued jobs only.
func (c *Container) RunWorkers(ctx context.Context) error {
	return c.Service.RunWorkers(ctx, c.Config.Extraction.Workers)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	var errs []error
	if c.Wikipedia != nil {
		if err := c.Wikipedia.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close knowledge-base client: %w", err))
		}
	}
	if c.Retailer != nil {
		if err := c.Retailer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close retailer client: %w", err))
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis client: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	log.Info("Container shut down successfully")
	return nil
}
