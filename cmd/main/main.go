package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"category/extractor/internal/config"
	"category/extractor/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Extract product names for a category path",
	Long: `Extract product names for a 1-3 level category path by cascading
through the Wikipedia category tree, Wikipedia keyword search and an
optional retailer page.

Examples:
  extractor extract --main Fruit --sub Citrus
  extractor extract --main Electronics --retailer-url https://shop.example/electronics
  extractor serve --port 8080
  extractor worker`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(extractCmd, serveCmd, workerCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, applies logging settings and builds the container.
func setup(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := configureLogging(cfg.Log); err != nil {
		return nil, err
	}
	log.Debug("Configuration loaded successfully")

	app, err := container.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}
	return app, nil
}

func configureLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	log.SetOutput(os.Stderr)
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
