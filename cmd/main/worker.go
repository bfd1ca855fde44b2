package main

import (
	"errors"

	"category/extractor/internal/domain"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Process queued extraction jobs from Redis",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.RunWorkers(ctx); err != nil {
			if errors.Is(err, domain.ErrJobsDisabled) {
				return errors.New("workers need redis.enabled=true")
			}
			return err
		}

		log.Info("Workers finished")
		return nil
	},
}
