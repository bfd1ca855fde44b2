package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction HTTP API and, with Redis enabled, job workers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		app, err := setup(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		log.Infof("Environment: %s", app.Config.Server.Environment)
		return app.Serve(ctx)
	},
}

func init() {
	f := serveCmd.Flags()
	f.Int("port", 8080, "HTTP listen port")
	f.String("host", "0.0.0.0", "HTTP listen host")
	_ = v.BindPFlag("server.port", f.Lookup("port"))
	_ = v.BindPFlag("server.host", f.Lookup("host"))
}
