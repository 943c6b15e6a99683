package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantora/marketlens/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		server := api.NewServer(a.cfg, a.log, api.RouterDeps{
			DB:           a.db,
			Cache:        a.cache,
			Summaries:    a.summaries,
			Fundamentals: a.fundamentals,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			a.log.WithField("signal", sig.String()).Info("Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
