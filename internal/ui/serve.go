package ui

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayplan/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API over the local database",
		Long: `Serve events, goals and tasks as a JSON API.

The server always uses the local database (storage.db_path). Point other
dayplan clients at it with --api or client.api_url.`,
		Example: `  dayplan serve
  dayplan serve --listen :8080
  PORT=8080 dayplan serve`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if a.debug {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			store, err := a.openDatabase()
			if err != nil {
				return err
			}
			a.closer = store

			cfg := a.config.Server
			if listen != "" {
				cfg.Listen = listen
			}
			log.Info("opened database", "path", a.config.Storage.DBPath)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.New(store, cfg, log).Run(ctx); err != nil {
				return fmt.Errorf("serving: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address, overrides server.listen")

	return cmd
}
