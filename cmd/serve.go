package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohammedmostain/road-surface-classification/internal/config"
	"github.com/Mohammedmostain/road-surface-classification/internal/dataset"
	"github.com/Mohammedmostain/road-surface-classification/internal/handlers"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP review server",
		Long: `Starts an HTTP API on the specified port for sorting and reviewing images
from another client, and for camera capture jobs to upload new frames.

The server holds the dataset lock while it runs, so terminal sort or review
sessions cannot change the dataset underneath it.`,
		Example: `  # Start server on default port 8888
  roadsort serve

  # Start server on custom port
  roadsort serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			if port == "" {
				port = cfg.Server.Port
			}

			lock, err := dataset.AcquireLock(cfg.DatasetDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					slog.Error("Failed to release dataset lock", "error", err)
				}
			}()

			handler, err := handlers.New(cfg)
			if err != nil {
				return err
			}

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Roadsort API available", "addr", addr, "url", "http://localhost"+addr, "source", cfg.SourceDir, "dataset", cfg.DatasetDir)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (defaults to server.port)")

	return cmd
}
