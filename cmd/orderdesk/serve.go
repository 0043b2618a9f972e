// Serve command: attach the store, mount the REST API, and run until
// interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/orderdesk/internal/httpapi"
	"github.com/mesh-intelligence/orderdesk/internal/service"
	"github.com/mesh-intelligence/orderdesk/internal/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the orderdesk API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		backend := sqlite.NewBackend()
		if err := backend.Attach(cfg); err != nil {
			return fmt.Errorf("attach store: %w", err)
		}
		defer backend.Detach()

		services := service.New(backend)
		handler := httpapi.NewHandler(services, cfg.RequestTimeout)

		server := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: handler.Mux(),
		}

		errCh := make(chan error, 1)
		go func() {
			log.Printf("listening on %s (data dir %s)", cfg.ListenAddr, cfg.DataDir)
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
				return
			}
			errCh <- nil
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			log.Printf("received %s, shutting down", sig)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errCh
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListenAddr, "listen", "", "listen address (default: config listen_addr)")
}
