package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/dtree/internal/adapters/http"
	"github.com/aretw0/dtree/internal/metrics"
	"github.com/aretw0/dtree/internal/presentation/tui"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts a stateless HTTP server. POST a tree document to /evaluate or
/mermaid; Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := a.cfg.Addr
			if cmd.Flags().Changed("addr") {
				addr, _ = cmd.Flags().GetString("addr")
			}

			defaults, err := a.defaults()
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr: addr,
				Handler: httpAdapter.NewHandler(&httpAdapter.Server{
					Defaults: defaults,
					Metrics:  metrics.New(),
					Logger:   a.logger,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			if tui.IsTerminal(cmd.OutOrStdout()) {
				tui.PrintBanner(cmd.OutOrStdout())
			}

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				a.logger.Info("Starting dtree server", "addr", srv.Addr)
				serverErrors <- srv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(shutdown)

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("server error: %w", err)

			case sig := <-shutdown:
				a.logger.Info("Shutting down", "signal", sig.String())

				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					a.logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
					return srv.Close()
				}
				a.logger.Info("dtree server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().String("addr", "", "Address to listen on (default from DTREE_ADDR or :8080)")
	return cmd
}
