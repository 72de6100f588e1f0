package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/raftai/engine/infrastructure/httpapi"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analysis engine as an HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(v)

			service, err := buildService(config, logger, newMetrics())
			if err != nil {
				return err
			}

			addr := v.GetString("addr")
			server := &http.Server{
				Addr:              addr,
				Handler:           httpapi.NewServer(service, logger).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("http server listening", "addr", addr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-ctx.Done():
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = v.BindPFlag("addr", cmd.Flags().Lookup("addr"))

	return cmd
}
