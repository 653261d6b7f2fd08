package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/codewithboateng/speclint/internal/api"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs, rules and waivers over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(".")
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.API.Addr
			}
			ttl := 12 * time.Hour
			if cfg.API.SessionTTL != "" {
				if ttl, err = time.ParseDuration(cfg.API.SessionTTL); err != nil {
					return configError(fmt.Errorf("api.session_ttl: %w", err))
				}
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			s := &api.Server{
				DB:              db,
				UserStore:       db,
				Logger:          zap.L(),
				AllowedOrigins:  cfg.API.AllowedOrigins,
				SessionDuration: ttl,
				RateLimit:       cfg.API.RateLimit,
				Burst:           cfg.API.Burst,
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           s.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			errCh := make(chan error, 1)
			go func() {
				zap.L().Info("api listening", zap.String("addr", addr), zap.String("db", cfg.Database.DSN))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			zap.L().Info("api shutting down")
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides api.addr)")
	return cmd
}
