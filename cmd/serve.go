package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/careerpath/internal/adapters/http/api"
	"github.com/okian/careerpath/internal/adapters/http/swagger"
	service "github.com/okian/careerpath/internal/app"
	"github.com/okian/careerpath/internal/config"
	"github.com/okian/careerpath/pkg/logger"
	"github.com/okian/careerpath/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd)
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides addr from config)")
	return cmd
}

// serve listens immediately and builds the index in the background; catalog
// routes answer 503 until the service is ready. A failed build stops the
// server.
func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Named("main")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	svc, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Stop()

	startErr := make(chan error, 1)
	go func() {
		if err := svc.Start(ctx); err != nil {
			startErr <- err
			cancel()
			return
		}
		go startServiceMetricsUpdater(ctx, svc)
	}()

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	apiServer := api.NewServer(svc, svc, cfg.MaxTopN)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           apiServer.Handler(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	// Wait for shutdown signal or a fatal error.
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")

	select {
	case err := <-startErr:
		return fmt.Errorf("start service: %w", err)
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

// startServiceMetricsUpdater refreshes gauges that are not updated on the
// request path.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	if n, ok := stats["embedQueueLength"].(int); ok {
		metrics.UpdateEmbedQueueSize(n)
	}
	if n, ok := stats["careers"].(int); ok {
		metrics.UpdateCatalogRecords(n)
	}
	metrics.SetReady(svc.Ready())
	metrics.UpdateGoroutines(runtime.NumGoroutine())
}
