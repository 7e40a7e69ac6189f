package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"kuanb/gosm-geo/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the distance, convert and contains operations over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// RuntimeMetrics holds memory and goroutine statistics
type RuntimeMetrics struct {
	Goroutines  int
	AllocMB     float64
	SysMB       float64
	HeapObjects uint64
	NumGC       uint32
}

func getRuntimeMetrics() RuntimeMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return RuntimeMetrics{
		Goroutines:  runtime.NumGoroutine(),
		AllocMB:     float64(m.Alloc) / 1024 / 1024,
		SysMB:       float64(m.Sys) / 1024 / 1024,
		HeapObjects: m.HeapObjects,
		NumGC:       m.NumGC,
	}
}

// startMetricsLogger logs runtime statistics every interval until ctx is done
func startMetricsLogger(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m := getRuntimeMetrics()
				logger.Info().
					Int("goroutines", m.Goroutines).
					Float64("alloc_mb", m.AllocMB).
					Float64("sys_mb", m.SysMB).
					Uint64("heap_objects", m.HeapObjects).
					Uint32("gc_cycles", m.NumGC).
					Msg("Runtime metrics")
			}
		}
	}()
}

func runServe(cmd *cobra.Command, args []string) error {
	unit, err := cfg.Geo.Unit()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(logger, api.Options{
		DefaultUnit:        unit,
		Strict:             cfg.Geo.Strict,
		MaxPolygonVertices: cfg.Geo.MaxPolygonVertices,
		Metrics:            cfg.Metrics.Enabled,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled && cfg.Metrics.LogInterval > 0 {
		startMetricsLogger(ctx, cfg.Metrics.LogInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("default_unit", unit.Symbol()).
			Bool("strict", cfg.Geo.Strict).
			Msg("Listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
