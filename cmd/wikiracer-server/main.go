package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cametumbling/wikiracer/internal/config"
	"github.com/cametumbling/wikiracer/internal/ingress"
	"github.com/cametumbling/wikiracer/internal/linkcache"
	"github.com/cametumbling/wikiracer/internal/links"
	"github.com/cametumbling/wikiracer/internal/logging"
	"github.com/cametumbling/wikiracer/internal/racer"
	"github.com/cametumbling/wikiracer/internal/wikihttp"
	"github.com/cametumbling/wikiracer/internal/wikiparse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cache := buildCache(cfg, logger)

	fetcher := wikihttp.New(wikihttp.Config{
		Prefix:    cfg.WikiPrefix,
		Timeout:   cfg.FetchTimeout,
		FetchGate: cfg.FetchGate,
		Logger:    logger,
	})

	provider := links.New(cache, fetcher, wikiparse.Extract, logger)

	engine := racer.New(provider, fetcher, racer.Config{
		InFlightGate: cfg.InFlightGate,
		Logger:       logger,
	})

	server := ingress.NewServer(ingress.Config{
		Racer:          engine,
		Logger:         logger,
		RequestTimeout: cfg.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ListenPort),
		Handler: server.Router(),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.Int("port", cfg.ListenPort))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("received signal, shutting down gracefully", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown timeout exceeded, forcing exit", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("shutdown complete")
	}
}

// buildCache wires a RedisStore when a Redis instance is reachable,
// falling back to an in-process MemStore otherwise. Either way the
// search never depends on the cache being present.
func buildCache(cfg *config.Config, logger *zap.Logger) linkcache.Store {
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr()})

	pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, falling back to in-process cache",
			zap.String("addr", cfg.RedisAddr()), zap.Error(err))
		return linkcache.NewMemStore(cfg.MemCacheEntries)
	}

	logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr()))
	return linkcache.NewRedisStore(client, logger)
}
