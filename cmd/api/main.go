package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soheilhy/cmux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/nyashahama/culture-guard/internal/ai"
	"github.com/nyashahama/culture-guard/internal/api"
	"github.com/nyashahama/culture-guard/internal/config"
	"github.com/nyashahama/culture-guard/internal/metrics"
)

func main() {
	// ── Logger ────────────────────────────────────────────────────────────────
	// JSON in production, pretty text in development.
	var logger *slog.Logger
	if os.Getenv("ENV") == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// ── Config ────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Info("config loaded", "env", cfg.Env, "port", cfg.Port)

	// Root context cancelled by OS signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── AI ────────────────────────────────────────────────────────────────────
	gen, closeGen, err := buildGenerator(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("ai: %w", err)
	}
	defer closeGen()

	collector := metrics.NewCollector()
	analyzer := ai.NewAnalyzer(gen, cfg.ProviderTimeout, collector, logger)

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.NewServer(
		analyzer,
		collector.Handler(),
		api.Config{RequestTimeout: cfg.RequestTimeout},
		logger,
	)

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// ── gRPC health ───────────────────────────────────────────────────────────
	// Orchestrators that probe over gRPC share the HTTP port via cmux.
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	mux := cmux.New(lis)
	grpcL := mux.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpL := mux.Match(cmux.Any())

	serverErr := make(chan error, 3)
	go func() {
		if err := grpcServer.Serve(grpcL); err != nil && !errors.Is(err, grpc.ErrServerStopped) && !errors.Is(err, cmux.ErrListenerClosed) {
			serverErr <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		if err := srv.Serve(httpL); err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, cmux.ErrListenerClosed) {
			serverErr <- fmt.Errorf("http: %w", err)
		}
	}()
	go func() {
		logger.Info("server listening", "addr", lis.Addr().String())
		if err := mux.Serve(); err != nil && !errors.Is(err, net.ErrClosed) {
			serverErr <- fmt.Errorf("cmux: %w", err)
		}
	}()

	// Block until either a signal arrives or a server dies unexpectedly.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	healthServer.Shutdown()

	// Give in-flight HTTP requests up to 20 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	grpcServer.GracefulStop()
	mux.Close()

	logger.Info("shutdown complete")
	return nil
}

// buildGenerator constructs a client for every provider with a usable key and
// chains them Gemini, then OpenAI-compatible, then Anthropic. It returns a nil
// Generator when no key is usable so the analyzer skips the AI path entirely.
func buildGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ai.Generator, func(), error) {
	var gens []ai.Generator
	closeFn := func() {}

	if ai.UsableKey(cfg.GeminiAPIKey) {
		g, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, closeFn, fmt.Errorf("gemini: %w", err)
		}
		gens = append(gens, g)
		closeFn = func() {
			if err := g.Close(); err != nil {
				logger.Warn("ai: gemini close failed", "error", err)
			}
		}
	}
	if ai.UsableKey(cfg.OpenAIAPIKey) {
		g, err := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModels)
		if err != nil {
			return nil, closeFn, fmt.Errorf("openai: %w", err)
		}
		gens = append(gens, g)
	}
	if ai.UsableKey(cfg.AnthropicAPIKey) {
		g, err := ai.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			return nil, closeFn, fmt.Errorf("anthropic: %w", err)
		}
		gens = append(gens, g)
	}

	switch len(gens) {
	case 0:
		logger.Warn("ai: no provider key configured, serving heuristic analysis only")
		return nil, closeFn, nil
	case 1:
		logger.Info("ai: using single provider", "provider", gens[0].Name())
		return gens[0], closeFn, nil
	default:
		chain := ai.NewFallbackGenerator(logger, gens...)
		logger.Info("ai: using provider chain", "providers", chain.Name())
		return chain, closeFn, nil
	}
}
