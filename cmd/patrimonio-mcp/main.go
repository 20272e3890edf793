package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neviim/mcppatrimonio/pkg/config"
	"github.com/neviim/mcppatrimonio/pkg/mcp"
	"github.com/neviim/mcppatrimonio/pkg/mcp/auth"
	"github.com/neviim/mcppatrimonio/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrapLogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
		bootstrapLogger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	logger.Info("starting server",
		slog.String("name", mcp.AppName),
		slog.String("version", mcp.AppVersion),
		slog.String("transport", cfg.TransportMode),
		slog.String("base_url", cfg.BaseURL),
		slog.String("token", config.MaskSecret(cfg.Token)))

	metrics.Init()

	server := mcp.NewServer(cfg, logger)
	server.Tools.RegisterAll(mcp.AllTools())
	for _, resource := range mcp.DefaultResources() {
		server.Resources.Register(resource)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metricsServer := metrics.NewServer(cfg.MetricsAddr, logger)
		go func() {
			metricsErr := metricsServer.Start(ctx)
			if metricsErr != nil {
				logger.Error("metrics server error", slog.String("error", metricsErr.Error()))
			}
		}()
	}

	switch cfg.TransportMode {
	case config.TransportHTTP:
		err = runHTTP(ctx, server, cfg, logger)

	default:
		err = server.Run(ctx)
	}

	if err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runHTTP serves the HTTP transport until the context is cancelled, then
// shuts the gateway down gracefully.
func runHTTP(ctx context.Context, server *mcp.Server, cfg config.Config, logger *slog.Logger) (err error) {
	var methods []auth.Method

	methods = append(methods, auth.NewAPIKeyAuth(cfg.APIKeys, logger))

	if cfg.JWTSecret != "" {
		jwtAuth, jwtErr := auth.NewJWTAuth(&auth.JWTConfig{Secret: []byte(cfg.JWTSecret)})
		if jwtErr != nil {
			err = jwtErr
			return err
		}
		methods = append(methods, jwtAuth)
	}

	chain := auth.NewChain(methods, logger)
	gateway := mcp.NewHTTPServer(server, cfg, chain, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		shutdownErr := gateway.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			logger.Error("gateway shutdown error", slog.String("error", shutdownErr.Error()))
		}
	}()

	server.Connect()
	defer server.Disconnect()

	err = gateway.Start(ctx)
	return err
}

// logLevel maps the configured level name to its slog level.
func logLevel(name string) (level slog.Level) {
	switch name {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return level
}
