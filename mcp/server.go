// Package mcp bootstraps the MCP server that exposes the nutrition tracker
// tool surface over stdio or streamable HTTP.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/MikolajKopec/openfoodfacts-mcp/internal/config"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/factory"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/logger"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/offclient"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/resolver"
	"github.com/MikolajKopec/openfoodfacts-mcp/internal/services"
	"github.com/MikolajKopec/openfoodfacts-mcp/mcp/internal/handlers"
)

type toolRegisterer interface {
	RegisterTools(s *server.MCPServer) error
}

// Run loads configuration, wires the core and serves MCP until shutdown.
func Run() error {
	var rawLogLevel string
	flag.StringVar(&rawLogLevel, "log-level", "", "Log level: debug|info|warn|error")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		return err
	}
	if rawLogLevel != "" {
		cfg.LogLevel = rawLogLevel
	}
	zerolog.SetGlobalLevel(logger.ParseLevel(cfg.LogLevel))
	log := logger.New(cfg.ServerName)

	log.Info().
		Str("db_driver", cfg.DBDriver).
		Str("base_url", cfg.BaseURL).
		Str("locale", cfg.Locale).
		Msg("nutrition tracker starting")

	st, err := factory.NewStore(cfg)
	if err != nil {
		log.Error().Stack().Err(err).Msg("storage adapter unavailable")
		return err
	}

	remote := offclient.New(cfg.BaseURL, cfg.Locale, cfg.LookupTimeout, log)
	res := resolver.New(st.CustomProducts(), remote, log)

	productSvc := services.NewProductService(remote, st, log)
	logSvc := services.NewLogService(res, st, log)
	summarySvc := services.NewSummaryService(st, log)

	s := server.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		server.WithToolCapabilities(true),
	)

	for _, reg := range []struct {
		name    string
		handler toolRegisterer
	}{
		{"catalog", handlers.NewCatalogHandler(productSvc, log)},
		{"log", handlers.NewLogHandler(logSvc, log)},
		{"custom", handlers.NewCustomProductHandler(productSvc, log)},
		{"summary", handlers.NewSummaryHandler(summarySvc, log)},
	} {
		if err := reg.handler.RegisterTools(s); err != nil {
			log.Error().Err(err).Str("handler", reg.name).Msg("failed to register tools")
			return err
		}
	}

	if shouldUseStdio() {
		log.Info().Msg("serving MCP over stdio")
		return server.ServeStdio(s)
	}
	return serveHTTP(cfg, s, log)
}

// serveHTTP runs the streamable HTTP transport with graceful shutdown on
// SIGINT/SIGTERM.
func serveHTTP(cfg *config.Config, s *server.MCPServer, log zerolog.Logger) error {
	streamSrv := server.NewStreamableHTTPServer(
		s,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:     streamSrv,
		ReadTimeout: 5 * time.Second,
		// WriteTimeout stays zero: SSE streams have no deadline.
		IdleTimeout: 120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	shutdownComplete := make(chan struct{})

	go func() {
		defer close(shutdownComplete)

		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during HTTP server shutdown")
		}
		if err := streamSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error during MCP server shutdown")
		}
	}()

	log.Info().Int("port", cfg.HTTPPort).Msg("serving MCP over streamable HTTP")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	<-shutdownComplete
	log.Info().Msg("MCP server shutdown complete")
	return nil
}

// shouldUseStdio determines the transport from the environment: explicit
// MCP_STDIO/MCP_HTTP overrides, otherwise stdio when stdin is not a terminal
// (launched by an MCP host).
func shouldUseStdio() bool {
	if os.Getenv("MCP_STDIO") == "true" {
		return true
	}
	if os.Getenv("MCP_HTTP") == "true" {
		return false
	}
	if fileInfo, err := os.Stdin.Stat(); err == nil {
		return (fileInfo.Mode() & os.ModeCharDevice) == 0
	}
	return false
}
