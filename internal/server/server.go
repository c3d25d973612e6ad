package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/docs"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/config"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/ingest"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/metrics"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/tools"
)

const (
	serverName      = "neo4j-mcp-crimegraph"
	shutdownTimeout = 10 * time.Second
)

// Neo4jMCPServer exposes the crime graph engine over MCP.
type Neo4jMCPServer struct {
	MCPServer *server.MCPServer

	config    *config.Config
	dbService database.Service
	anService analytics.Service
	playbooks fs.FS
	toolCount int

	metricsServer *http.Server
}

// NewNeo4jMCPServer wires the MCP server. Playbooks come from PlaybookDir
// when set, otherwise from the embedded set.
func NewNeo4jMCPServer(version string, cfg *config.Config, dbService database.Service, anService analytics.Service) *Neo4jMCPServer {
	mcpServer := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(docs.InvestigationGuide),
		server.WithRecovery(),
	)

	playbooks := tools.Playbooks()
	if cfg.PlaybookDir != "" {
		playbooks = os.DirFS(cfg.PlaybookDir)
	}

	return &Neo4jMCPServer{
		MCPServer: mcpServer,
		config:    cfg,
		dbService: dbService,
		anService: anService,
		playbooks: playbooks,
	}
}

// Prepare checks the database, bootstraps the schema when writes are
// allowed, and registers the tools.
func (s *Neo4jMCPServer) Prepare(ctx context.Context) error {
	if err := s.dbService.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("database %q is not reachable: %w", s.dbService.GetDatabaseName(), err)
	}

	if s.config.ReadOnly {
		slog.Info("read-only mode, skipping schema bootstrap")
	} else {
		ingest.EnsureSchema(ctx, s.dbService)
	}

	if err := s.registerTools(); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	s.anService.EmitEvent(s.anService.NewStartupEvent(analytics.StartupEventInfo{
		DatabaseName: s.dbService.GetDatabaseName(),
		Transport:    s.config.Transport,
		ReadOnly:     s.config.ReadOnly,
		ToolCount:    s.toolCount,
	}))
	slog.Info("server ready", "tools", s.toolCount, "transport", s.config.Transport, "readOnly", s.config.ReadOnly)
	return nil
}

// Start prepares the server and serves the configured transport until ctx
// is cancelled or the transport fails.
func (s *Neo4jMCPServer) Start(ctx context.Context) error {
	if err := s.Prepare(ctx); err != nil {
		return err
	}
	s.startMetrics()
	defer s.stopMetrics()

	switch s.config.Transport {
	case config.TransportHTTP:
		return s.serveHTTP(ctx)
	default:
		slog.Info("serving MCP over stdio")
		err := server.NewStdioServer(s.MCPServer).Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio transport: %w", err)
		}
		return nil
	}
}

func (s *Neo4jMCPServer) serveHTTP(ctx context.Context) error {
	httpServer := server.NewStreamableHTTPServer(s.MCPServer)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("serving MCP over streamable HTTP", "addr", s.config.HTTPAddr)
		errCh <- httpServer.Start(s.config.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http transport: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down http transport")
		return httpServer.Shutdown(shutdownCtx)
	}
}

// startMetrics serves Prometheus metrics on MetricsAddr when one is set.
func (s *Neo4jMCPServer) startMetrics() {
	if s.config.MetricsAddr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	s.metricsServer = &http.Server{
		Addr:              s.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("serving metrics", "addr", s.config.MetricsAddr)
		if err := s.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics listener stopped", "error", err)
		}
	}()
}

func (s *Neo4jMCPServer) stopMetrics() {
	if s.metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.metricsServer.Shutdown(ctx); err != nil {
		slog.Warn("metrics listener shutdown", "error", err)
	}
}
