package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/config"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database"
	"github.com/spf13/cobra"
)

// cliFlags holds flag values that override the environment.
type cliFlags struct {
	logLevel    string
	logFormat   string
	transport   string
	httpAddr    string
	metricsAddr string
	readOnly    bool
	kind        string
	workers     int
}

type app struct {
	flags cliFlags
	cfg   *config.Config
}

func newRootCmd() *cobra.Command {
	return (&app{}).command()
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "neo4j-mcp-crimegraph",
		Short: "Cybercrime graph analytics and ingestion over MCP",
		Long: `neo4j-mcp-crimegraph loads telecom and banking records into Neo4j and exposes
fraud ring detection, kingpin ranking, timelines, risk scoring and anomaly
detection as MCP tools.

Running without a subcommand starts the MCP server.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runServe,
	}
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	root.PersistentFlags().StringVar(&a.flags.logFormat, "log-format", "", "log format: text or json (env LOG_FORMAT)")
	addServeFlags(root, &a.flags)

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		RunE:  a.runServe,
	}
	addServeFlags(serve, &a.flags)

	ingest := &cobra.Command{
		Use:   "ingest --kind KIND FILE [FILE...]",
		Short: "Load CSV files into the graph without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runIngest,
	}
	ingest.Flags().StringVar(&a.flags.kind, "kind", "", "record kind: calls, transactions, devices, sims, complaints")
	ingest.Flags().IntVar(&a.flags.workers, "workers", 0, "parallel upsert workers (env NUM_WORKERS)")
	_ = ingest.MarkFlagRequired("kind")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Overrides the root hook so no configuration is required.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "neo4j-mcp-crimegraph %s\n", version)
		},
	}

	root.AddCommand(serve, ingest, versionCmd)
	return root
}

func addServeFlags(cmd *cobra.Command, f *cliFlags) {
	cmd.Flags().StringVar(&f.transport, "transport", "", "MCP transport: stdio or http (env MCP_TRANSPORT)")
	cmd.Flags().StringVar(&f.httpAddr, "http-addr", "", "listen address for the http transport (env MCP_HTTP_ADDR)")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "listen address for Prometheus metrics (env METRICS_ADDR)")
	cmd.Flags().BoolVar(&f.readOnly, "read-only", false, "disable ingestion tools (env NEO4J_READ_ONLY)")
}

// loadConfig reads the environment, applies explicitly set flags, validates
// the result and installs the process logger.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, &a.flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())
	a.cfg = cfg
	return nil
}

func applyFlags(cmd *cobra.Command, f *cliFlags, cfg *config.Config) {
	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("transport") {
		cfg.Transport = f.transport
	}
	if changed("http-addr") {
		cfg.HTTPAddr = f.httpAddr
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if changed("read-only") {
		cfg.ReadOnly = f.readOnly
	}
	if changed("workers") {
		cfg.NumWorkers = f.workers
	}
}

// openDatabase creates the driver and the database service. The returned
// closer must be called on every exit path.
func openDatabase(ctx context.Context, cfg *config.Config) (database.Service, func(), error) {
	driver, err := database.NewDriver(cfg.URI, cfg.Username, cfg.Password)
	if err != nil {
		return nil, nil, err
	}
	closeDriver := func() {
		if err := driver.Close(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("error closing neo4j driver", "error", err)
		}
	}
	svc, err := database.NewNeo4jService(driver, cfg.Database)
	if err != nil {
		closeDriver()
		return nil, nil, err
	}
	return svc, closeDriver, nil
}

func newAnalytics(cfg *config.Config) *analytics.Analytics {
	return analytics.NewAnalytics(cfg.TelemetryEndpoint, version, &http.Client{Timeout: 5 * time.Second})
}
