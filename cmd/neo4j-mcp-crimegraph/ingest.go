package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/ingest"
	"github.com/spf13/cobra"
)

// runIngest loads each file in turn and prints one JSON result per file.
func (a *app) runIngest(cmd *cobra.Command, args []string) error {
	if a.cfg.ReadOnly {
		return fmt.Errorf("ingestion is disabled in read-only mode")
	}
	kind, err := ingest.ParseKind(a.flags.kind)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	db, closeDB, err := openDatabase(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := db.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("database %q is not reachable: %w", db.GetDatabaseName(), err)
	}
	ingest.EnsureSchema(ctx, db)

	an := newAnalytics(a.cfg)
	pipeline := ingest.NewPipeline(db, a.cfg.NumWorkers)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	for _, path := range args {
		res, err := ingestFile(cmd, pipeline, kind, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		an.EmitEvent(an.NewIngestionEvent(analytics.IngestionEventInfo{
			Kind:     string(res.Kind),
			Inserted: res.Inserted,
			Updated:  res.Updated,
			Errors:   res.Errors,
		}))
		if err := enc.Encode(struct {
			File string `json:"file"`
			*ingest.Result
		}{path, res}); err != nil {
			return err
		}
	}
	return nil
}

func ingestFile(cmd *cobra.Command, p *ingest.Pipeline, kind ingest.Kind, path string) (*ingest.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	slog.Info("ingesting file", "path", path, "kind", kind)
	return p.Ingest(cmd.Context(), kind, f)
}
