package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/ingest"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

func IngestRecordsHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleIngestRecords(ctx, request, deps)
	}
}

func handleIngestRecords(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("ingest-records"))

	var args IngestRecordsInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	kind, err := ingest.ParseKind(args.Kind)
	if err != nil {
		slog.Error("invalid ingestion kind", "kind", args.Kind, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	hasFile := strings.TrimSpace(args.FilePath) != ""
	hasContent := args.Content != ""
	if hasFile == hasContent {
		errMessage := "provide exactly one of filePath or content"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	var src io.Reader
	if hasFile {
		f, err := ingest.OpenUpload(deps.UploadDir, strings.TrimSpace(args.FilePath), deps.MaxUploadSize)
		if err != nil {
			slog.Error("cannot open upload", "path", args.FilePath, "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		defer f.Close()
		src = f
	} else {
		src, err = ingest.InlineSource(args.Content, deps.MaxUploadSize)
		if err != nil {
			slog.Error("inline content rejected", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	if err := deps.DBService.VerifyConnectivity(ctx); err != nil {
		slog.Error("database unreachable, aborting ingestion", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("database %q is not reachable: %v", deps.DBService.GetDatabaseName(), err)), nil
	}

	res, err := ingest.NewPipeline(deps.DBService, deps.NumWorkers).Ingest(ctx, kind, src)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewIngestionEvent(analytics.IngestionEventInfo{
		Kind:     string(res.Kind),
		Inserted: res.Inserted,
		Updated:  res.Updated,
		Errors:   res.Errors,
	}))
	return tools.JSONResult(res), nil
}
