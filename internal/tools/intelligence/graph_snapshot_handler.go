package intelligence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

func GraphSnapshotHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGraphSnapshot(ctx, request, deps)
	}
}

func handleGraphSnapshot(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-graph-snapshot"))

	var args GraphSnapshotInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	limit := args.Limit
	if limit == 0 {
		limit = intel.DefaultSnapshotLimit
	}
	if limit < intel.MinSnapshotLimit || limit > intel.MaxSnapshotLimit {
		errMessage := fmt.Sprintf("limit must be between %d and %d, got %d", intel.MinSnapshotLimit, intel.MaxSnapshotLimit, limit)
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	snap, err := intel.NewEngine(deps.DBService).GraphSnapshot(ctx, limit)
	if err != nil {
		slog.Error("graph snapshot failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return tools.JSONResult(snap), nil
}
