package system

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

// GraphStatsHandler returns a handler function for the get-graph-stats tool
func GraphStatsHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGraphStats(ctx, deps)
	}
}

func handleGraphStats(ctx context.Context, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-graph-stats"))
	slog.Info("retrieving graph statistics", "database", deps.DBService.GetDatabaseName())

	stats, err := intel.NewEngine(deps.DBService).GraphStats(ctx)
	if err != nil {
		slog.Error("failed to retrieve graph statistics", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return tools.JSONResult(stats), nil
}
