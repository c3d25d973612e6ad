package intelligence

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

func AnomaliesHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAnomalies(ctx, request, deps)
	}
}

func handleAnomalies(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("detect-entity-anomalies"))

	entityID, errResult := bindEntity(request)
	if errResult != nil {
		return errResult, nil
	}

	anomalies, err := intel.NewEngine(deps.DBService).DetectAnomalies(ctx, entityID)
	if err != nil {
		slog.Error("anomaly detection failed", "entity", entityID, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return tools.JSONResult(anomalies), nil
}
