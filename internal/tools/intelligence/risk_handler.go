package intelligence

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

func RiskHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleRisk(ctx, request, deps)
	}
}

func handleRisk(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("assess-entity-risk"))

	entityID, errResult := bindEntity(request)
	if errResult != nil {
		return errResult, nil
	}

	ra, err := intel.NewEngine(deps.DBService).AssessRisk(ctx, entityID)
	if err != nil {
		slog.Error("risk assessment failed", "entity", entityID, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	slog.Info("risk assessed", "entity", entityID, "score", ra.RiskScore, "level", ra.RiskLevel)
	return tools.JSONResult(ra), nil
}
