package intelligence

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

func TimelineHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleTimeline(ctx, request, deps)
	}
}

func handleTimeline(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-entity-timeline"))

	entityID, errResult := bindEntity(request)
	if errResult != nil {
		return errResult, nil
	}

	tl, err := intel.NewEngine(deps.DBService).Timeline(ctx, entityID)
	if err != nil {
		slog.Error("timeline reconstruction failed", "entity", entityID, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return tools.JSONResult(tl), nil
}
