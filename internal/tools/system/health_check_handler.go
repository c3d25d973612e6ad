package system

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

// HealthCheckHandler returns a handler function for the health-check tool
func HealthCheckHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if res := tools.CheckDependencies(deps); res != nil {
			return res, nil
		}
		deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("health-check"))
		return tools.JSONResult(intel.NewEngine(deps.DBService).Health(ctx)), nil
	}
}
