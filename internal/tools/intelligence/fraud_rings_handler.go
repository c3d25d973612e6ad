package intelligence

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

func FraudRingsHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleFraudRings(ctx, request, deps)
	}
}

func handleFraudRings(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("detect-fraud-rings"))

	var args FraudRingsInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	ringType := strings.ToLower(strings.TrimSpace(args.RingType))
	if ringType != "" && !slices.Contains(intel.RingTypes, ringType) {
		errMessage := fmt.Sprintf("unknown ringType %q, expected one of %s", args.RingType, strings.Join(intel.RingTypes, ", "))
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	rings, err := intel.NewEngine(deps.DBService).DetectFraudRings(ctx, ringType)
	if err != nil {
		slog.Error("fraud ring detection failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return tools.JSONResult(rings), nil
}
