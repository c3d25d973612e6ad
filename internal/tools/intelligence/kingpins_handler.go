package intelligence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

func KingpinsHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleKingpins(ctx, request, deps)
	}
}

func handleKingpins(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("detect-kingpins"))

	var args KingpinsInput
	if err := request.BindArguments(&args); err != nil {
		slog.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	topK := args.TopK
	if topK == 0 {
		topK = intel.DefaultTopK
	}
	if topK < 1 || topK > intel.MaxTopK {
		errMessage := fmt.Sprintf("topK must be between 1 and %d, got %d", intel.MaxTopK, topK)
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	kingpins, err := intel.NewEngine(deps.DBService).DetectKingpins(ctx, topK)
	if err != nil {
		slog.Error("kingpin detection failed", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return tools.JSONResult(kingpins), nil
}
