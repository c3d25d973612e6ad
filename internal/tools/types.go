package tools

import (
	"encoding/json"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database"
)

// ToolDependencies contains all dependencies needed by tools
type ToolDependencies struct {
	DBService        database.Service
	AnalyticsService analytics.Service

	// Ingestion settings
	UploadDir     string
	MaxUploadSize int64
	NumWorkers    int
}

// CheckDependencies returns an error result when a required service is
// missing, or nil when the handler can proceed.
func CheckDependencies(deps *ToolDependencies) *mcp.CallToolResult {
	if deps == nil || deps.AnalyticsService == nil {
		errMessage := "Analytics service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage)
	}
	if deps.DBService == nil {
		errMessage := "Database service is not initialized"
		slog.Error(errMessage)
		return mcp.NewToolResultError(errMessage)
	}
	return nil
}

// JSONResult renders v as an indented JSON text result.
func JSONResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Error("error formatting tool result", "error", err)
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}
