package system

import "github.com/mark3labs/mcp-go/mcp"

func GraphStatsSpec() mcp.Tool {
	return mcp.NewTool("get-graph-stats",
		mcp.WithDescription(`Summarise the crime graph: total nodes and relationships, a breakdown per node label
and relationship type, and the directed density (relationships / n(n-1), capped at 1).

Use this before running detection tools to understand how much data has been ingested.`),
		mcp.WithTitleAnnotation("Get Graph Statistics"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
