package system

import "github.com/mark3labs/mcp-go/mcp"

func HealthCheckSpec() mcp.Tool {
	return mcp.NewTool("health-check",
		mcp.WithDescription("Probe the graph database and report operational, degraded or down. Never fails; problems are reported in the message."),
		mcp.WithTitleAnnotation("Health Check"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
}
