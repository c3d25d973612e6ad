package intelligence

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func RiskSpec() mcp.Tool {
	return mcp.NewTool("assess-entity-risk",
		mcp.WithDescription(`Score the risk of one phone or bank account on a 0-100 scale.

Three factors, each capped at 100, are averaged:
- connection_count: distinct direct neighbours x 10
- event_count: timeline events x 5
- network_density: neighbours / max(1, events) x 20

Score > 70 is high risk, > 40 medium, otherwise low. High and medium results include
recommended follow-up actions.`),
		mcp.WithInputSchema[EntityInput](),
		mcp.WithTitleAnnotation("Assess Entity Risk"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
