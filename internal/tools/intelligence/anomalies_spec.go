package intelligence

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func AnomaliesSpec() mcp.Tool {
	return mcp.NewTool("detect-entity-anomalies",
		mcp.WithDescription(`Flag suspicious behaviour in one entity's timeline using fixed thresholds.

| Rule | Triggers when | Risk |
|---|---|---|
| sim_swap | more than 2 SIM events | high |
| device_hop | more than 3 device changes | high |
| call_burst | more than 100 calls | medium |
| money_movement | outgoing transfers total more than 500000 | high |

Thresholds are strict. Incoming transfers do not count toward money_movement.`),
		mcp.WithInputSchema[EntityInput](),
		mcp.WithTitleAnnotation("Detect Entity Anomalies"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
