package intelligence

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func TimelineSpec() mcp.Tool {
	return mcp.NewTool("get-entity-timeline",
		mcp.WithDescription(`Reconstruct the chronological activity of one phone or bank account, newest first.

Relationship types map to events: MADE -> call, SENT -> transaction, HAS_SIM -> sim_swap,
RUNS_ON -> device_change, CONNECTS_VIA -> ip_change; other types use their lower-cased name.
Every event records whether the entity was the sender (outgoing) or receiver (incoming).
Events without a stored timestamp are stamped with the time of the request.`),
		mcp.WithInputSchema[EntityInput](),
		mcp.WithTitleAnnotation("Get Entity Timeline"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
