package intelligence

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// GraphSnapshotInput defines the input parameters for the get-graph-snapshot tool
type GraphSnapshotInput struct {
	// Limit caps the number of relationships returned
	Limit int `json:"limit,omitempty" jsonschema:"description=Maximum relationships to include (50-1000, default 400)"`
}

func GraphSnapshotSpec() mcp.Tool {
	return mcp.NewTool("get-graph-snapshot",
		mcp.WithDescription(`Return a trimmed node/edge view of the crime graph for visualisation.

Includes MADE, SENT, USES, OWNS, RUNS_ON, HAS_SIM, CONNECTS_VIA and INVOLVED_IN relationships.
Each node carries its label, canonical entity id, degree within the snapshot and a degree-based
risk tier (degree > 15 high, > 8 medium, otherwise low). Edge weight is the amount when present,
else the call duration, else 1.`),
		mcp.WithInputSchema[GraphSnapshotInput](),
		mcp.WithTitleAnnotation("Get Graph Snapshot"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
