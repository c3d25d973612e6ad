package intelligence

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// FraudRingsInput defines the input parameters for the detect-fraud-rings tool
type FraudRingsInput struct {
	RingType string `json:"ringType,omitempty" jsonschema:"description=Optional filter: sim_mule, call_center or money_laundering"`
}

func FraudRingsSpec() mcp.Tool {
	return mcp.NewTool("detect-fraud-rings",
		mcp.WithDescription(`Detect fraud rings by clustering the call (MADE) and money transfer (SENT) network.

Communities are found with greedy modularity maximisation over the undirected network; singletons
are dropped. Each ring reports its members, total calls and money moved between members, a risk
score (capped at 100), a confidence and a classification:
- money_laundering: more than 100000 moved inside the ring
- call_center: more than 500 calls inside the ring
- sim_mule: anything else

The result is deterministic for a given graph.`),
		mcp.WithInputSchema[FraudRingsInput](),
		mcp.WithTitleAnnotation("Detect Fraud Rings"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
