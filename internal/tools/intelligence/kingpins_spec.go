package intelligence

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// KingpinsInput defines the input parameters for the detect-kingpins tool
type KingpinsInput struct {
	TopK int `json:"topK,omitempty" jsonschema:"description=Number of entities to return (1-100, default 10)"`
}

func KingpinsSpec() mcp.Tool {
	return mcp.NewTool("detect-kingpins",
		mcp.WithDescription(`Rank the most influential phones and accounts in the network.

Influence = 0.4 * PageRank + 0.3 * betweenness + 0.15 * (in-degree / max in-degree)
+ 0.15 * (out-degree / max out-degree), computed over MADE, SENT, USES, OWNS and RUNS_ON
relationships. Risk level: influence > 0.5 high, > 0.2 medium, otherwise low.
Entity type is inferred from the key: a leading "+" is a phone, anything else an account.`),
		mcp.WithInputSchema[KingpinsInput](),
		mcp.WithTitleAnnotation("Detect Kingpins"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
