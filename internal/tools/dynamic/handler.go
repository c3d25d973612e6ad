package dynamic

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

// NewPlaybookHandler returns the playbook guide as the tool result.
func NewPlaybookHandler(pb *Playbook, deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps != nil && deps.AnalyticsService != nil {
			deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent(pb.Name))
		}
		slog.Info("playbook requested", "tool", pb.Name, "category", pb.Category)
		return mcp.NewToolResultText(buildGuide(pb)), nil
	}
}

// buildGuide renders a playbook as markdown.
func buildGuide(pb *Playbook) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(pb.Description))

	if pb.Intent != "" {
		sb.WriteString("\n\n## Intent\n")
		sb.WriteString(strings.TrimSpace(pb.Intent))
	}

	if len(pb.Indicators) > 0 {
		sb.WriteString("\n\n## Indicators\n")
		for _, in := range pb.Indicators {
			fmt.Fprintf(&sb, "- **%s**: %s", in.Entity, in.Signal)
			if in.Threshold != "" {
				fmt.Fprintf(&sb, " (threshold: %s)", in.Threshold)
			}
			sb.WriteString("\n")
		}
	}

	if len(pb.Steps) > 0 {
		sb.WriteString("\n\n## Steps\n")
		for i, s := range pb.Steps {
			fmt.Fprintf(&sb, "%d. %s", i+1, s.Action)
			if s.Tool != "" {
				fmt.Fprintf(&sb, " → `%s`", s.Tool)
			}
			sb.WriteString("\n")
		}
	}

	if pb.ReferenceCypher != "" {
		sb.WriteString("\n\n## Reference Cypher\n```cypher\n")
		sb.WriteString(strings.TrimSpace(pb.ReferenceCypher))
		sb.WriteString("\n```\n")
	}

	if pb.ReferenceSchema != nil {
		sb.WriteString("\n\n## Reference Schema\n")
		if len(pb.ReferenceSchema.Labels) > 0 {
			fmt.Fprintf(&sb, "- Labels: %s\n", strings.Join(pb.ReferenceSchema.Labels, ", "))
		}
		if len(pb.ReferenceSchema.Relationships) > 0 {
			fmt.Fprintf(&sb, "- Relationships: %s\n", strings.Join(pb.ReferenceSchema.Relationships, ", "))
		}
	}

	if len(pb.Parameters) > 0 {
		sb.WriteString("\n\n## Parameters\n")
		for _, p := range pb.Parameters {
			fmt.Fprintf(&sb, "- `$%s` (%s)", p.Name, p.Type)
			if p.Required {
				sb.WriteString(" required")
			}
			if p.Default != nil {
				fmt.Fprintf(&sb, " [default: %v]", p.Default)
			}
			if p.Description != "" {
				fmt.Fprintf(&sb, ": %s", p.Description)
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
