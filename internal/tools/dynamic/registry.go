package dynamic

import (
	"fmt"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
)

// Registry holds the playbooks loaded from one filesystem.
type Registry struct {
	playbooks []*Playbook
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Load replaces the registry contents with the playbooks found in fsys.
func (r *Registry) Load(fsys fs.FS) error {
	playbooks, err := WalkPlaybooks(fsys)
	if err != nil {
		return fmt.Errorf("failed to load playbooks: %w", err)
	}
	r.playbooks = playbooks
	slog.Info("loaded playbooks", "count", len(playbooks))
	return nil
}

func (r *Registry) Count() int {
	return len(r.playbooks)
}

func (r *Registry) Playbooks() []*Playbook {
	return r.playbooks
}

// ServerTools converts every playbook into a read-only MCP tool.
func (r *Registry) ServerTools(deps *tools.ToolDependencies) []server.ServerTool {
	out := make([]server.ServerTool, 0, len(r.playbooks))
	for _, pb := range r.playbooks {
		out = append(out, server.ServerTool{
			Tool: mcp.NewTool(pb.Name,
				mcp.WithDescription(buildGuide(pb)),
				mcp.WithTitleAnnotation(pb.Name),
				mcp.WithReadOnlyHintAnnotation(true),
				mcp.WithDestructiveHintAnnotation(false),
				mcp.WithIdempotentHintAnnotation(true),
				mcp.WithOpenWorldHintAnnotation(false),
			),
			Handler: NewPlaybookHandler(pb, deps),
		})
	}
	return out
}

// Category returns the category of the named playbook, or "unknown".
func (r *Registry) Category(name string) string {
	for _, pb := range r.playbooks {
		if pb.Name == name {
			return pb.Category
		}
	}
	return "unknown"
}

func (r *Registry) ByCategory(category string) []*Playbook {
	var out []*Playbook
	for _, pb := range r.playbooks {
		if pb.Category == category {
			out = append(out, pb)
		}
	}
	return out
}

// Categories lists the distinct categories in sorted order.
func (r *Registry) Categories() []string {
	set := make(map[string]struct{})
	for _, pb := range r.playbooks {
		set[pb.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
