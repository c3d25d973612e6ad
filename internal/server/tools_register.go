package server

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/dynamic"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/ingestion"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/intelligence"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/system"
)

// registerTools registers all enabled MCP tools and adds them to the provided MCP server.
// In read-only mode (NEO4J_READ_ONLY or Config.ReadOnly) only tools marked readonly
// are registered, which leaves out ingest-records.
func (s *Neo4jMCPServer) registerTools() error {
	filteredTools := s.getEnabledTools()
	s.MCPServer.AddTools(filteredTools...)
	s.toolCount = len(filteredTools)
	return nil
}

type toolFilter func(tools []ToolDefinition) []ToolDefinition

type toolCategory int

const (
	intelligenceCategory toolCategory = 0
	ingestionCategory    toolCategory = 1
	systemCategory       toolCategory = 2
	playbookCategory     toolCategory = 3 // YAML playbooks
)

type ToolDefinition struct {
	category   toolCategory
	definition server.ServerTool
	readonly   bool
}

func (s *Neo4jMCPServer) getEnabledTools() []server.ServerTool {
	filters := make([]toolFilter, 0)

	// If read-only mode is enabled, expose only tools annotated as read-only.
	if s.config != nil && s.config.ReadOnly {
		filters = append(filters, filterWriteTools)
	}
	toolDefs := s.getAllToolsDefs(s.toolDependencies())

	for _, filter := range filters {
		toolDefs = filter(toolDefs)
	}
	enabledTools := make([]server.ServerTool, 0, len(toolDefs))
	for _, toolDef := range toolDefs {
		enabledTools = append(enabledTools, toolDef.definition)
	}
	return enabledTools
}

func (s *Neo4jMCPServer) toolDependencies() *tools.ToolDependencies {
	deps := &tools.ToolDependencies{
		DBService:        s.dbService,
		AnalyticsService: s.anService,
	}
	if s.config != nil {
		deps.UploadDir = s.config.UploadDir
		deps.MaxUploadSize = s.config.MaxUploadSize
		deps.NumWorkers = s.config.NumWorkers
	}
	return deps
}

func filterWriteTools(tools []ToolDefinition) []ToolDefinition {
	readOnlyTools := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		if t.readonly {
			readOnlyTools = append(readOnlyTools, t)
		}
	}
	return readOnlyTools
}

// getAllToolsDefs returns all available tools with their specs and handlers
func (s *Neo4jMCPServer) getAllToolsDefs(deps *tools.ToolDependencies) []ToolDefinition {
	toolDefs := []ToolDefinition{
		// Intelligence
		{
			category:   intelligenceCategory,
			definition: server.ServerTool{Tool: intelligence.GraphSnapshotSpec(), Handler: intelligence.GraphSnapshotHandler(deps)},
			readonly:   true,
		},
		{
			category:   intelligenceCategory,
			definition: server.ServerTool{Tool: intelligence.FraudRingsSpec(), Handler: intelligence.FraudRingsHandler(deps)},
			readonly:   true,
		},
		{
			category:   intelligenceCategory,
			definition: server.ServerTool{Tool: intelligence.KingpinsSpec(), Handler: intelligence.KingpinsHandler(deps)},
			readonly:   true,
		},
		{
			category:   intelligenceCategory,
			definition: server.ServerTool{Tool: intelligence.TimelineSpec(), Handler: intelligence.TimelineHandler(deps)},
			readonly:   true,
		},
		{
			category:   intelligenceCategory,
			definition: server.ServerTool{Tool: intelligence.RiskSpec(), Handler: intelligence.RiskHandler(deps)},
			readonly:   true,
		},
		{
			category:   intelligenceCategory,
			definition: server.ServerTool{Tool: intelligence.AnomaliesSpec(), Handler: intelligence.AnomaliesHandler(deps)},
			readonly:   true,
		},
		// Ingestion
		{
			category:   ingestionCategory,
			definition: server.ServerTool{Tool: ingestion.IngestRecordsSpec(), Handler: ingestion.IngestRecordsHandler(deps)},
			readonly:   false,
		},
		// System
		{
			category:   systemCategory,
			definition: server.ServerTool{Tool: system.GraphStatsSpec(), Handler: system.GraphStatsHandler(deps)},
			readonly:   true,
		},
		{
			category:   systemCategory,
			definition: server.ServerTool{Tool: system.GraphSchemaSpec(), Handler: system.GraphSchemaHandler(deps)},
			readonly:   true,
		},
		{
			category:   systemCategory,
			definition: server.ServerTool{Tool: system.HealthCheckSpec(), Handler: system.HealthCheckHandler(deps)},
			readonly:   true,
		},
	}

	return append(toolDefs, s.loadPlaybookTools(deps)...)
}

// loadPlaybookTools turns the YAML playbooks into guidance tools. A broken
// playbook tree is logged and skipped so the analytics tools still load.
func (s *Neo4jMCPServer) loadPlaybookTools(deps *tools.ToolDependencies) []ToolDefinition {
	if s.playbooks == nil {
		return nil
	}
	registry := dynamic.NewRegistry()
	if err := registry.Load(s.playbooks); err != nil {
		slog.Error("failed to load playbooks", "error", err)
		return nil
	}
	if registry.Count() == 0 {
		slog.Info("no playbooks found")
		return nil
	}

	serverTools := registry.ServerTools(deps)
	toolDefs := make([]ToolDefinition, 0, len(serverTools))
	for _, serverTool := range serverTools {
		toolDefs = append(toolDefs, ToolDefinition{
			category:   playbookCategory,
			definition: serverTool,
			readonly:   true,
		})
	}
	return toolDefs
}
