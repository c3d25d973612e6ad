package system

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

const (
	schemaVisualizationQuery = `CALL db.schema.visualization()`

	nodePropertiesQuery = `CALL db.schema.nodeTypeProperties()
YIELD nodeLabels, propertyName, propertyTypes
RETURN nodeLabels, propertyName, propertyTypes`

	relPropertiesQuery = `CALL db.schema.relTypeProperties()
YIELD relType, propertyName, propertyTypes
RETURN relType, propertyName, propertyTypes`
)

// GraphSchema is the result of get-graph-schema.
type GraphSchema struct {
	Labels        map[string]map[string]string `json:"labels"`
	Relationships []RelationshipPattern        `json:"relationships"`
}

// RelationshipPattern is one (From)-[Type]->(To) shape.
type RelationshipPattern struct {
	Type       string            `json:"type"`
	From       string            `json:"from"`
	To         string            `json:"to"`
	Properties map[string]string `json:"properties,omitempty"`
}

// GraphSchemaHandler returns a handler function for the get-graph-schema tool
func GraphSchemaHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGraphSchema(ctx, deps)
	}
}

func handleGraphSchema(ctx context.Context, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if res := tools.CheckDependencies(deps); res != nil {
		return res, nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent("get-graph-schema"))
	slog.Info("retrieving schema from the database", "database", deps.DBService.GetDatabaseName())

	visualization, err := deps.DBService.ExecuteReadQuery(ctx, schemaVisualizationQuery, nil)
	if err != nil {
		slog.Error("failed to execute schema visualization query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(visualization) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("The graph in database '%s' is empty; ingest records first.", deps.DBService.GetDatabaseName())), nil
	}

	nodeProps, err := deps.DBService.ExecuteReadQuery(ctx, nodePropertiesQuery, nil)
	if err != nil {
		slog.Error("failed to execute node properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	relProps, err := deps.DBService.ExecuteReadQuery(ctx, relPropertiesQuery, nil)
	if err != nil {
		slog.Error("failed to execute relationship properties query", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	schema, err := buildSchema(visualization[0], nodeProps, relProps)
	if err != nil {
		slog.Error("failed to process schema", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return tools.JSONResult(schema), nil
}

func buildSchema(vis *neo4j.Record, nodeProps, relProps []*neo4j.Record) (*GraphSchema, error) {
	nodesRaw, ok := vis.Get("nodes")
	if !ok {
		return nil, fmt.Errorf("missing 'nodes' in visualization record")
	}
	relsRaw, ok := vis.Get("relationships")
	if !ok {
		return nil, fmt.Errorf("missing 'relationships' in visualization record")
	}
	nodes, _ := nodesRaw.([]any)
	rels, _ := relsRaw.([]any)

	schema := &GraphSchema{Labels: make(map[string]map[string]string)}

	labelByID := make(map[string]string, len(nodes))
	for _, raw := range nodes {
		node, ok := raw.(dbtype.Node)
		if !ok {
			slog.Warn("skipping schema node", "type", fmt.Sprintf("%T", raw))
			continue
		}
		label, _ := node.Props["name"].(string)
		if label == "" {
			continue
		}
		labelByID[node.ElementId] = label
		schema.Labels[label] = map[string]string{}
	}

	for _, rec := range nodeProps {
		labels, _ := rawValue(rec, "nodeLabels").([]any)
		if len(labels) == 0 {
			continue
		}
		label, _ := labels[0].(string)
		name, typ := property(rec)
		if label == "" || name == "" {
			continue
		}
		if schema.Labels[label] == nil {
			schema.Labels[label] = map[string]string{}
		}
		schema.Labels[label][name] = typ
	}

	// relTypeProperties reports types as ":`MADE`".
	relPropMap := make(map[string]map[string]string)
	for _, rec := range relProps {
		relType, _ := rawValue(rec, "relType").(string)
		name, typ := property(rec)
		if relType == "" || name == "" {
			continue
		}
		key := trimRelType(relType)
		if relPropMap[key] == nil {
			relPropMap[key] = map[string]string{}
		}
		relPropMap[key][name] = typ
	}

	for _, raw := range rels {
		rel, ok := raw.(dbtype.Relationship)
		if !ok {
			slog.Warn("skipping schema relationship", "type", fmt.Sprintf("%T", raw))
			continue
		}
		from, to := labelByID[rel.StartElementId], labelByID[rel.EndElementId]
		if from == "" || to == "" {
			continue
		}
		schema.Relationships = append(schema.Relationships, RelationshipPattern{
			Type:       rel.Type,
			From:       from,
			To:         to,
			Properties: relPropMap[rel.Type],
		})
	}
	sort.Slice(schema.Relationships, func(i, j int) bool {
		a, b := schema.Relationships[i], schema.Relationships[j]
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		if a.From != b.From {
			return a.From < b.From
		}
		return a.To < b.To
	})
	return schema, nil
}

func rawValue(rec *neo4j.Record, key string) any {
	v, _ := rec.Get(key)
	return v
}

// property returns the property name and its first reported type.
func property(rec *neo4j.Record) (string, string) {
	name, _ := rawValue(rec, "propertyName").(string)
	types, _ := rawValue(rec, "propertyTypes").([]any)
	if len(types) == 0 {
		return name, ""
	}
	t, _ := types[0].(string)
	return name, t
}

func trimRelType(s string) string {
	if len(s) >= 4 && s[0] == ':' && s[1] == '`' && s[len(s)-1] == '`' {
		return s[2 : len(s)-1]
	}
	return s
}
