//go:build integration

package helpers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/ingest"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type ToolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// TestContext gives a test an empty graph and tool dependencies bound to it.
type TestContext struct {
	t    *testing.T
	Ctx  context.Context
	DB   database.Service
	Deps *tools.ToolDependencies
}

// NewTestContext wipes the graph, applies the schema and returns a context
// whose tools write to the shared container. Tests using it must not run in
// parallel.
func NewTestContext(t *testing.T, driver neo4j.DriverWithContext) *TestContext {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewNeo4jService(driver, "neo4j")
	if err != nil {
		t.Fatalf("creating database service: %v", err)
	}
	if _, err := db.ExecuteWriteQuery(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		t.Fatalf("clearing graph: %v", err)
	}
	ingest.EnsureSchema(ctx, db)

	return &TestContext{
		t:   t,
		Ctx: ctx,
		DB:  db,
		Deps: &tools.ToolDependencies{
			DBService:        db,
			AnalyticsService: analytics.NewAnalytics("", "integration", nil),
			UploadDir:        t.TempDir(),
			MaxUploadSize:    1 << 20,
			NumWorkers:       4,
		},
	}
}

// CallTool invokes a handler and fails the test on a Go error or an error
// result.
func (tc *TestContext) CallTool(handler ToolHandler, args map[string]any) *mcp.CallToolResult {
	tc.t.Helper()
	res, err := handler(tc.Ctx, mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}})
	if err != nil {
		tc.t.Fatalf("tool returned error: %v", err)
	}
	if res == nil {
		tc.t.Fatal("tool returned nil result")
	}
	if res.IsError {
		tc.t.Fatalf("tool returned error result: %s", textOf(res))
	}
	return res
}

// ParseJSONResponse decodes the text content of res into v.
func (tc *TestContext) ParseJSONResponse(res *mcp.CallToolResult, v any) {
	tc.t.Helper()
	if err := json.Unmarshal([]byte(textOf(res)), v); err != nil {
		tc.t.Fatalf("decoding tool result: %v\n%s", err, textOf(res))
	}
}

// Ingest loads inline CSV through the ingest-records tool handler.
func (tc *TestContext) Ingest(handler ToolHandler, kind, csv string) ingest.Result {
	tc.t.Helper()
	var res ingest.Result
	tc.ParseJSONResponse(tc.CallTool(handler, map[string]any{"kind": kind, "content": csv}), &res)
	return res
}

func textOf(res *mcp.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if text, ok := res.Content[0].(mcp.TextContent); ok {
		return text.Text
	}
	return ""
}
