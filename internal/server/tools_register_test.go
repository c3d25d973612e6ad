package server

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	analytics_mocks "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/config"
	database_mocks "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var builtinTools = []string{
	"get-graph-snapshot", "detect-fraud-rings", "detect-kingpins", "get-entity-timeline",
	"assess-entity-risk", "detect-entity-anomalies", "ingest-records", "get-graph-stats", "get-graph-schema", "health-check",
}

func newTestServer(t *testing.T, cfg *config.Config) (*Neo4jMCPServer, *database_mocks.MockService, *analytics_mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := database_mocks.NewMockService(ctrl)
	an := analytics_mocks.NewMockService(ctrl)
	return NewNeo4jMCPServer("test", cfg, db, an), db, an
}

func toolNames(defs []ToolDefinition) map[string]ToolDefinition {
	out := make(map[string]ToolDefinition, len(defs))
	for _, d := range defs {
		out[d.definition.Tool.Name] = d
	}
	return out
}

func TestAllToolsAreDefined(t *testing.T) {
	s, _, _ := newTestServer(t, &config.Config{})
	defs := toolNames(s.getAllToolsDefs(s.toolDependencies()))

	for _, name := range builtinTools {
		def, ok := defs[name]
		if !assert.True(t, ok, "missing tool %s", name) {
			continue
		}
		assert.NotEmpty(t, def.definition.Tool.Description, name)
		assert.NotNil(t, def.definition.Handler, name)
	}
	assert.False(t, defs["ingest-records"].readonly)
	assert.Equal(t, ingestionCategory, defs["ingest-records"].category)
}

func TestPlaybooksAreExposed(t *testing.T) {
	s, _, _ := newTestServer(t, &config.Config{})
	defs := s.getAllToolsDefs(s.toolDependencies())

	var playbooks []string
	for _, d := range defs {
		if d.category != playbookCategory {
			continue
		}
		playbooks = append(playbooks, d.definition.Tool.Name)
		assert.True(t, d.readonly, d.definition.Tool.Name)
		assert.NotEmpty(t, d.definition.Tool.Description)
	}
	assert.Subset(t, playbooks, []string{
		"investigate-sim-mule-ring",
		"investigate-call-center-ring",
		"investigate-money-laundering-ring",
		"triage-entity",
	})
}

func TestBrokenPlaybooksDoNotBlockBuiltins(t *testing.T) {
	s, _, _ := newTestServer(t, &config.Config{})
	s.playbooks = fstest.MapFS{"bad.yaml": {Data: []byte("name: [")}}

	defs := s.getAllToolsDefs(s.toolDependencies())
	assert.Len(t, defs, len(builtinTools))
}

func TestReadOnlyModeDropsIngestion(t *testing.T) {
	s, _, _ := newTestServer(t, &config.Config{ReadOnly: true})

	enabled := s.getEnabledTools()
	names := make(map[string]bool, len(enabled))
	for _, tool := range enabled {
		names[tool.Tool.Name] = true
	}
	assert.False(t, names["ingest-records"])
	assert.True(t, names["detect-fraud-rings"])
	assert.True(t, names["triage-entity"])
}

func TestToolDependenciesCarryIngestionSettings(t *testing.T) {
	s, _, _ := newTestServer(t, &config.Config{UploadDir: "/srv/uploads", MaxUploadSize: 42, NumWorkers: 3})
	deps := s.toolDependencies()
	assert.Equal(t, "/srv/uploads", deps.UploadDir)
	assert.Equal(t, int64(42), deps.MaxUploadSize)
	assert.Equal(t, 3, deps.NumWorkers)
}

func TestPrepare(t *testing.T) {
	t.Run("bootstraps schema and registers every tool", func(t *testing.T) {
		s, db, an := newTestServer(t, &config.Config{Transport: config.TransportStdio})
		s.playbooks = fstest.MapFS{}

		db.EXPECT().VerifyConnectivity(gomock.Any()).Return(nil)
		db.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		db.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, nil).Times(len(ingest.SchemaStatements))
		an.EXPECT().NewStartupEvent(analytics.StartupEventInfo{
			DatabaseName: "neo4j",
			Transport:    config.TransportStdio,
			ToolCount:    len(builtinTools),
		}).Return(analytics.TrackEvent{Event: "MCP_STARTUP"})
		an.EXPECT().EmitEvent(analytics.TrackEvent{Event: "MCP_STARTUP"})

		require.NoError(t, s.Prepare(context.Background()))
		assert.Equal(t, len(builtinTools), s.toolCount)
	})

	t.Run("read-only skips schema writes", func(t *testing.T) {
		s, db, an := newTestServer(t, &config.Config{ReadOnly: true})
		s.playbooks = fstest.MapFS{}

		db.EXPECT().VerifyConnectivity(gomock.Any()).Return(nil)
		db.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		an.EXPECT().NewStartupEvent(gomock.Any()).Return(analytics.TrackEvent{})
		an.EXPECT().EmitEvent(gomock.Any())

		require.NoError(t, s.Prepare(context.Background()))
		assert.Equal(t, len(builtinTools)-1, s.toolCount)
	})

	t.Run("unreachable database", func(t *testing.T) {
		s, db, _ := newTestServer(t, &config.Config{})
		db.EXPECT().VerifyConnectivity(gomock.Any()).Return(errors.New("connection refused"))
		db.EXPECT().GetDatabaseName().Return("neo4j")

		err := s.Prepare(context.Background())
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestPlaybookDirOverride(t *testing.T) {
	dir := t.TempDir()
	s, _, _ := newTestServer(t, &config.Config{PlaybookDir: dir})
	defs := s.getAllToolsDefs(s.toolDependencies())
	assert.Len(t, defs, len(builtinTools), "empty playbook dir adds no tools")
}
