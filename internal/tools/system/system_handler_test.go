package system_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	analytics "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics/mocks"
	db "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/system"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGraphStatsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	analyticsService := analytics.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent("get-graph-stats").AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	t.Run("successful stats retrieval", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		gomock.InOrder(
			mockDB.EXPECT().ExecuteReadQuery(gomock.Any(), gomock.Any(), nil).Return([]*neo4j.Record{
				{Keys: []string{"node_type", "count"}, Values: []any{"Phone", int64(4)}},
				{Keys: []string{"node_type", "count"}, Values: []any{"BankAccount", int64(1)}},
			}, nil),
			mockDB.EXPECT().ExecuteReadQuery(gomock.Any(), gomock.Any(), nil).Return([]*neo4j.Record{
				{Keys: []string{"rel_type", "count"}, Values: []any{"MADE", int64(6)}},
			}, nil),
		)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := system.GraphStatsHandler(deps)(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		require.False(t, result.IsError)

		var stats intel.GraphStats
		require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
		assert.Equal(t, int64(5), stats.TotalNodes)
		assert.Equal(t, int64(6), stats.TotalRelationships)
		assert.Equal(t, int64(4), stats.NodeBreakdown["Phone"])
		assert.InDelta(t, 0.3, stats.Density, 1e-9)
	})

	t.Run("database query failure", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j").AnyTimes()
		mockDB.EXPECT().ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection failed"))

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := system.GraphStatsHandler(deps)(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("nil database service", func(t *testing.T) {
		deps := &tools.ToolDependencies{AnalyticsService: analyticsService}
		result, err := system.GraphStatsHandler(deps)(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHealthCheckHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	analyticsService := analytics.NewMockService(ctrl)
	analyticsService.EXPECT().NewToolsEvent("health-check").AnyTimes()
	analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()

	t.Run("operational", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("crimes")
		mockDB.EXPECT().ExecuteReadQuery(gomock.Any(), "RETURN 1 AS status", nil).
			Return([]*neo4j.Record{{Keys: []string{"status"}, Values: []any{int64(1)}}}, nil)

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := system.HealthCheckHandler(deps)(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		require.False(t, result.IsError)

		var hc intel.HealthCheck
		require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &hc))
		assert.Equal(t, intel.StatusOperational, hc.Status)
		assert.True(t, hc.Neo4jConnected)
		assert.Equal(t, "crimes", hc.Database)
	})

	t.Run("down is still a successful result", func(t *testing.T) {
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("neo4j")
		mockDB.EXPECT().ExecuteReadQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("refused"))

		deps := &tools.ToolDependencies{DBService: mockDB, AnalyticsService: analyticsService}
		result, err := system.HealthCheckHandler(deps)(context.Background(), mcp.CallToolRequest{})
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, textOf(t, result), intel.StatusDown)
	})
}
