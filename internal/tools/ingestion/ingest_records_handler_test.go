package ingestion_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	an "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics"
	analytics "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/analytics/mocks"
	db "github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/database/mocks"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/ingest"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/ingestion"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const callsCSV = "from_phone,to_phone,call_id,duration\n" +
	"9876543210,9123456789,c1,30\n" +
	"9876543210,9123456789,c2,45\n" +
	",9123456789,c3,10\n"

func created(v bool) []*neo4j.Record {
	return []*neo4j.Record{{Keys: []string{"created"}, Values: []any{v}}}
}

func request(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestIngestRecordsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	newDeps := func() (*tools.ToolDependencies, *analytics.MockService, *db.MockService) {
		analyticsService := analytics.NewMockService(ctrl)
		analyticsService.EXPECT().NewToolsEvent("ingest-records").AnyTimes()
		analyticsService.EXPECT().EmitEvent(gomock.Any()).AnyTimes()
		mockDB := db.NewMockService(ctrl)
		mockDB.EXPECT().GetDatabaseName().Return("crimes").AnyTimes()
		return &tools.ToolDependencies{
			DBService:        mockDB,
			AnalyticsService: analyticsService,
			UploadDir:        t.TempDir(),
			MaxUploadSize:    1 << 20,
			NumWorkers:       2,
		}, analyticsService, mockDB
	}

	t.Run("inline content", func(t *testing.T) {
		deps, analyticsService, mockDB := newDeps()
		mockDB.EXPECT().VerifyConnectivity(gomock.Any()).Return(nil)
		mockDB.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(created(true), nil).Times(2)
		analyticsService.EXPECT().
			NewIngestionEvent(an.IngestionEventInfo{Kind: "calls", Inserted: 2, Errors: 1}).
			Return(an.TrackEvent{Event: "MCP_INGESTION"})

		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":    "calls",
			"content": callsCSV,
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, textOf(t, result))

		var res ingest.Result
		require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &res))
		assert.Equal(t, ingest.KindCalls, res.Kind)
		assert.Equal(t, 3, res.Rows)
		assert.Equal(t, 2, res.Inserted)
		assert.Equal(t, 1, res.Errors)
		assert.NotEmpty(t, res.BatchID)
	})

	t.Run("file in upload dir", func(t *testing.T) {
		deps, analyticsService, mockDB := newDeps()
		require.NoError(t, os.WriteFile(filepath.Join(deps.UploadDir, "sims.csv"), []byte("sim_number,provider\n8991,Jio\n"), 0o600))
		mockDB.EXPECT().VerifyConnectivity(gomock.Any()).Return(nil)
		mockDB.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(created(false), nil)
		analyticsService.EXPECT().NewIngestionEvent(gomock.Any()).Return(an.TrackEvent{})

		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":     "SIMS",
			"filePath": "sims.csv",
		}))
		require.NoError(t, err)
		require.False(t, result.IsError, textOf(t, result))
		assert.Contains(t, textOf(t, result), `"updated": 1`)
	})

	t.Run("path escaping upload dir", func(t *testing.T) {
		deps, _, _ := newDeps()
		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":     "calls",
			"filePath": "../etc/passwd",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("both or neither source", func(t *testing.T) {
		deps, _, _ := newDeps()
		for _, args := range []map[string]any{
			{"kind": "calls"},
			{"kind": "calls", "content": callsCSV, "filePath": "x.csv"},
		} {
			result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
			assert.Contains(t, textOf(t, result), "exactly one")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		deps, _, _ := newDeps()
		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":    "emails",
			"content": callsCSV,
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("missing required columns", func(t *testing.T) {
		deps, _, _ := newDeps()
		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":    "transactions",
			"content": "from_account,amount\nACC1,10\n",
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), "to_account")
	})

	t.Run("content over size limit", func(t *testing.T) {
		deps, _, _ := newDeps()
		deps.MaxUploadSize = 8
		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":    "calls",
			"content": callsCSV,
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("failed row writes are counted", func(t *testing.T) {
		deps, analyticsService, mockDB := newDeps()
		mockDB.EXPECT().VerifyConnectivity(gomock.Any()).Return(nil)
		mockDB.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("constraint violation")).Times(2)
		analyticsService.EXPECT().NewIngestionEvent(gomock.Any()).Return(an.TrackEvent{})

		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":    "calls",
			"content": callsCSV,
		}))
		require.NoError(t, err)
		require.False(t, result.IsError)
		assert.Contains(t, textOf(t, result), `"errors": 3`)
	})

	t.Run("unreachable database aborts the call", func(t *testing.T) {
		deps, analyticsService, mockDB := newDeps()
		mockDB.EXPECT().VerifyConnectivity(gomock.Any()).Return(errors.New("ConnectivityError: connection refused"))
		mockDB.EXPECT().ExecuteWriteQuery(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		analyticsService.EXPECT().NewIngestionEvent(gomock.Any()).Times(0)

		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{
			"kind":    "calls",
			"content": callsCSV,
		}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, textOf(t, result), "not reachable")
	})

	t.Run("nil database service", func(t *testing.T) {
		deps, _, _ := newDeps()
		deps.DBService = nil
		result, err := ingestion.IngestRecordsHandler(deps)(context.Background(), request(map[string]any{"kind": "calls"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}
