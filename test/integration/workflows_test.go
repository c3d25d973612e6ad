//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/intel"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/ingestion"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/intelligence"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/tools/system"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/test/integration/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringCalls = `from_phone,to_phone,call_id,duration,timestamp
9000000001,9000000002,c1,60,2024-01-01T10:00:00Z
9000000002,9000000003,c2,45,2024-01-01T11:00:00Z
9000000003,9000000001,c3,30,2024-01-01T12:00:00Z
9000000004,9000000005,c4,20,2024-01-02T10:00:00Z
9000000005,9000000006,c5,20,2024-01-02T11:00:00Z
9000000006,9000000004,c6,20,2024-01-02T12:00:00Z
9000000003,9000000004,c7,5,2024-01-03T09:00:00Z
`

func TestIngestIsIdempotent(t *testing.T) {
	tc := helpers.NewTestContext(t, dbs.GetDriver())
	ingest := ingestion.IngestRecordsHandler(tc.Deps)

	first := tc.Ingest(ingest, "calls", ringCalls)
	assert.Equal(t, 7, first.Inserted)
	assert.Zero(t, first.Errors)

	second := tc.Ingest(ingest, "calls", ringCalls)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 7, second.Updated)

	var stats intel.GraphStats
	tc.ParseJSONResponse(tc.CallTool(system.GraphStatsHandler(tc.Deps), nil), &stats)
	assert.Equal(t, int64(6), stats.NodeBreakdown["Phone"])
	assert.Equal(t, int64(7), stats.RelationshipBreakdown["MADE"])
}

func TestRingsKingpinsAndTimeline(t *testing.T) {
	tc := helpers.NewTestContext(t, dbs.GetDriver())
	tc.Ingest(ingestion.IngestRecordsHandler(tc.Deps), "calls", ringCalls)

	var rings []intel.FraudRing
	tc.ParseJSONResponse(tc.CallTool(intelligence.FraudRingsHandler(tc.Deps), nil), &rings)
	require.Len(t, rings, 2)
	assert.ElementsMatch(t, []string{"+919000000001", "+919000000002", "+919000000003"}, rings[0].Members)
	assert.ElementsMatch(t, []string{"+919000000004", "+919000000005", "+919000000006"}, rings[1].Members)

	var kingpins []intel.Kingpin
	tc.ParseJSONResponse(tc.CallTool(intelligence.KingpinsHandler(tc.Deps), map[string]any{"topK": 2}), &kingpins)
	require.Len(t, kingpins, 2)
	bridges := []string{kingpins[0].EntityID, kingpins[1].EntityID}
	assert.Contains(t, bridges, "+919000000003")
	assert.Contains(t, bridges, "+919000000004")

	var tl intel.EntityTimeline
	tc.ParseJSONResponse(tc.CallTool(intelligence.TimelineHandler(tc.Deps), map[string]any{"entityId": "+919000000003"}), &tl)
	require.Equal(t, 3, tl.EventCount)
	assert.Equal(t, "2024-01-03T09:00:00Z", tl.Events[0].Timestamp)
	assert.Equal(t, intel.DirectionOutgoing, tl.Events[0].Direction)
	assert.Equal(t, intel.DirectionIncoming, tl.Events[2].Direction)
}

func TestMoneyMovementFromUploadedFile(t *testing.T) {
	tc := helpers.NewTestContext(t, dbs.GetDriver())
	csv := "from_account,to_account,transaction_id,amount,timestamp\n" +
		"acc-1,ACC-2,t1,300000,2024-02-01 10:00:00\n" +
		"ACC-1,ACC-3,t2,250000,2024-02-01 11:00:00\n" +
		"ACC-4,ACC-1,t3,900000,2024-02-01 09:00:00\n"
	require.NoError(t, os.WriteFile(filepath.Join(tc.Deps.UploadDir, "txns.csv"), []byte(csv), 0o600))

	var res struct {
		Inserted int `json:"inserted"`
	}
	tc.ParseJSONResponse(tc.CallTool(ingestion.IngestRecordsHandler(tc.Deps), map[string]any{
		"kind":     "transactions",
		"filePath": "txns.csv",
	}), &res)
	assert.Equal(t, 3, res.Inserted)

	var anomalies []intel.Anomaly
	tc.ParseJSONResponse(tc.CallTool(intelligence.AnomaliesHandler(tc.Deps), map[string]any{"entityId": "ACC-1"}), &anomalies)
	require.Len(t, anomalies, 1)
	assert.Equal(t, intel.AnomalyMoneyMovement, anomalies[0].AnomalyType)
	assert.InDelta(t, 550000.0, anomalies[0].Details["total_amount"], 1e-6)

	var risk intel.RiskAssessment
	tc.ParseJSONResponse(tc.CallTool(intelligence.RiskHandler(tc.Deps), map[string]any{"entityId": "ACC-1"}), &risk)
	assert.Equal(t, "account", risk.EntityType)
	assert.Greater(t, risk.RiskScore, 0.0)
}

func TestHealthCheck(t *testing.T) {
	tc := helpers.NewTestContext(t, dbs.GetDriver())
	var hc intel.HealthCheck
	tc.ParseJSONResponse(tc.CallTool(system.HealthCheckHandler(tc.Deps), nil), &hc)
	assert.Equal(t, intel.StatusOperational, hc.Status)
	assert.True(t, hc.Neo4jConnected)
}
