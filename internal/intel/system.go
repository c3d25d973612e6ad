package intel

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/metrics"
)

const (
	nodeBreakdownQuery = `MATCH (n)
WITH coalesce(labels(n)[0], 'Unknown') AS node_type, count(*) AS count
RETURN node_type, count
ORDER BY count DESC`

	relationshipBreakdownQuery = `MATCH ()-[r]->()
WITH type(r) AS rel_type, count(*) AS count
RETURN rel_type, count
ORDER BY count DESC`

	healthQuery = "RETURN 1 AS status"
)

const (
	StatusOperational = "operational"
	StatusDegraded    = "degraded"
	StatusDown        = "down"
)

// GraphStats counts nodes per label and relationships per type.
func (e *Engine) GraphStats(ctx context.Context) (stats *GraphStats, err error) {
	defer metrics.ObserveOperation("graph-stats", time.Now(), &err)
	ctx, span := tracer.Start(ctx, "intel.GraphStats")
	defer span.End()

	nodes, err := e.db.ExecuteReadQuery(ctx, nodeBreakdownQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("node breakdown query: %w", err)
	}
	rels, err := e.db.ExecuteReadQuery(ctx, relationshipBreakdownQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("relationship breakdown query: %w", err)
	}

	stats = &GraphStats{
		NodeBreakdown:         make(map[string]int64, len(nodes)),
		RelationshipBreakdown: make(map[string]int64, len(rels)),
	}
	for _, rec := range nodes {
		c := intValue(rec, "count")
		stats.NodeBreakdown[stringValue(rec, "node_type")] += c
		stats.TotalNodes += c
	}
	for _, rec := range rels {
		c := intValue(rec, "count")
		stats.RelationshipBreakdown[stringValue(rec, "rel_type")] += c
		stats.TotalRelationships += c
	}
	stats.Density = Density(stats.TotalNodes, stats.TotalRelationships)
	return stats, nil
}

// Density is relationships over the n(n-1) possible directed pairs, capped
// at 1. Graphs with fewer than two nodes have density 0.
func Density(nodes, rels int64) float64 {
	if nodes <= 1 {
		return 0
	}
	return math.Min(1, float64(rels)/float64(nodes*(nodes-1)))
}

// Health probes the store. It never returns an error; failures are reported
// in the result.
func (e *Engine) Health(ctx context.Context) *HealthCheck {
	hc := &HealthCheck{Database: e.db.GetDatabaseName()}
	records, err := e.db.ExecuteReadQuery(ctx, healthQuery, nil)
	switch {
	case err != nil:
		slog.Error("health check failed", "error", err)
		hc.Status = StatusDown
		hc.Message = fmt.Sprintf("System error: %v", err)
	case len(records) == 0:
		hc.Status = StatusDegraded
		hc.Message = "Database connection failed"
	default:
		hc.Status = StatusOperational
		hc.Neo4jConnected = true
		hc.Message = "System is operational"
	}
	return hc
}
