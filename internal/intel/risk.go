package intel

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/metrics"
)

const connectionCountQuery = `MATCH (n)
WHERE (n:Phone AND n.phone_number = $entity_id) OR (n:BankAccount AND n.account_number = $entity_id)
OPTIONAL MATCH (n)--(m)
RETURN count(DISTINCT m) AS connection_count`

const (
	FactorConnectionCount = "connection_count"
	FactorEventCount      = "event_count"
	FactorNetworkDensity  = "network_density"
)

var recommendations = map[RiskLevel][]string{
	RiskHigh: {
		"Immediate investigation recommended",
		"Monitor all associated entities",
		"Block suspicious accounts",
	},
	RiskMedium: {
		"Enhanced monitoring advised",
		"Review recent transactions",
	},
}

// AssessRisk scores an entity from its neighbour count and timeline volume.
func (e *Engine) AssessRisk(ctx context.Context, entityID string) (ra *RiskAssessment, err error) {
	defer metrics.ObserveOperation("assess-risk", time.Now(), &err)
	ctx, span := tracer.Start(ctx, "intel.AssessRisk")
	defer span.End()

	records, err := e.db.ExecuteReadQuery(ctx, connectionCountQuery, map[string]any{"entity_id": entityID})
	if err != nil {
		return nil, fmt.Errorf("connection count query for %q: %w", entityID, err)
	}
	var connections int64
	if len(records) > 0 {
		connections = intValue(records[0], "connection_count")
	}

	tl, err := e.Timeline(ctx, entityID)
	if err != nil {
		return nil, err
	}

	ra = ScoreRisk(entityID, int(connections), tl.EventCount)
	ra.LastUpdated = e.timestamp()
	return ra, nil
}

// ScoreRisk combines the three clamped factors into a 0-100 score.
func ScoreRisk(entityID string, connections, events int) *RiskAssessment {
	factors := map[string]float64{
		FactorConnectionCount: clamp100(float64(connections) * 10),
		FactorEventCount:      clamp100(float64(events) * 5),
		FactorNetworkDensity:  clamp100(float64(connections) / float64(max(1, events)) * 20),
	}
	score := (factors[FactorConnectionCount] + factors[FactorEventCount] + factors[FactorNetworkDensity]) / 3

	level := RiskLow
	switch {
	case score > 70:
		level = RiskHigh
	case score > 40:
		level = RiskMedium
	}

	recs := append([]string{}, recommendations[level]...)
	return &RiskAssessment{
		EntityID:        entityID,
		EntityType:      EntityType(entityID),
		RiskLevel:       level,
		RiskScore:       score,
		Factors:         factors,
		Recommendations: recs,
	}
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
