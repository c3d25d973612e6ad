package intel

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	RingMoneyLaundering = "money_laundering"
	RingCallCenter      = "call_center"
	RingSIMMule         = "sim_mule"
)

// RingTypes lists the ring classifications.
var RingTypes = []string{RingSIMMule, RingCallCenter, RingMoneyLaundering}

const ringEdgesQuery = `MATCH (a)-[r:MADE|SENT]->(b)
WITH coalesce(a.phone_number, a.account_number) AS from_node,
     coalesce(b.phone_number, b.account_number) AS to_node,
     type(r) AS relation,
     r.amount AS amount
WHERE from_node IS NOT NULL AND to_node IS NOT NULL
RETURN from_node, to_node, relation, amount
ORDER BY from_node, to_node`

// classifyRing labels a community from its activity totals.
func classifyRing(totalCalls int, totalMoved float64) string {
	switch {
	case totalMoved > 100000:
		return RingMoneyLaundering
	case totalCalls > 500:
		return RingCallCenter
	default:
		return RingSIMMule
	}
}

// DetectFraudRings clusters the call and money-transfer network by greedy
// modularity and describes every community with more than one member.
// A non-empty ringType keeps only rings of that classification.
func (e *Engine) DetectFraudRings(ctx context.Context, ringType string) (rings []FraudRing, err error) {
	defer metrics.ObserveOperation("detect-fraud-rings", time.Now(), &err)
	ctx, span := tracer.Start(ctx, "intel.DetectFraudRings")
	defer span.End()

	records, err := e.db.ExecuteReadQuery(ctx, ringEdgesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("fraud ring edge query: %w", err)
	}

	g := graph.NewDigraph()
	calls := make(map[[2]int]int)
	moved := make(map[[2]int]float64)
	for _, rec := range records {
		from, to := stringValue(rec, "from_node"), stringValue(rec, "to_node")
		if from == "" || to == "" {
			continue
		}
		g.AddEdge(from, to)
		u, _ := g.Index(from)
		v, _ := g.Index(to)
		pair := [2]int{u, v}
		switch stringValue(rec, "relation") {
		case "MADE":
			calls[pair]++
		case "SENT":
			amount, _ := numberValue(rec, "amount")
			moved[pair] += amount
		}
	}

	partition, err := graph.GreedyModularity(ctx, g)
	if err != nil {
		return nil, err
	}

	rings = []FraudRing{}
	inRing := make([]bool, g.NodeCount())
	for n, community := range partition.Communities {
		if len(community) < 2 {
			continue
		}
		for _, u := range community {
			inRing[u] = true
		}

		totalCalls, totalMoved := 0, 0.0
		members := make([]string, len(community))
		for i, u := range community {
			members[i] = g.ID(u)
			for _, v := range g.Successors(u) {
				if inRing[v] {
					totalCalls += calls[[2]int{u, v}]
					totalMoved += moved[[2]int{u, v}]
				}
			}
		}
		for _, u := range community {
			inRing[u] = false
		}

		size := float64(len(community))
		ring := FraudRing{
			RingID:          fmt.Sprintf("ring_%d", n),
			MemberCount:     len(community),
			Members:         members,
			TotalCalls:      totalCalls,
			TotalMoneyMoved: totalMoved,
			RiskScore:       math.Min(100, size*10+float64(totalCalls)/10+totalMoved/1000),
			RingType:        classifyRing(totalCalls, totalMoved),
			Confidence:      math.Min(0.99, size/100),
		}
		if ringType != "" && ring.RingType != ringType {
			continue
		}
		rings = append(rings, ring)
	}

	span.SetAttributes(attribute.Int("rings.count", len(rings)), attribute.Float64("rings.modularity", partition.Modularity))
	slog.Info("fraud rings detected", "rings", len(rings), "communities", len(partition.Communities),
		"modularity", partition.Modularity, "filter", ringType)
	return rings, nil
}
