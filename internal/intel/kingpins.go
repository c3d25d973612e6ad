package intel

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/graph"
	"github.com/mkd-neo4j/neo4j-mcp-crimegraph/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultTopK = 10
	MaxTopK     = 100
)

// CentralityRelations are the relationship types the influence ranking reads.
var CentralityRelations = []string{"MADE", "SENT", "USES", "OWNS", "RUNS_ON"}

var centralityQuery = fmt.Sprintf(`MATCH (n)-[r]->(m)
WHERE type(r) IN $types
WITH %s AS from_node, %s AS to_node
WHERE from_node IS NOT NULL AND to_node IS NOT NULL
RETURN from_node, to_node
ORDER BY from_node, to_node`, fmt.Sprintf(canonicalKey, "n"), fmt.Sprintf(canonicalKey, "m"))

const (
	weightPageRank    = 0.4
	weightBetweenness = 0.3
	weightInDegree    = 0.15
	weightOutDegree   = 0.15
)

func influenceRisk(score float64) RiskLevel {
	switch {
	case score > 0.5:
		return RiskHigh
	case score > 0.2:
		return RiskMedium
	default:
		return RiskLow
	}
}

// DetectKingpins ranks entities by a blend of PageRank, betweenness and
// relative in/out degree and returns the topK most influential. Equal scores
// keep first-seen order.
func (e *Engine) DetectKingpins(ctx context.Context, topK int) (kingpins []Kingpin, err error) {
	defer metrics.ObserveOperation("detect-kingpins", time.Now(), &err)
	ctx, span := tracer.Start(ctx, "intel.DetectKingpins")
	defer span.End()

	if topK <= 0 {
		topK = DefaultTopK
	}

	records, err := e.db.ExecuteReadQuery(ctx, centralityQuery, map[string]any{"types": CentralityRelations})
	if err != nil {
		return nil, fmt.Errorf("centrality edge query: %w", err)
	}

	g := graph.NewDigraph()
	for _, rec := range records {
		from, to := stringValue(rec, "from_node"), stringValue(rec, "to_node")
		if from == "" || to == "" {
			continue
		}
		g.AddEdge(from, to)
	}
	kingpins = []Kingpin{}
	if g.NodeCount() == 0 {
		return kingpins, nil
	}

	pr, err := graph.PageRank(ctx, g, graph.DefaultPageRankOptions())
	if err != nil {
		return nil, err
	}
	if !pr.Converged {
		slog.Warn("pagerank did not converge", "iterations", pr.Iterations)
	}
	bc, err := graph.Betweenness(ctx, g)
	if err != nil {
		return nil, err
	}

	maxIn, maxOut := 0, 0
	for i := 0; i < g.NodeCount(); i++ {
		maxIn = max(maxIn, g.InDegree(i))
		maxOut = max(maxOut, g.OutDegree(i))
	}

	for i := 0; i < g.NodeCount(); i++ {
		in, out := g.InDegree(i), g.OutDegree(i)
		score := weightPageRank*pr.Scores[i] + weightBetweenness*bc[i]
		if maxIn > 0 {
			score += weightInDegree * float64(in) / float64(maxIn)
		}
		if maxOut > 0 {
			score += weightOutDegree * float64(out) / float64(maxOut)
		}
		id := g.ID(i)
		kingpins = append(kingpins, Kingpin{
			EntityID:              id,
			EntityType:            EntityType(id),
			InfluenceScore:        score,
			PageRankScore:         pr.Scores[i],
			BetweennessCentrality: bc[i],
			InDegree:              in,
			OutDegree:             out,
			Connections:           in + out,
			RiskLevel:             influenceRisk(score),
			ConnectedRings:        []string{},
		})
	}

	sort.SliceStable(kingpins, func(a, b int) bool {
		return kingpins[a].InfluenceScore > kingpins[b].InfluenceScore
	})
	if len(kingpins) > topK {
		kingpins = kingpins[:topK]
	}

	span.SetAttributes(attribute.Int("kingpins.nodes", g.NodeCount()), attribute.Int("kingpins.returned", len(kingpins)))
	slog.Info("kingpins identified", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "returned", len(kingpins))
	return kingpins, nil
}
