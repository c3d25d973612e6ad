package graph

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultDamping       = 0.85
	DefaultTolerance     = 1e-6
	DefaultMaxIterations = 100
)

// PageRankOptions configures the power iteration.
type PageRankOptions struct {
	// Damping is the probability of following an edge rather than teleporting.
	Damping float64

	// Tolerance is the per-node convergence threshold. Iteration stops when
	// the L1 change across all nodes drops below NodeCount*Tolerance.
	Tolerance float64

	MaxIterations int
}

// DefaultPageRankOptions returns the settings used by the kingpin ranking.
func DefaultPageRankOptions() PageRankOptions {
	return PageRankOptions{
		Damping:       DefaultDamping,
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Validate rejects out-of-range options.
func (o PageRankOptions) Validate() error {
	if o.Damping <= 0 || o.Damping >= 1 {
		return fmt.Errorf("damping must be in (0, 1), got %v", o.Damping)
	}
	if o.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %v", o.Tolerance)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be at least 1, got %d", o.MaxIterations)
	}
	return nil
}

// PageRankResult holds one score per node index.
type PageRankResult struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// PageRank runs power iteration over g. Rank held by nodes without outgoing
// edges is spread uniformly across every node on each step, so the scores
// always sum to one. Hitting MaxIterations is not an error; the last iterate
// is returned with Converged=false.
func PageRank(ctx context.Context, g *Digraph, opts PageRankOptions) (*PageRankResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ctx, span := tracer.Start(ctx, "graph.PageRank")
	defer span.End()

	n := g.NodeCount()
	span.SetAttributes(attribute.Int("graph.nodes", n), attribute.Int("graph.edges", g.EdgeCount()))
	if n == 0 {
		return &PageRankResult{Converged: true}, nil
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = 1 / float64(n)
	}
	next := make([]float64, n)
	teleport := (1 - opts.Damping) / float64(n)

	res := &PageRankResult{}
	for it := 1; it <= opts.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var dangling float64
		for i := 0; i < n; i++ {
			next[i] = 0
			if g.OutDegree(i) == 0 {
				dangling += x[i]
			}
		}
		for u := 0; u < n; u++ {
			out := g.Successors(u)
			if len(out) == 0 {
				continue
			}
			share := opts.Damping * x[u] / float64(len(out))
			for _, v := range out {
				next[v] += share
			}
		}
		base := teleport + opts.Damping*dangling/float64(n)

		var delta float64
		for i := 0; i < n; i++ {
			next[i] += base
			delta += math.Abs(next[i] - x[i])
		}
		x, next = next, x
		res.Iterations = it

		if delta < float64(n)*opts.Tolerance {
			res.Converged = true
			break
		}
	}

	res.Scores = x
	span.SetAttributes(
		attribute.Int("pagerank.iterations", res.Iterations),
		attribute.Bool("pagerank.converged", res.Converged),
	)
	return res, nil
}
