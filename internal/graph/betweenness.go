package graph

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

// Betweenness computes normalised shortest-path betweenness for every node
// using Brandes' algorithm over unweighted directed paths.
//
// Scores are scaled by 1/((n-1)(n-2)). Graphs with fewer than three nodes
// are returned unscaled, which leaves every score at zero.
func Betweenness(ctx context.Context, g *Digraph) ([]float64, error) {
	ctx, span := tracer.Start(ctx, "graph.Betweenness")
	defer span.End()

	n := g.NodeCount()
	span.SetAttributes(attribute.Int("graph.nodes", n))

	cb := make([]float64, n)
	sigma := make([]float64, n)
	dist := make([]int, n)
	delta := make([]float64, n)
	preds := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for i := 0; i < n; i++ {
			sigma[i] = 0
			dist[i] = -1
			delta[i] = 0
			preds[i] = preds[i][:0]
		}
		sigma[s] = 1
		dist[s] = 0
		stack = stack[:0]
		queue = append(queue[:0], s)

		for head := 0; head < len(queue); head++ {
			v := queue[head]
			stack = append(stack, v)
			for _, w := range g.Successors(v) {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				cb[w] += delta[w]
			}
		}
	}

	if n > 2 {
		scale := 1 / float64((n-1)*(n-2))
		for i := range cb {
			cb[i] *= scale
		}
	}
	return cb, nil
}
