package graph

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel/attribute"
)

// Partition is the outcome of community detection. Each community lists node
// indexes in ascending order; communities are ordered by size descending,
// then by their lowest member.
type Partition struct {
	Communities [][]int
	Modularity  float64
	Merges      int
}

// GreedyModularity partitions g with the Clauset-Newman-Moore agglomerative
// heuristic. Edge direction is ignored and self-loops are dropped.
//
// Every node starts alone; the pair of adjacent communities with the largest
// modularity gain is merged until no merge improves modularity. Ties go to
// the lowest community index and then the lowest neighbour index, and the
// merged community keeps the lower index.
func GreedyModularity(ctx context.Context, g *Digraph) (*Partition, error) {
	ctx, span := tracer.Start(ctx, "graph.GreedyModularity")
	defer span.End()

	n := g.NodeCount()
	adj, m := g.undirected()
	span.SetAttributes(attribute.Int("graph.nodes", n), attribute.Int("graph.undirected_edges", m))

	members := make([][]int, n)
	for i := range members {
		members[i] = []int{i}
	}
	if m == 0 {
		return &Partition{Communities: orderCommunities(members)}, nil
	}

	twoM := float64(2 * m)
	a := make([]float64, n)
	q := 0.0
	for i := 0; i < n; i++ {
		a[i] = float64(len(adj[i])) / twoM
		q -= a[i] * a[i]
	}

	// dq[i][j] is the modularity gain of merging communities i and j.
	dq := make([]map[int]float64, n)
	for i := 0; i < n; i++ {
		dq[i] = make(map[int]float64, len(adj[i]))
		for j := range adj[i] {
			dq[i][j] = 2 * (1/twoM - a[i]*a[j])
		}
	}
	active := make([]bool, n)
	for i := range active {
		active[i] = true
	}

	merges := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best, bi, bj := math.Inf(-1), -1, -1
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j, gain := range dq[i] {
				if j <= i {
					continue
				}
				if gain > best || (gain == best && i == bi && j < bj) {
					best, bi, bj = gain, i, j
				}
			}
		}
		if bi < 0 || best <= 0 {
			break
		}

		for k, gj := range dq[bj] {
			if k == bi {
				continue
			}
			if gi, ok := dq[bi][k]; ok {
				dq[bi][k] = gi + gj
			} else {
				dq[bi][k] = gj - 2*a[bi]*a[k]
			}
		}
		for k, gi := range dq[bi] {
			if k == bj {
				continue
			}
			if _, ok := dq[bj][k]; !ok {
				dq[bi][k] = gi - 2*a[bj]*a[k]
			}
		}
		delete(dq[bi], bj)
		for k, gain := range dq[bi] {
			dq[k][bi] = gain
			delete(dq[k], bj)
		}

		dq[bj] = nil
		active[bj] = false
		a[bi] += a[bj]
		members[bi] = append(members[bi], members[bj]...)
		members[bj] = nil
		q += best
		merges++
	}

	var live [][]int
	for i := 0; i < n; i++ {
		if active[i] {
			live = append(live, members[i])
		}
	}
	span.SetAttributes(attribute.Int("modularity.merges", merges), attribute.Float64("modularity.q", q))
	return &Partition{Communities: orderCommunities(live), Modularity: q, Merges: merges}, nil
}

func orderCommunities(cs [][]int) [][]int {
	out := make([][]int, 0, len(cs))
	for _, c := range cs {
		c = append([]int(nil), c...)
		sort.Ints(c)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i][0] < out[j][0]
	})
	return out
}
