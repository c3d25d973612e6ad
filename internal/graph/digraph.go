// Package graph holds the in-memory graph structures and the deterministic
// algorithms (PageRank, betweenness, greedy modularity) run over projections
// pulled from Neo4j.
package graph

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("crimegraph/graph")

// Digraph is a simple directed graph keyed by string ids.
//
// Nodes keep the order in which they were first seen, and every algorithm in
// this package iterates in that order so results are reproducible for a given
// input sequence. Parallel edges collapse into one; self-loops are kept.
type Digraph struct {
	ids   []string
	index map[string]int
	succ  [][]int
	pred  [][]int
	edges map[[2]int]struct{}
}

// NewDigraph returns an empty graph.
func NewDigraph() *Digraph {
	return &Digraph{
		index: make(map[string]int),
		edges: make(map[[2]int]struct{}),
	}
}

// AddNode registers id if it is new and returns its index.
func (g *Digraph) AddNode(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	g.succ = append(g.succ, nil)
	g.pred = append(g.pred, nil)
	return i
}

// AddEdge adds from -> to, creating either endpoint as needed.
// It reports whether the edge was new.
func (g *Digraph) AddEdge(from, to string) bool {
	u := g.AddNode(from)
	v := g.AddNode(to)
	key := [2]int{u, v}
	if _, ok := g.edges[key]; ok {
		return false
	}
	g.edges[key] = struct{}{}
	g.succ[u] = append(g.succ[u], v)
	g.pred[v] = append(g.pred[v], u)
	return true
}

func (g *Digraph) NodeCount() int { return len(g.ids) }

func (g *Digraph) EdgeCount() int { return len(g.edges) }

// Nodes returns the node ids in first-seen order.
func (g *Digraph) Nodes() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// ID returns the id stored at index i.
func (g *Digraph) ID(i int) string { return g.ids[i] }

// Index looks up the index of id.
func (g *Digraph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

func (g *Digraph) OutDegree(i int) int { return len(g.succ[i]) }

func (g *Digraph) InDegree(i int) int { return len(g.pred[i]) }

// Successors returns the targets of edges leaving i, in insertion order.
func (g *Digraph) Successors(i int) []int { return g.succ[i] }

// undirected collapses the graph into symmetric adjacency sets, dropping
// self-loops and merging u->v with v->u.
func (g *Digraph) undirected() ([]map[int]struct{}, int) {
	adj := make([]map[int]struct{}, len(g.ids))
	for i := range adj {
		adj[i] = make(map[int]struct{})
	}
	m := 0
	for u, targets := range g.succ {
		for _, v := range targets {
			if u == v {
				continue
			}
			if _, ok := adj[u][v]; ok {
				continue
			}
			adj[u][v] = struct{}{}
			adj[v][u] = struct{}{}
			m++
		}
	}
	return adj, m
}
