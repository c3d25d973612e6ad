package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(edges ...[2]string) *Digraph {
	g := NewDigraph()
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	return g
}

func TestDigraph(t *testing.T) {
	g := NewDigraph()
	assert.True(t, g.AddEdge("a", "b"))
	assert.False(t, g.AddEdge("a", "b"), "parallel edge should collapse")
	assert.True(t, g.AddEdge("b", "a"))
	assert.True(t, g.AddEdge("c", "c"))

	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
	assert.Equal(t, 3, g.EdgeCount())

	c, ok := g.Index("c")
	require.True(t, ok)
	assert.Equal(t, 1, g.OutDegree(c))
	assert.Equal(t, 1, g.InDegree(c))

	adj, m := g.undirected()
	assert.Equal(t, 1, m, "self-loop dropped and reciprocal edges merged")
	assert.Empty(t, adj[c])
}

func TestPageRank(t *testing.T) {
	ctx := context.Background()

	t.Run("cycle gives equal scores", func(t *testing.T) {
		g := build([2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "a"})
		res, err := PageRank(ctx, g, DefaultPageRankOptions())
		require.NoError(t, err)
		assert.True(t, res.Converged)
		for _, s := range res.Scores {
			assert.InDelta(t, 1.0/3, s, 1e-9)
		}
	})

	t.Run("star hub ranks highest and mass is conserved", func(t *testing.T) {
		g := build([2]string{"x", "hub"}, [2]string{"y", "hub"}, [2]string{"z", "hub"})
		res, err := PageRank(ctx, g, DefaultPageRankOptions())
		require.NoError(t, err)
		hub, _ := g.Index("hub")

		var sum float64
		for i, s := range res.Scores {
			sum += s
			if i != hub {
				assert.Less(t, s, res.Scores[hub])
				assert.InDelta(t, 0.15267, s, 1e-4)
			}
		}
		assert.InDelta(t, 0.54198, res.Scores[hub], 1e-4)
		assert.InDelta(t, 1.0, sum, 1e-9)
	})

	t.Run("empty graph", func(t *testing.T) {
		res, err := PageRank(ctx, NewDigraph(), DefaultPageRankOptions())
		require.NoError(t, err)
		assert.Empty(t, res.Scores)
	})

	t.Run("iteration cap is not an error", func(t *testing.T) {
		g := build([2]string{"x", "hub"}, [2]string{"y", "hub"})
		opts := DefaultPageRankOptions()
		opts.MaxIterations = 1
		res, err := PageRank(ctx, g, opts)
		require.NoError(t, err)
		assert.False(t, res.Converged)
		assert.Equal(t, 1, res.Iterations)
	})

	t.Run("invalid options", func(t *testing.T) {
		opts := DefaultPageRankOptions()
		opts.Damping = 1
		_, err := PageRank(ctx, NewDigraph(), opts)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := PageRank(cctx, build([2]string{"a", "b"}), DefaultPageRankOptions())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBetweenness(t *testing.T) {
	ctx := context.Background()

	t.Run("path midpoint", func(t *testing.T) {
		g := build([2]string{"a", "b"}, [2]string{"b", "c"})
		cb, err := Betweenness(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0.5, 0}, cb)
	})

	t.Run("bridge node", func(t *testing.T) {
		g := build(
			[2]string{"in1", "mid"}, [2]string{"in2", "mid"},
			[2]string{"mid", "out1"}, [2]string{"mid", "out2"},
		)
		cb, err := Betweenness(ctx, g)
		require.NoError(t, err)
		mid, _ := g.Index("mid")
		for i, s := range cb {
			if i == mid {
				assert.InDelta(t, 1.0/3, s, 1e-12)
			} else {
				assert.Zero(t, s)
			}
		}
	})

	t.Run("two nodes stay at zero", func(t *testing.T) {
		cb, err := Betweenness(ctx, build([2]string{"a", "b"}))
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, cb)
	})
}

func TestGreedyModularity(t *testing.T) {
	ctx := context.Background()

	t.Run("two triangles joined by a bridge", func(t *testing.T) {
		g := build(
			[2]string{"0", "1"}, [2]string{"1", "2"}, [2]string{"2", "0"},
			[2]string{"3", "4"}, [2]string{"4", "5"}, [2]string{"5", "3"},
			[2]string{"2", "3"},
		)
		p, err := GreedyModularity(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1, 2}, {3, 4, 5}}, p.Communities)
		assert.InDelta(t, 5.0/14, p.Modularity, 1e-9)
	})

	t.Run("disjoint pairs", func(t *testing.T) {
		g := build([2]string{"a", "b"}, [2]string{"c", "d"})
		p, err := GreedyModularity(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0, 1}, {2, 3}}, p.Communities)
		assert.InDelta(t, 0.5, p.Modularity, 1e-9)
	})

	t.Run("no edges leaves singletons", func(t *testing.T) {
		g := NewDigraph()
		g.AddNode("a")
		g.AddNode("b")
		g.AddEdge("c", "c")
		p, err := GreedyModularity(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, [][]int{{0}, {1}, {2}}, p.Communities)
		assert.Zero(t, p.Merges)
	})

	t.Run("deterministic across runs", func(t *testing.T) {
		edges := [][2]string{
			{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"},
			{"d", "e"}, {"e", "f"}, {"f", "d"}, {"g", "h"},
		}
		first, err := GreedyModularity(ctx, build(edges...))
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			again, err := GreedyModularity(ctx, build(edges...))
			require.NoError(t, err)
			assert.Equal(t, first.Communities, again.Communities)
		}
	})
}
