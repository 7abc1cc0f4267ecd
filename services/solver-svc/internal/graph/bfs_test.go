package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Empty())

	q.Push(3)
	q.Push(1)
	q.Push(2)
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 3, q.Pop())
	assert.Equal(t, 1, q.Pop())
	assert.Equal(t, 1, q.Len())

	q.Reset()
	assert.True(t, q.Empty())
	assert.Panics(t, func() { q.Pop() })
}

func TestReachableResidual(t *testing.T) {
	g := NewResidualGraph(4)
	a := g.AddEdge(0, 1, 1, 1)
	g.AddEdge(1, 2, 1, 1)

	assert.Equal(t, []bool{true, true, true, false}, ReachableResidual(g, 0))

	// Насыщенное ребро закрывает путь, обратное ребро открывается
	g.PushFlow(a, 1)
	assert.Equal(t, []bool{true, false, false, false}, ReachableResidual(g, 0))
	assert.Equal(t, []bool{true, true, true, false}, ReachableResidual(g, 1))

	assert.Equal(t, []bool{false, false, false, false}, ReachableResidual(g, 7))
}

func TestReachableByFlow(t *testing.T) {
	g := NewResidualGraph(3)
	a := g.AddEdge(0, 1, 1, 1)
	g.AddEdge(1, 2, 1, 1)

	assert.Equal(t, []bool{true, false, false}, ReachableByFlow(g, 0))

	g.PushFlow(a, 1)
	assert.Equal(t, []bool{true, true, false}, ReachableByFlow(g, 0))
}
