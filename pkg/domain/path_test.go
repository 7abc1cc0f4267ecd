package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolution_PathCostSum(t *testing.T) {
	s := &Solution{
		Feasible: true,
		K:        2,
		Paths: []Path{
			{Edges: []int{1, 2}, Vertices: []int{1, 2, 3}, Cost: 3},
			{Edges: []int{3}, Vertices: []int{1, 3}, Cost: 5},
		},
		EdgeFlows: map[int]int64{1: 1, 2: 1, 3: 1},
	}

	assert.Equal(t, int64(8), s.PathCostSum())
	assert.Equal(t, int64(1), s.FlowOf(2))
	assert.Equal(t, int64(0), s.FlowOf(9))
	assert.Equal(t, 2, s.Paths[0].Len())
}

func TestAverageOf(t *testing.T) {
	assert.Equal(t, 0.0, AverageOf(10, 0))
	assert.Equal(t, 4.0, AverageOf(8, 2))
	assert.InDelta(t, 3.333333, AverageOf(10, 3), 1e-6)
}

func TestSolution_Clone(t *testing.T) {
	s := &Solution{
		Feasible:  true,
		Paths:     []Path{{Edges: []int{1}, Vertices: []int{1, 2}, Cost: 1}},
		EdgeFlows: map[int]int64{1: 1},
	}

	clone := s.Clone()
	clone.Paths[0].Edges[0] = 42
	clone.EdgeFlows[1] = 7

	assert.Equal(t, 1, s.Paths[0].Edges[0])
	assert.Equal(t, int64(1), s.EdgeFlows[1])
}

func TestSolution_JSON(t *testing.T) {
	s := InfeasibleSolution(3, 2)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Solution
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.Feasible)
	assert.Equal(t, 3, decoded.K)
	assert.Equal(t, 2, decoded.Rounds)
}
