package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeMode(t *testing.T) {
	tests := []struct {
		input    string
		expected EdgeMode
		stride   int
		wantErr  bool
	}{
		{"", ModeUndirected, UndirectedStride, false},
		{"undirected", ModeUndirected, UndirectedStride, false},
		{"Directed", ModeDirected, DirectedStride, false},
		{" directed ", ModeDirected, DirectedStride, false},
		{"mixed", ModeUndirected, UndirectedStride, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := ParseEdgeMode(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, mode)
			assert.Equal(t, tt.stride, mode.Stride())
		})
	}

	assert.Equal(t, "undirected", ModeUndirected.String())
	assert.Equal(t, "directed", ModeDirected.String())
}

func TestIsSupportedFormat(t *testing.T) {
	for _, f := range SupportedFormats {
		assert.True(t, IsSupportedFormat(f), f)
	}
	assert.False(t, IsSupportedFormat("yaml"))
	assert.False(t, IsSupportedFormat(""))
}

func TestAddDistance(t *testing.T) {
	tests := []struct {
		a, b     int64
		expected int64
	}{
		{1, 2, 3},
		{-5, 2, -3},
		{Infinity, 1, Infinity},
		{1, Infinity, Infinity},
		{Infinity, -10, Infinity},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, AddDistance(tt.a, tt.b))
	}
	assert.True(t, IsInfinite(Infinity))
	assert.False(t, IsInfinite(0))
}
