package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kflow/pkg/apperror"
	"kflow/pkg/domain"
)

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize(strings.NewReader("3 2 1\n 1\t2 5\r\n\n2 3 4\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 9)

	assert.Equal(t, Token{Text: "3", Line: 1, Column: 1, Index: 0}, tokens[0])
	assert.Equal(t, Token{Text: "1", Line: 2, Column: 2, Index: 3}, tokens[3])
	assert.Equal(t, Token{Text: "2", Line: 2, Column: 4, Index: 4}, tokens[4])
	assert.Equal(t, Token{Text: "4", Line: 4, Column: 5, Index: 8}, tokens[8])
}

func TestParse(t *testing.T) {
	p, err := ParseString("3 3 2\n1 2 1\n2 3 2\n1 3 5\n", Options{Name: "triangle"})
	require.NoError(t, err)

	assert.Equal(t, "triangle", p.Name)
	assert.Equal(t, 3, p.VertexCount)
	assert.Equal(t, 2, p.K)
	assert.Equal(t, 0, p.Source)
	assert.Equal(t, 2, p.Sink)
	assert.Equal(t, domain.ModeUndirected, p.Mode)
	assert.Equal(t, []domain.InputEdge{
		{Index: 1, From: 0, To: 1, Cost: 1},
		{Index: 2, From: 1, To: 2, Cost: 2},
		{Index: 3, From: 0, To: 2, Cost: 5},
	}, p.Edges)
}

func TestParse_SingleLine(t *testing.T) {
	p, err := ParseString("2 1 1 1 2 7", Options{})
	require.NoError(t, err)
	require.Len(t, p.Edges, 1)
	assert.Equal(t, int64(7), p.Edges[0].Cost)
}

func TestParse_NoEdges(t *testing.T) {
	p, err := ParseString("4 0 0", Options{})
	require.NoError(t, err)
	assert.Empty(t, p.Edges)
	assert.Equal(t, 3, p.Sink)
}

func TestParse_Overrides(t *testing.T) {
	p, err := ParseString("4 1 1\n2 3 1\n", Options{Source: 2, Sink: 3, Mode: domain.ModeDirected})
	require.NoError(t, err)
	assert.Equal(t, 1, p.Source)
	assert.Equal(t, 2, p.Sink)
	assert.Equal(t, domain.ModeDirected, p.Mode)
}

func TestParse_DirectedNegativeCost(t *testing.T) {
	p, err := ParseString("2 1 1\n1 2 -4\n", Options{Mode: domain.ModeDirected})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), p.Edges[0].Cost)
}

func TestParse_CostLimit(t *testing.T) {
	limit := domain.MaxAbsCost(3, 2)
	input := fmt.Sprintf("3 2 1\n1 2 %d\n2 3 %d\n", limit, limit)

	p, err := ParseString(input, Options{})
	require.NoError(t, err)
	assert.Equal(t, limit, p.Edges[0].Cost)

	_, err = ParseString(fmt.Sprintf("3 2 1\n1 2 %d\n2 3 1\n", limit+1), Options{})
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidInput, apperror.Code(err))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		opts     Options
		code     apperror.ErrorCode
		contains string
	}{
		{
			name:     "empty",
			input:    "",
			code:     apperror.CodeInvalidInput,
			contains: "header needs 3 integers",
		},
		{
			name:     "not an integer",
			input:    "3 x 1",
			code:     apperror.CodeInvalidInput,
			contains: "line 1, column 3",
		},
		{
			name:     "zero vertices",
			input:    "0 0 0",
			code:     apperror.CodeInvalidGraph,
			contains: "vertex count must be positive",
		},
		{
			name:     "negative k",
			input:    "2 0 -1",
			code:     apperror.CodeInvalidDemand,
			contains: "required flow must be non-negative",
		},
		{
			name:     "too many vertices",
			input:    "100000000000000 0 0\n",
			code:     apperror.CodeInvalidGraph,
			contains: "vertex count 100000000000000 exceeds limit 16777216",
		},
		{
			name:     "too many edges",
			input:    "2 100000000000 1\n",
			code:     apperror.CodeInvalidGraph,
			contains: "edge count 100000000000 exceeds limit",
		},
		{
			name:     "k above limit",
			input:    "1 0 100000000000000\n",
			code:     apperror.CodeInvalidDemand,
			contains: "required flow 100000000000000 exceeds limit",
		},
		{
			name:     "cost equal to max int64",
			input:    "2 1 1\n1 2 9223372036854775807\n",
			code:     apperror.CodeInvalidInput,
			contains: "line 2, column 5: edge 1 cost 9223372036854775807 outside",
		},
		{
			name:     "path sum overflows int64",
			input:    "3 2 1\n1 2 5000000000000000000\n2 3 5000000000000000000\n",
			code:     apperror.CodeInvalidInput,
			contains: "edge 2 cost 5000000000000000000 outside",
		},
		{
			name:     "directed cost below limit",
			input:    "2 1 1\n1 2 -9223372036854775808\n",
			opts:     Options{Mode: domain.ModeDirected},
			code:     apperror.CodeInvalidInput,
			contains: "edge 1 cost -9223372036854775808 outside",
		},
		{
			name:     "missing edge tokens",
			input:    "3 2 1\n1 2 1\n2 3\n",
			code:     apperror.CodeInvalidInput,
			contains: "expected 6 edge tokens for 2 edges, got 5",
		},
		{
			name:     "trailing tokens",
			input:    "2 1 1\n1 2 1 9\n",
			code:     apperror.CodeInvalidInput,
			contains: "got 4",
		},
		{
			name:     "vertex out of range",
			input:    "3 1 1\n1 4 1\n",
			code:     apperror.CodeInvalidVertex,
			contains: "line 2, column 3: vertex 4 out of range [1, 3]",
		},
		{
			name:     "undirected negative cost",
			input:    "2 1 1\n1 2 -1\n",
			code:     apperror.CodeNegativeCost,
			contains: "negative cost -1",
		},
		{
			name:     "source override out of range",
			input:    "2 0 0",
			opts:     Options{Source: 5},
			code:     apperror.CodeInvalidVertex,
			contains: "source 5 out of range",
		},
		{
			name:     "several errors",
			input:    "2 2 1\n1 3 1\n0 2 1\n",
			code:     apperror.CodeInvalidInput,
			contains: "vertex 3 out of range [1, 2]; line 3, column 1: vertex 0 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseString(tt.input, tt.opts)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, tt.code, apperror.Code(err))
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_SeveralErrorsDetails(t *testing.T) {
	_, err := ParseString("2 2 1\n1 3 1\n0 2 1\n", Options{})
	require.Error(t, err)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 2, appErr.Details["count"])
}
