// Package parser reads a k-flow problem from its plain-text token form:
// "n m k" followed by m triples "from to cost" with 1-indexed vertices.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kflow/pkg/apperror"
	"kflow/pkg/domain"
)

// maxLineSize caps a single input line; whole problems often arrive on one line.
const maxLineSize = 64 * 1024 * 1024

// Options tune how tokens become a problem.
type Options struct {
	Name string
	Mode domain.EdgeMode
	// Source and Sink are 1-indexed overrides; zero keeps vertex 1 and vertex n.
	Source int
	Sink   int
}

// Token is a single whitespace-separated word with its position.
type Token struct {
	Text   string
	Line   int
	Column int
	Index  int
}

func (t Token) position() string {
	return fmt.Sprintf("line %d, column %d", t.Line, t.Column)
}

// Tokenize splits r into tokens, keeping line and column positions.
func Tokenize(r io.Reader) ([]Token, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var tokens []Token
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		col := 0
		for col < len(text) {
			for col < len(text) && isSpace(text[col]) {
				col++
			}
			start := col
			for col < len(text) && !isSpace(text[col]) {
				col++
			}
			if col > start {
				tokens = append(tokens, Token{
					Text:   text[start:col],
					Line:   line,
					Column: start + 1,
					Index:  len(tokens),
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidInput, "failed to read input")
	}

	return tokens, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f'
}

// Parse reads a problem from r. Every problem found is reported together
// through apperror.ValidationErrors.
func Parse(r io.Reader, opts Options) (*domain.Problem, error) {
	tokens, err := Tokenize(r)
	if err != nil {
		return nil, err
	}
	return FromTokens(tokens, opts)
}

// ParseString is Parse over an in-memory input.
func ParseString(input string, opts Options) (*domain.Problem, error) {
	return Parse(strings.NewReader(input), opts)
}

// FromTokens builds and validates a problem from already split tokens.
func FromTokens(tokens []Token, opts Options) (*domain.Problem, error) {
	ve := apperror.NewValidationErrors()

	if len(tokens) < 3 {
		ve.AddErrorWithField(apperror.CodeInvalidInput,
			fmt.Sprintf("header needs 3 integers (n m k), got %d tokens", len(tokens)), "header")
		return nil, ve.Err()
	}

	n, okN := readInt(ve, tokens[0], "n")
	m, okM := readInt(ve, tokens[1], "m")
	k, okK := readInt(ve, tokens[2], "k")
	if !okN || !okM || !okK {
		return nil, ve.Err()
	}

	switch {
	case n < 1:
		ve.AddErrorWithField(apperror.CodeInvalidGraph,
			fmt.Sprintf("%s: vertex count must be positive, got %d", tokens[0].position(), n), "n")
	case n > domain.MaxVertices:
		ve.AddErrorWithField(apperror.CodeInvalidGraph,
			fmt.Sprintf("%s: vertex count %d exceeds limit %d", tokens[0].position(), n, domain.MaxVertices), "n")
	}
	switch {
	case m < 0:
		ve.AddErrorWithField(apperror.CodeInvalidGraph,
			fmt.Sprintf("%s: edge count must be non-negative, got %d", tokens[1].position(), m), "m")
	case m > domain.MaxEdges:
		ve.AddErrorWithField(apperror.CodeInvalidGraph,
			fmt.Sprintf("%s: edge count %d exceeds limit %d", tokens[1].position(), m, domain.MaxEdges), "m")
	}
	switch {
	case k < 0:
		ve.AddErrorWithField(apperror.CodeInvalidDemand,
			fmt.Sprintf("%s: required flow must be non-negative, got %d", tokens[2].position(), k), "k")
	case k > domain.MaxDemand:
		ve.AddErrorWithField(apperror.CodeInvalidDemand,
			fmt.Sprintf("%s: required flow %d exceeds limit %d", tokens[2].position(), k, domain.MaxDemand), "k")
	}
	if !ve.IsValid() {
		return nil, ve.Err()
	}

	body := tokens[3:]
	if want := 3 * int64(m); int64(len(body)) != want {
		ve.AddErrorWithField(apperror.CodeInvalidInput,
			fmt.Sprintf("expected %d edge tokens for %d edges, got %d", want, m, len(body)), "edges")
		return nil, ve.Err()
	}

	problem := domain.NewProblem(int(n), int(k))
	problem.Name = opts.Name
	problem.Mode = opts.Mode
	problem.Edges = make([]domain.InputEdge, 0, m)
	costLimit := domain.MaxAbsCost(int(n), int(m))

	for i := 0; i < int(m); i++ {
		index := i + 1
		from, okFrom := readVertex(ve, body[3*i], n, fmt.Sprintf("edges[%d].from", index))
		to, okTo := readVertex(ve, body[3*i+1], n, fmt.Sprintf("edges[%d].to", index))
		cost, okCost := readInt(ve, body[3*i+2], fmt.Sprintf("edges[%d].cost", index))
		if !okFrom || !okTo || !okCost {
			continue
		}

		// Ограничение держит длины путей ниже Infinity
		if !domain.CostInRange(cost, int(n), int(m)) {
			ve.AddErrorWithField(apperror.CodeInvalidInput,
				fmt.Sprintf("%s: edge %d cost %d outside [-%d, %d]", body[3*i+2].position(), index, cost, costLimit, costLimit),
				fmt.Sprintf("edges[%d].cost", index))
			continue
		}

		if opts.Mode == domain.ModeUndirected && cost < 0 {
			ve.AddErrorWithField(apperror.CodeNegativeCost,
				fmt.Sprintf("%s: undirected edge %d has negative cost %d", body[3*i+2].position(), index, cost),
				fmt.Sprintf("edges[%d].cost", index))
			continue
		}

		problem.AddEdge(from, to, cost)
	}

	if opts.Source != 0 {
		problem.Source = opts.Source - 1
		if opts.Source < 1 || int64(opts.Source) > n {
			ve.AddErrorWithField(apperror.CodeInvalidVertex,
				fmt.Sprintf("source %d out of range [1, %d]", opts.Source, n), "source")
		}
	}
	if opts.Sink != 0 {
		problem.Sink = opts.Sink - 1
		if opts.Sink < 1 || int64(opts.Sink) > n {
			ve.AddErrorWithField(apperror.CodeInvalidVertex,
				fmt.Sprintf("sink %d out of range [1, %d]", opts.Sink, n), "sink")
		}
	}

	if err := ve.Err(); err != nil {
		return nil, err
	}
	return problem, nil
}

func readInt(ve *apperror.ValidationErrors, tok Token, field string) (int64, bool) {
	v, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil {
		ve.AddErrorWithField(apperror.CodeInvalidInput,
			fmt.Sprintf("%s: %s is not an integer: %q", tok.position(), field, tok.Text), field)
		return 0, false
	}
	return v, true
}

// readVertex разбирает 1-based номер вершины и возвращает 0-based
func readVertex(ve *apperror.ValidationErrors, tok Token, n int64, field string) (int, bool) {
	v, ok := readInt(ve, tok, field)
	if !ok {
		return 0, false
	}
	if v < 1 || v > n {
		ve.AddErrorWithField(apperror.CodeInvalidVertex,
			fmt.Sprintf("%s: vertex %d out of range [1, %d]", tok.position(), v, n), field)
		return 0, false
	}
	return int(v - 1), true
}
