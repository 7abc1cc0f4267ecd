// Package algorithms implements the minimum-cost k-unit flow computation:
// a shortest-path engine over reduced costs, Bellman-Ford initial potentials,
// the successive-shortest-paths driver and the decomposition of the final
// flow into unit paths.
//
// # Thread Safety
//
// The functions mutate the residual graph they are given and are NOT safe for
// concurrent use on the same graph. Clone the graph per goroutine.
//
// # Determinism
//
// Adjacency lists are scanned in insertion order and priority queue ties are
// broken by vertex index, so equal inputs always yield equal paths.
//
// # Context Support
//
// The driver checks the context once per augmentation round and the
// shortest-path engine every few hundred settled vertices. Expiry surfaces as
// an apperror with CodeTimeout or CodeCancelled.
//
// # Example Usage
//
//	g := graph.NewResidualGraph(3)
//	g.AddEdge(0, 1, 1, 1)
//	g.AddEdge(1, 2, 1, 2)
//	g.AddEdge(0, 2, 1, 5)
//
//	res, err := algorithms.MinCostKFlow(ctx, g, 0, 2, 2, nil)
//	if err != nil {
//	    return err
//	}
//	if res.Status == algorithms.StateDone {
//	    paths, err := algorithms.DecomposePaths(g, 0, 2, 2)
//	    ...
//	}
package algorithms

import (
	"fmt"
	"time"

	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/graph"
)

// =============================================================================
// Solver Options
// =============================================================================

// SolverOptions configures the driver. A nil *SolverOptions means
// DefaultSolverOptions().
type SolverOptions struct {
	// TrackDistances keeps the true-distance table of every round in
	// FlowResult.Distances.
	TrackDistances bool

	// KeepRoundPaths keeps the edge ids augmented in every round in
	// FlowResult.RoundPaths.
	KeepRoundPaths bool

	// CheckInvariants verifies capacity bounds and the forward/reverse flow
	// mirror after every augmentation. A violation is a critical error.
	CheckInvariants bool

	// Timeout bounds the whole run on top of the caller's context.
	// Zero means no extra bound.
	Timeout time.Duration
}

// DefaultSolverOptions returns options with every optional history disabled.
func DefaultSolverOptions() *SolverOptions {
	return &SolverOptions{}
}

// WithTrackDistances enables distance history and returns the options for chaining.
func (o *SolverOptions) WithTrackDistances(track bool) *SolverOptions {
	o.TrackDistances = track
	return o
}

// WithRoundPaths enables per-round path history and returns the options for chaining.
func (o *SolverOptions) WithRoundPaths(keep bool) *SolverOptions {
	o.KeepRoundPaths = keep
	return o
}

// WithInvariantChecks enables per-round invariant checks and returns the options for chaining.
func (o *SolverOptions) WithInvariantChecks(check bool) *SolverOptions {
	o.CheckInvariants = check
	return o
}

// WithTimeout sets the timeout and returns the options for chaining.
func (o *SolverOptions) WithTimeout(timeout time.Duration) *SolverOptions {
	o.Timeout = timeout
	return o
}

// =============================================================================
// Validation
// =============================================================================

// validateGraph checks the graph and the endpoints before any computation.
func validateGraph(g *graph.ResidualGraph, source, sink int) error {
	if g == nil {
		return apperror.ErrNilGraph
	}

	n := g.VertexCount()
	if source < 0 || source >= n {
		return apperror.New(apperror.CodeInvalidVertex, fmt.Sprintf("source %d out of range [0, %d)", source, n)).
			WithField("source")
	}
	if sink < 0 || sink >= n {
		return apperror.New(apperror.CodeInvalidVertex, fmt.Sprintf("sink %d out of range [0, %d)", sink, n)).
			WithField("sink")
	}
	return nil
}

// internalFault builds the critical error used for broken invariants.
func internalFault(code apperror.ErrorCode, format string, args ...any) *apperror.Error {
	return apperror.NewCritical(code, fmt.Sprintf(format, args...))
}
