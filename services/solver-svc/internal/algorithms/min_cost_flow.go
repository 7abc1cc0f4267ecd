package algorithms

import (
	"context"
	"time"

	"kflow/pkg/apperror"
	"kflow/services/solver-svc/internal/graph"
)

// FlowState is the state of the successive-shortest-paths driver.
type FlowState int

const (
	// StateAugmenting means fewer than k units have been routed so far.
	StateAugmenting FlowState = iota
	// StateInfeasible means a round could not reach the sink.
	StateInfeasible
	// StateDone means exactly k units have been routed.
	StateDone
)

// String returns the string representation of the state.
func (s FlowState) String() string {
	switch s {
	case StateAugmenting:
		return "augmenting"
	case StateInfeasible:
		return "infeasible"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// FlowResult is the outcome of MinCostKFlow.
type FlowResult struct {
	Status FlowState

	// Flow is the number of units pushed. On StateInfeasible it equals the
	// maximum flow between source and sink.
	Flow int64

	// Cost is the accumulated true cost. Only meaningful for StateDone.
	Cost int64

	// Rounds is the number of successful augmentations.
	Rounds int

	// UsedBellmanFord reports whether round-0 potentials came from
	// InitialPotentials instead of zeros.
	UsedBellmanFord bool

	// Distances holds the true-distance table of each round when
	// SolverOptions.TrackDistances is set.
	Distances []*graph.DistanceTable

	// RoundPaths holds the edge ids augmented in each round when
	// SolverOptions.KeepRoundPaths is set.
	RoundPaths [][]graph.EdgeID

	Duration time.Duration
}

// MinCostKFlow routes exactly k units from source to sink at minimum total
// cost using successive shortest paths with potentials.
//
// Each round runs ReducedCostDijkstra with the previous round's true
// distances as potentials, adds the true length of the sink path to the
// total, pushes one unit along it and replaces the potential table.
// The driver stops in StateDone after k rounds or in StateInfeasible as soon
// as the sink is unreachable; infeasibility is a result, not an error.
//
// k == 0 returns StateDone with zero cost. When source == sink every round
// has distance 0 and pushes nothing.
func MinCostKFlow(
	ctx context.Context,
	g *graph.ResidualGraph,
	source, sink int,
	k int,
	options *SolverOptions,
) (*FlowResult, error) {
	if options == nil {
		options = DefaultSolverOptions()
	}
	if err := validateGraph(g, source, sink); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, apperror.Newf(apperror.CodeInvalidDemand, "required flow must be non-negative, got %d", k).
			WithField("k")
	}

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	start := time.Now()
	result := &FlowResult{Status: StateAugmenting}
	defer func() {
		result.Duration = time.Since(start)
	}()

	if k == 0 {
		result.Status = StateDone
		return result, nil
	}

	potentials := graph.ZeroPotentials(g.VertexCount(), source)
	if g.HasNegativeCost() {
		initial, err := InitialPotentials(ctx, g, source)
		if err != nil {
			return result, err
		}
		potentials = initial
		result.UsedBellmanFord = true
	}

	for result.Status == StateAugmenting {
		if result.Flow == int64(k) {
			result.Status = StateDone
			break
		}

		if err := ctx.Err(); err != nil {
			return result, apperror.FromContext(err)
		}

		sp, err := ReducedCostDijkstra(ctx, g, source, potentials)
		if err != nil {
			return result, err
		}

		if !sp.Reduced.Reached(sink) {
			result.Status = StateInfeasible
			break
		}

		result.Cost += sp.Reduced.Get(sink) - potentials.Get(source) + potentials.Get(sink)

		path, err := sp.Reduced.PathTo(g, sink)
		if err != nil {
			return result, internalFault(apperror.CodeAlgorithmError, "round %d: %v", result.Rounds+1, err)
		}

		graph.AugmentPath(g, path, 1)

		if options.CheckInvariants {
			if err := g.CheckCapacity(); err != nil {
				return result, internalFault(apperror.CodeCapacityOverflow, "round %d: %v", result.Rounds+1, err)
			}
		}

		potentials = sp.TrueDistances()

		result.Flow++
		result.Rounds++

		if options.TrackDistances {
			result.Distances = append(result.Distances, potentials)
		}
		if options.KeepRoundPaths {
			result.RoundPaths = append(result.RoundPaths, path)
		}
	}

	return result, nil
}
