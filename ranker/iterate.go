package ranker

import (
	"math"

	"github.com/Ahmed-Sermani/pagerank/graph"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
)

// IterateRank computes the PageRank of every page of g by repeatedly
// applying the PageRank recurrence to the whole rank vector, starting from
// 1/N for every page, until no page changes by more than DefaultTolerance.
//
// Convergence is expected for every valid graph but is not formally bounded;
// runs are capped at DefaultMaxIterations rounds, past which
// ErrNonterminatingIteration is returned.
func IterateRank(g *graph.Graph, dampingFactor float64) (Ranks, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}
	if err := checkDampingFactor(dampingFactor); err != nil {
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}

	scores, _, err := iterate(g, dampingFactor, DefaultTolerance, DefaultMaxIterations, nil)
	if err != nil {
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}
	return ranksFromVector(g, scores), nil
}

// Step applies a single synchronous round of the PageRank recurrence to
// ranks, which must hold an entry for every page of g.
func Step(g *graph.Graph, ranks Ranks, dampingFactor float64) (Ranks, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("step: %w", err)
	}
	if err := checkDampingFactor(dampingFactor); err != nil {
		return nil, xerrors.Errorf("step: %w", err)
	}

	prev := make([]float64, g.Len())
	for idx := range prev {
		score, ok := ranks[g.Page(idx)]
		if !ok {
			return nil, xerrors.Errorf("step: no rank for page %q: %w", g.Page(idx), ErrInvalidParameter)
		}
		prev[idx] = score
	}
	return ranksFromVector(g, step(make([]float64, g.Len()), prev, g, dampingFactor)), nil
}

// roundFunc is invoked after every round of the iterative estimator with the
// round number (starting at 1) and the largest per-page change.
type roundFunc func(round int, maxDelta float64)

// iterate runs rounds until the largest per-page change is at most
// tolerance and returns the final rank vector along with the number of
// rounds it took.
func iterate(g *graph.Graph, dampingFactor, tolerance float64, maxRounds int, onRound roundFunc) ([]float64, int, error) {
	pageCount := g.Len()
	cur := make([]float64, pageCount)
	next := make([]float64, pageCount)
	for i := range cur {
		cur[i] = 1.0 / float64(pageCount)
	}

	for round := 1; round <= maxRounds; round++ {
		step(next, cur, g, dampingFactor)
		maxDelta := floats.Distance(next, cur, math.Inf(1))
		cur, next = next, cur

		if onRound != nil {
			onRound(round, maxDelta)
		}
		if maxDelta <= tolerance {
			return cur, round, nil
		}
	}
	return nil, maxRounds, xerrors.Errorf("no convergence within %d rounds: %w", maxRounds, ErrNonterminatingIteration)
}

// step writes into dst the ranks obtained by applying the PageRank
// recurrence to prev and returns dst. Every input is read from prev so the
// update is synchronous.
//
// A dead-end (no outgoing links) is treated as if it was linking to every
// page in the graph, itself included. Rather than materialising those
// links, the residual score of all dead-ends is accumulated once and added
// to every page.
func step(dst, prev []float64, g *graph.Graph, dampingFactor float64) []float64 {
	pageCount := float64(len(prev))

	var residual float64
	for src, score := range prev {
		if g.OutDegree(src) == 0 {
			residual += score / pageCount
		}
	}

	base := (1.0-dampingFactor)/pageCount + dampingFactor*residual
	for dstIdx := range dst {
		var incoming float64
		for _, src := range g.InLinks(dstIdx) {
			incoming += prev[src] / float64(g.OutDegree(src))
		}
		dst[dstIdx] = base + dampingFactor*incoming
	}
	return dst
}

func ranksFromVector(g *graph.Graph, scores []float64) Ranks {
	ranks := make(Ranks, len(scores))
	for idx, score := range scores {
		ranks[g.Page(idx)] = score
	}
	return ranks
}
