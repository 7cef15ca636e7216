package ranker

import (
	"time"

	"github.com/Ahmed-Sermani/pagerank/graph"
	multierror "github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
)

// SampleRank estimates the PageRank of every page of g as the visit
// frequency of a random surfer that starts at a uniformly random page and
// visits samples pages in total, moving according to Transition.
//
// The starting page counts as the first visit, so the returned ranks are
// visit counts divided by samples and always sum to 1. If src is nil a
// time-seeded generator is used.
func SampleRank(g *graph.Graph, dampingFactor float64, samples int, src RandSource) (Ranks, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("sample rank: %w", err)
	}

	var err error
	if dErr := checkDampingFactor(dampingFactor); dErr != nil {
		err = multierror.Append(err, dErr)
	}
	if samples < 1 {
		err = multierror.Append(err, xerrors.Errorf("sample count %d must be at least 1: %w", samples, ErrInvalidParameter))
	}
	if err != nil {
		return nil, xerrors.Errorf("sample rank: %w", err)
	}

	if src == nil {
		src = NewRandSource(uint64(time.Now().UnixNano()))
	}
	return sample(g, dampingFactor, samples, src), nil
}

func sample(g *graph.Graph, dampingFactor float64, samples int, src RandSource) Ranks {
	var (
		pageCount = g.Len()
		visits    = make([]int, pageCount)
		probs     = make([]float64, pageCount)
		cdf       = make([]float64, pageCount)
		cur       = src.IntN(pageCount)
	)

	for step := 0; step < samples; step++ {
		visits[cur]++
		// No need to draw past the last recorded visit.
		if step == samples-1 {
			break
		}
		transitionInto(probs, g, cur, dampingFactor)
		cur = weightedChoice(floats.CumSum(cdf, probs), src)
	}

	ranks := make(Ranks, pageCount)
	for idx, count := range visits {
		ranks[g.Page(idx)] = float64(count) / float64(samples)
	}
	return ranks
}
