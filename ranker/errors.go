package ranker

import (
	"github.com/Ahmed-Sermani/pagerank/graph"
	"golang.org/x/xerrors"
)

var (
	// ErrInvalidGraph is returned when an estimator is handed an empty
	// graph or asked about a page that is not part of it.
	ErrInvalidGraph = graph.ErrInvalidGraph

	// ErrInvalidParameter is returned for a damping factor outside (0, 1),
	// a sample count below 1 or an otherwise malformed argument.
	ErrInvalidParameter = xerrors.New("invalid parameter")

	// ErrNonterminatingIteration is returned when the iterative estimator
	// does not converge within the configured number of rounds.
	ErrNonterminatingIteration = xerrors.New("iteration did not converge")
)

func checkGraph(g *graph.Graph) error {
	if g == nil || g.Len() == 0 {
		return xerrors.Errorf("graph has no pages: %w", ErrInvalidGraph)
	}
	return nil
}

func checkDampingFactor(dampingFactor float64) error {
	if !(dampingFactor > 0 && dampingFactor < 1) {
		return xerrors.Errorf("damping factor %v must be in the range (0, 1): %w", dampingFactor, ErrInvalidParameter)
	}
	return nil
}
