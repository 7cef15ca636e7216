package ranker

import (
	"sort"

	"github.com/Ahmed-Sermani/pagerank/graph"
	"golang.org/x/xerrors"
)

// Distribution maps every page of a graph to the probability of visiting it
// next. The probabilities sum to 1.
type Distribution map[string]float64

// Transition returns the probability distribution over the page a random
// surfer visits after page.
//
// With probability dampingFactor the surfer follows one of the links of page
// chosen uniformly at random; otherwise it jumps to any page of the graph. A
// page without outgoing links is treated as linking to every page, itself
// included.
func Transition(g *graph.Graph, page string, dampingFactor float64) (Distribution, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("transition: %w", err)
	}
	if err := checkDampingFactor(dampingFactor); err != nil {
		return nil, xerrors.Errorf("transition: %w", err)
	}
	idx, err := g.Index(page)
	if err != nil {
		return nil, xerrors.Errorf("transition: %w", err)
	}

	probs := transitionInto(make([]float64, g.Len()), g, idx, dampingFactor)
	dist := make(Distribution, len(probs))
	for i, p := range probs {
		dist[g.Page(i)] = p
	}
	return dist, nil
}

// transitionInto writes the transition distribution of the page at position
// src into dst, indexed by page position, and returns dst.
func transitionInto(dst []float64, g *graph.Graph, src int, dampingFactor float64) []float64 {
	pageCount := float64(g.Len())
	links := g.OutLinks(src)
	if len(links) == 0 {
		for i := range dst {
			dst[i] = 1.0 / pageCount
		}
		return dst
	}

	base := (1.0 - dampingFactor) / pageCount
	for i := range dst {
		dst[i] = base
	}
	share := dampingFactor / float64(len(links))
	for _, dstIdx := range links {
		dst[dstIdx] += share
	}
	return dst
}

// weightedChoice draws a position from the cumulative weights in cdf using
// src. cdf must be non-decreasing with a positive last element.
func weightedChoice(cdf []float64, src RandSource) int {
	target := src.Float64() * cdf[len(cdf)-1]
	idx := sort.Search(len(cdf), func(i int) bool { return cdf[i] > target })

	// Rounding may push target onto the total; fall back to the last
	// position that carries any weight.
	if idx == len(cdf) {
		idx--
		for idx > 0 && cdf[idx] == cdf[idx-1] {
			idx--
		}
	}
	return idx
}
