/*
   Implements Google's PageRank algorithm https://en.wikipedia.org/wiki/PageRank
   over a small, closed link graph.
*/
package ranker

import (
	"sort"

	"github.com/Ahmed-Sermani/pagerank/graph"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/floats"
)

/*
   A Ranker estimates the same scores in two independent ways:

       Sample walks a single random surfer for Config.Samples pages and
       reports how often each page was visited.

       Iterate starts every page at 1/N and applies the PageRank recurrence
       to all of them at once until no score moves by more than
       Config.Tolerance.

   Both results assign every page a score in [0, 1] and sum to 1.
*/

// Ranks maps every page of a graph to its estimated PageRank score.
type Ranks map[string]float64

// Pages returns the ranked pages in ascending order.
func (r Ranks) Pages() []string {
	pages := make([]string, 0, len(r))
	for page := range r {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}

// Sum returns the sum of all scores, accumulated in page order.
func (r Ranks) Sum() float64 {
	scores := make([]float64, 0, len(r))
	for _, page := range r.Pages() {
		scores = append(scores, r[page])
	}
	return floats.Sum(scores)
}

// Ranker runs the PageRank estimators with a fixed configuration.
type Ranker struct {
	cfg Config
}

// NewRanker returns a new Ranker instance using the provided config
// options.
func NewRanker(cfg Config) (*Ranker, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("PageRank ranker config validation failed: %w", err)
	}
	return &Ranker{cfg: cfg}, nil
}

// Config returns the effective configuration, defaults included.
func (r *Ranker) Config() Config { return r.cfg }

// Sample estimates the ranks of g with a random walk of cfg.Samples pages.
// Consecutive calls continue drawing from the same random source.
func (r *Ranker) Sample(g *graph.Graph) (Ranks, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("sample rank: %w", err)
	}

	logger, start := r.runLogger("sampling", g), r.cfg.Clock.Now()
	ranks := sample(g, r.cfg.DampingFactor, r.cfg.Samples, r.cfg.Rand)
	logger.WithFields(logrus.Fields{
		"samples": r.cfg.Samples,
		"elapsed": r.cfg.Clock.Now().Sub(start),
	}).Info("estimated PageRank scores")
	return ranks, nil
}

// Iterate computes the ranks of g with the iterative estimator.
func (r *Ranker) Iterate(g *graph.Graph) (Ranks, error) {
	if err := checkGraph(g); err != nil {
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}

	logger, start := r.runLogger("iteration", g), r.cfg.Clock.Now()
	scores, rounds, err := iterate(g, r.cfg.DampingFactor, r.cfg.Tolerance, r.cfg.MaxIterations, func(round int, maxDelta float64) {
		logger.WithFields(logrus.Fields{
			"round":     round,
			"max_delta": maxDelta,
		}).Debug("completed round")
	})
	if err != nil {
		logger.WithField("err", err).Warn("PageRank iteration aborted")
		return nil, xerrors.Errorf("iterate rank: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"rounds":  rounds,
		"elapsed": r.cfg.Clock.Now().Sub(start),
	}).Info("computed PageRank scores")
	return ranksFromVector(g, scores), nil
}

func (r *Ranker) runLogger(method string, g *graph.Graph) *logrus.Entry {
	return r.cfg.Logger.WithFields(logrus.Fields{
		"run_id":         uuid.New().String(),
		"method":         method,
		"pages":          g.Len(),
		"damping_factor": r.cfg.DampingFactor,
	})
}
