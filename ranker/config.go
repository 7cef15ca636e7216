package ranker

import (
	"io"
	"math/rand/v2"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	// DefaultDampingFactor is the damping factor used when none is configured.
	DefaultDampingFactor = 0.85

	// DefaultSamples is the number of random surfer steps used when none
	// is configured.
	DefaultSamples = 10000

	// DefaultTolerance is the largest per-page rank change that still
	// counts as converged.
	DefaultTolerance = 0.001

	// DefaultMaxIterations caps the number of rounds of the iterative
	// estimator.
	DefaultMaxIterations = 10000
)

// Config encapsulates the required parameters for creating a new PageRank
// ranker instance.
type Config struct {
	// DampingFactor is the probability that a random surfer will click on
	// one of the outgoing links on the page they are currently visiting
	// instead of visiting (teleporting to) a random page in the graph.
	//
	// If not specified, a default value of 0.85 will be used instead.
	DampingFactor float64

	// Samples is the number of pages visited by the random surfer when
	// estimating ranks by sampling.
	//
	// If not specified, a default value of 10000 will be used instead.
	Samples int

	// At each round of the iterative estimator the largest absolute
	// difference between the old and new rank of any page is tracked. The
	// estimator stops once it is at most Tolerance.
	//
	// If not specified, a default value of 0.001 will be used instead.
	Tolerance float64

	// MaxIterations bounds the number of rounds of the iterative estimator.
	// Exceeding it fails the run with ErrNonterminatingIteration.
	//
	// If not specified, a default value of 10000 will be used instead.
	MaxIterations int

	// Rand drives the random surfer. If not specified, a generator seeded
	// from Clock is used.
	Rand RandSource

	// Clock is used for timing estimator runs. If not specified,
	// clock.WallClock is used.
	Clock clock.Clock

	// Logger receives one entry per estimator run. If not specified, log
	// output is discarded.
	Logger *logrus.Entry
}

// validate checks whether the PageRank ranker configuration is valid and
// sets the default values where required.
func (c *Config) validate() error {
	var err error
	if !(c.DampingFactor >= 0 && c.DampingFactor < 1.0) {
		err = multierror.Append(err, xerrors.Errorf("DampingFactor must be in the range (0, 1): %w", ErrInvalidParameter))
	} else if c.DampingFactor == 0 {
		c.DampingFactor = DefaultDampingFactor
	}

	if c.Samples < 0 {
		err = multierror.Append(err, xerrors.Errorf("Samples must be at least 1: %w", ErrInvalidParameter))
	} else if c.Samples == 0 {
		c.Samples = DefaultSamples
	}

	if !(c.Tolerance >= 0 && c.Tolerance < 1.0) {
		err = multierror.Append(err, xerrors.Errorf("Tolerance must be in the range (0, 1): %w", ErrInvalidParameter))
	} else if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}

	if c.MaxIterations < 0 {
		err = multierror.Append(err, xerrors.Errorf("MaxIterations must be at least 1: %w", ErrInvalidParameter))
	} else if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}

	if c.Clock == nil {
		c.Clock = clock.WallClock
	}
	if c.Rand == nil {
		c.Rand = NewRandSource(uint64(c.Clock.Now().UnixNano()))
	}
	if c.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		c.Logger = logrus.NewEntry(l)
	}

	return err
}

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/Ahmed-Sermani/pagerank/ranker RandSource

// RandSource is implemented by pseudo-random generators that can drive the
// random surfer. *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	// Float64 returns a number in the half-open interval [0.0, 1.0).
	Float64() float64

	// IntN returns a number in the half-open interval [0, n).
	IntN(n int) int
}

// NewRandSource returns a deterministic RandSource for the given seed.
func NewRandSource(seed uint64) RandSource {
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}
