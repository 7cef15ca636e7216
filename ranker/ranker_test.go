package ranker

import (
	"math"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(RankerTestSuite))

type RankerTestSuite struct {
	logger *logrus.Logger
	hook   *test.Hook
}

func (s *RankerTestSuite) SetUpTest(c *gc.C) {
	s.logger, s.hook = test.NewNullLogger()
	s.logger.SetLevel(logrus.DebugLevel)
}

func (s *RankerTestSuite) TestConfigDefaults(c *gc.C) {
	r, err := NewRanker(Config{})
	c.Assert(err, gc.IsNil)

	cfg := r.Config()
	c.Assert(cfg.DampingFactor, gc.Equals, DefaultDampingFactor)
	c.Assert(cfg.Samples, gc.Equals, DefaultSamples)
	c.Assert(cfg.Tolerance, gc.Equals, DefaultTolerance)
	c.Assert(cfg.MaxIterations, gc.Equals, DefaultMaxIterations)
	c.Assert(cfg.Rand, gc.NotNil)
	c.Assert(cfg.Clock, gc.NotNil)
	c.Assert(cfg.Logger, gc.NotNil)
}

func (s *RankerTestSuite) TestConfigValidation(c *gc.C) {
	_, err := NewRanker(Config{
		DampingFactor: 1.0,
		Samples:       -1,
		Tolerance:     -0.1,
		MaxIterations: -5,
	})
	c.Assert(xerrors.Is(err, ErrInvalidParameter), gc.Equals, true)
	c.Assert(err, gc.ErrorMatches, `(?s)PageRank ranker config validation failed: 4 errors occurred:.*DampingFactor.*Samples.*Tolerance.*MaxIterations.*`)

	_, err = NewRanker(Config{DampingFactor: math.NaN(), Tolerance: math.NaN()})
	c.Assert(xerrors.Is(err, ErrInvalidParameter), gc.Equals, true)
	c.Assert(err, gc.ErrorMatches, `(?s)PageRank ranker config validation failed: 2 errors occurred:.*DampingFactor must be in the range \(0, 1\).*Tolerance must be in the range \(0, 1\).*`)
}

func (s *RankerTestSuite) TestSample(c *gc.C) {
	r := s.newRanker(c, Config{Samples: 5000, Rand: NewRandSource(99)})
	g := mustGraph(c, fixtures["corpus1"])

	ranks, err := r.Sample(g)
	c.Assert(err, gc.IsNil)
	assertClose(c, ranks.Sum(), 1.0, 1e-9)

	entry := s.hook.LastEntry()
	c.Assert(entry, gc.NotNil)
	c.Assert(entry.Message, gc.Equals, "estimated PageRank scores")
	c.Assert(entry.Data["method"], gc.Equals, "sampling")
	c.Assert(entry.Data["pages"], gc.Equals, 7)
	c.Assert(entry.Data["samples"], gc.Equals, 5000)
	c.Assert(entry.Data["elapsed"], gc.Equals, time.Duration(0))
	c.Assert(entry.Data["run_id"], gc.Not(gc.Equals), "")
}

func (s *RankerTestSuite) TestSampleMatchesSampleRank(c *gc.C) {
	g := mustGraph(c, fixtures["corpus0"])
	r := s.newRanker(c, Config{Samples: 2000, Rand: NewRandSource(5)})

	got, err := r.Sample(g)
	c.Assert(err, gc.IsNil)
	exp, err := SampleRank(g, DefaultDampingFactor, 2000, NewRandSource(5))
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.DeepEquals, exp)
}

func (s *RankerTestSuite) TestIterate(c *gc.C) {
	r := s.newRanker(c, Config{})
	g := mustGraph(c, fixtures["chain"])

	got, err := r.Iterate(g)
	c.Assert(err, gc.IsNil)
	exp, err := IterateRank(g, DefaultDampingFactor)
	c.Assert(err, gc.IsNil)
	c.Assert(got, gc.DeepEquals, exp)

	entries := s.hook.AllEntries()
	c.Assert(len(entries) > 1, gc.Equals, true)
	last := entries[len(entries)-1]
	c.Assert(last.Message, gc.Equals, "computed PageRank scores")
	c.Assert(last.Data["method"], gc.Equals, "iteration")
	// One debug entry per round precedes the summary.
	c.Assert(last.Data["rounds"], gc.Equals, len(entries)-1)
	for _, entry := range entries[:len(entries)-1] {
		c.Assert(entry.Level, gc.Equals, logrus.DebugLevel)
		c.Assert(entry.Data["run_id"], gc.Equals, last.Data["run_id"])
	}
}

func (s *RankerTestSuite) TestIterateCapExceeded(c *gc.C) {
	r := s.newRanker(c, Config{MaxIterations: 1, Tolerance: 1e-9})

	_, err := r.Iterate(mustGraph(c, fixtures["corpus1"]))
	c.Assert(xerrors.Is(err, ErrNonterminatingIteration), gc.Equals, true)
	c.Assert(s.hook.LastEntry().Level, gc.Equals, logrus.WarnLevel)
}

func (s *RankerTestSuite) TestEmptyGraph(c *gc.C) {
	r := s.newRanker(c, Config{})

	_, err := r.Sample(nil)
	c.Assert(xerrors.Is(err, ErrInvalidGraph), gc.Equals, true)
	_, err = r.Iterate(nil)
	c.Assert(xerrors.Is(err, ErrInvalidGraph), gc.Equals, true)
}

func (s *RankerTestSuite) newRanker(c *gc.C, cfg Config) *Ranker {
	cfg.Clock = testclock.NewClock(time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC))
	cfg.Logger = logrus.NewEntry(s.logger)
	r, err := NewRanker(cfg)
	c.Assert(err, gc.IsNil)
	return r
}
