package ranker

import (
	"github.com/Ahmed-Sermani/pagerank/ranker/mocks"
	"github.com/golang/mock/gomock"
	"golang.org/x/xerrors"
	gc "gopkg.in/check.v1"
)

var _ = gc.Suite(new(SampleTestSuite))

type SampleTestSuite struct{}

func (s *SampleTestSuite) TestRanksSumToOne(c *gc.C) {
	for name, links := range fixtures {
		g := mustGraph(c, links)
		ranks, err := SampleRank(g, 0.85, DefaultSamples, NewRandSource(7))
		c.Assert(err, gc.IsNil)
		c.Assert(len(ranks), gc.Equals, g.Len(), gc.Commentf("fixture %s", name))
		assertClose(c, ranks.Sum(), 1.0, 1e-9, gc.Commentf("fixture %s", name))
	}
}

func (s *SampleTestSuite) TestSinglePage(c *gc.C) {
	g := mustGraph(c, map[string][]string{"only.html": nil})

	ranks, err := SampleRank(g, 0.85, DefaultSamples, nil)
	c.Assert(err, gc.IsNil)
	c.Assert(ranks, gc.DeepEquals, Ranks{"only.html": 1.0})
}

func (s *SampleTestSuite) TestSingleSampleCountsStartingPage(c *gc.C) {
	g := mustGraph(c, fixtures["corpus0"])

	ranks, err := SampleRank(g, 0.85, 1, NewRandSource(3))
	c.Assert(err, gc.IsNil)

	var visited int
	for _, page := range ranks.Pages() {
		switch ranks[page] {
		case 1.0:
			visited++
		case 0.0:
		default:
			c.Fatalf("unexpected rank %v for %s", ranks[page], page)
		}
	}
	c.Assert(visited, gc.Equals, 1)
}

func (s *SampleTestSuite) TestSeededRunsAreReproducible(c *gc.C) {
	g := mustGraph(c, fixtures["corpus1"])

	r1, err := SampleRank(g, 0.85, DefaultSamples, NewRandSource(42))
	c.Assert(err, gc.IsNil)
	r2, err := SampleRank(g, 0.85, DefaultSamples, NewRandSource(42))
	c.Assert(err, gc.IsNil)
	c.Assert(r1, gc.DeepEquals, r2)
}

func (s *SampleTestSuite) TestScriptedWalk(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	// a -> b -> c -> a
	g := mustGraph(c, map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"a"},
	})

	src := mocks.NewMockRandSource(ctrl)
	gomock.InOrder(
		// Start at a.
		src.EXPECT().IntN(3).Return(0),
		// From a the cumulative weights are [0.05, 0.95, 1]: follow the link to b.
		src.EXPECT().Float64().Return(0.5),
		// From b the cumulative weights are [0.05, 0.10, 1]: teleport back to a.
		src.EXPECT().Float64().Return(0.01),
	)

	ranks, err := SampleRank(g, 0.85, 3, src)
	c.Assert(err, gc.IsNil)
	assertClose(c, ranks["a"], 2.0/3, 1e-12)
	assertClose(c, ranks["b"], 1.0/3, 1e-12)
	c.Assert(ranks["c"], gc.Equals, 0.0)
}

func (s *SampleTestSuite) TestAgreesWithIteration(c *gc.C) {
	for _, name := range []string{"corpus0", "corpus1", "chain", "dead-ends"} {
		g := mustGraph(c, fixtures[name])

		exp, err := IterateRank(g, 0.85)
		c.Assert(err, gc.IsNil)
		got, err := SampleRank(g, 0.85, 100000, NewRandSource(1234))
		c.Assert(err, gc.IsNil)

		for _, page := range g.Pages() {
			assertClose(c, got[page], exp[page], 0.02, gc.Commentf("fixture %s, page %s", name, page))
		}
	}
}

func (s *SampleTestSuite) TestInvalidParameters(c *gc.C) {
	g := mustGraph(c, fixtures["pair"])

	_, err := SampleRank(g, 0.85, 0, nil)
	c.Assert(xerrors.Is(err, ErrInvalidParameter), gc.Equals, true)
	c.Assert(err, gc.ErrorMatches, `(?s).*sample count 0 must be at least 1.*`)

	_, err = SampleRank(g, 1.0, -3, nil)
	c.Assert(xerrors.Is(err, ErrInvalidParameter), gc.Equals, true)
	c.Assert(err, gc.ErrorMatches, `(?s).*damping factor 1 must be in the range \(0, 1\).*sample count -3.*`)

	_, err = SampleRank(nil, 0.85, 10, nil)
	c.Assert(xerrors.Is(err, ErrInvalidGraph), gc.Equals, true)
}
