package corpus

import (
	"context"

	"github.com/Ahmed-Sermani/pagerank/graph"
)

// pageSource emits one payload per corpus page.
type pageSource struct {
	names []string
	cur   string
}

func (ps *pageSource) Next(context.Context) bool {
	if len(ps.names) == 0 {
		return false
	}
	ps.cur, ps.names = ps.names[0], ps.names[1:]
	return true
}

func (ps *pageSource) Payload() *page { return &page{Name: ps.cur} }
func (ps *pageSource) Error() error   { return nil }

// graphSink feeds parsed pages into a graph builder, keeping only the links
// that point to other pages of the corpus. It is only ever invoked from the
// pipeline's sink worker.
type graphSink struct {
	builder *graph.Builder
	known   map[string]struct{}

	dropped int
}

func newGraphSink(names []string) *graphSink {
	s := &graphSink{
		builder: graph.NewBuilder(),
		known:   make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		s.known[name] = struct{}{}
		s.builder.AddPage(name)
	}
	return s
}

func (s *graphSink) Consume(_ context.Context, p *page) error {
	for _, link := range p.Links {
		if _, ok := s.known[link]; !ok || link == p.Name {
			s.dropped++
			continue
		}
		s.builder.AddLink(p.Name, link)
	}
	return nil
}
