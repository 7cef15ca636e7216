/*
   Immutable link graph over a closed set of pages
*/
package graph

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/xerrors"
)

var (
	// ErrInvalidGraph is wrapped by every error that reports a link graph
	// that violates the closed universe or non-empty invariants.
	ErrInvalidGraph = xerrors.New("invalid link graph")

	// ErrUnknownPage is returned when looking up a page that is not part of
	// the graph.
	ErrUnknownPage = xerrors.Errorf("unknown page: %w", ErrInvalidGraph)
)

// Graph is a finite directed graph over a set of page identifiers. Every
// link target is also a page of the graph and no page links to itself.
//
// A Graph is immutable once built and therefore safe for concurrent reads.
type Graph struct {
	pages []string
	index map[string]int

	// outLinks[i] and inLinks[i] hold the sorted positions of the pages
	// linked from and to the page at position i.
	outLinks [][]int
	inLinks  [][]int
}

// New validates the provided page -> outgoing links mapping and returns an
// immutable Graph. Self-links and duplicate links are dropped. Links that
// point outside the set of keys make New fail.
func New(links map[string][]string) (*Graph, error) {
	b := NewBuilder()
	for src, dsts := range links {
		b.AddPage(src)
		for _, dst := range dsts {
			b.AddLink(src, dst)
		}
	}
	return b.Build()
}

// Len returns the number of pages in the graph.
func (g *Graph) Len() int { return len(g.pages) }

// Pages returns the page identifiers in ascending order.
func (g *Graph) Pages() []string {
	return append([]string(nil), g.pages...)
}

// Has returns true if page is part of the graph.
func (g *Graph) Has(page string) bool {
	_, ok := g.index[page]
	return ok
}

// Index returns the position of page in the ordering returned by Pages.
func (g *Graph) Index(page string) (int, error) {
	idx, ok := g.index[page]
	if !ok {
		return -1, xerrors.Errorf("page %q: %w", page, ErrUnknownPage)
	}
	return idx, nil
}

// Page returns the identifier of the page at position idx.
func (g *Graph) Page(idx int) string { return g.pages[idx] }

// Links returns the sorted list of pages linked from page.
func (g *Graph) Links(page string) ([]string, error) {
	idx, err := g.Index(page)
	if err != nil {
		return nil, err
	}
	links := make([]string, len(g.outLinks[idx]))
	for i, dst := range g.outLinks[idx] {
		links[i] = g.pages[dst]
	}
	return links, nil
}

// OutDegree returns the number of distinct pages linked from the page at
// position idx.
func (g *Graph) OutDegree(idx int) int { return len(g.outLinks[idx]) }

// OutLinks returns the positions of the pages linked from the page at
// position idx. The returned slice is shared and must not be modified.
func (g *Graph) OutLinks(idx int) []int { return g.outLinks[idx] }

// InLinks returns the positions of the pages that link to the page at
// position idx. The returned slice is shared and must not be modified.
func (g *Graph) InLinks(idx int) []int { return g.inLinks[idx] }

// Map returns a copy of the graph as a page -> outgoing links mapping.
func (g *Graph) Map() map[string][]string {
	m := make(map[string][]string, len(g.pages))
	for _, page := range g.pages {
		m[page], _ = g.Links(page)
	}
	return m
}

// Builder accumulates pages and links and produces a validated Graph. A
// Builder is not safe for concurrent use.
type Builder struct {
	links map[string]map[string]struct{}
}

// NewBuilder returns an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{links: make(map[string]map[string]struct{})}
}

// AddPage registers a page. Adding a page more than once is a no-op.
func (b *Builder) AddPage(id string) {
	if b.links[id] == nil {
		b.links[id] = make(map[string]struct{})
	}
}

// AddLink registers a link from src to dst, registering src as a page if
// needed. dst must be registered separately. If both src and dst refer to
// the same page then this is a no-op.
func (b *Builder) AddLink(src, dst string) {
	b.AddPage(src)
	if src == dst {
		return
	}
	b.links[src][dst] = struct{}{}
}

// Build validates the accumulated pages and links. All invariant violations
// are reported together; each one wraps ErrInvalidGraph.
func (b *Builder) Build() (*Graph, error) {
	if err := b.validate(); err != nil {
		return nil, xerrors.Errorf("link graph validation failed: %w", err)
	}

	g := &Graph{
		pages: make([]string, 0, len(b.links)),
		index: make(map[string]int, len(b.links)),
	}
	for id := range b.links {
		g.pages = append(g.pages, id)
	}
	sort.Strings(g.pages)
	for i, id := range g.pages {
		g.index[id] = i
	}

	g.outLinks = make([][]int, len(g.pages))
	g.inLinks = make([][]int, len(g.pages))
	for src, id := range g.pages {
		for dstID := range b.links[id] {
			g.outLinks[src] = append(g.outLinks[src], g.index[dstID])
		}
		sort.Ints(g.outLinks[src])
	}
	// Iterating sources in order keeps every inLinks list sorted.
	for src := range g.pages {
		for _, dst := range g.outLinks[src] {
			g.inLinks[dst] = append(g.inLinks[dst], src)
		}
	}
	return g, nil
}

func (b *Builder) validate() error {
	if len(b.links) == 0 {
		return xerrors.Errorf("graph has no pages: %w", ErrInvalidGraph)
	}

	var err error
	for _, src := range sortedKeys(b.links) {
		if src == "" {
			err = multierror.Append(err, xerrors.Errorf("empty page identifier: %w", ErrInvalidGraph))
		}
		for _, dst := range sortedKeys(b.links[src]) {
			if _, known := b.links[dst]; !known {
				err = multierror.Append(err, xerrors.Errorf("page %q links to unknown page %q: %w", src, dst, ErrInvalidGraph))
			}
		}
	}
	return err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
