package corpus

import (
	"context"
	"io"
	"io/fs"

	"github.com/Ahmed-Sermani/pagerank/pipeline"
	"golang.org/x/net/html"
	"golang.org/x/xerrors"
)

var _ pipeline.Processor[*page] = (*linkExtractor)(nil)

// page is the payload that travels through the corpus pipeline.
type page struct {
	Name  string
	Links []string
}

type linkExtractor struct {
	fsys fs.FS
}

func newLinkExtractor(fsys fs.FS) *linkExtractor {
	return &linkExtractor{fsys: fsys}
}

func (le *linkExtractor) Process(ctx context.Context, p *page) (*page, bool, error) {
	f, err := le.fsys.Open(p.Name)
	if err != nil {
		return nil, false, xerrors.Errorf("read page %q: %w", p.Name, err)
	}
	defer f.Close()

	if p.Links, err = extractLinks(f); err != nil {
		return nil, false, xerrors.Errorf("parse page %q: %w", p.Name, err)
	}
	return p, true, nil
}

// extractLinks returns the href values of all anchors in the HTML document
// read from r, in document order.
func extractLinks(r io.Reader) ([]string, error) {
	var (
		links []string
		z     = html.NewTokenizer(r)
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr || string(name) != "a" {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					links = append(links, string(val))
				}
				if !more {
					break
				}
			}
		}
	}
}
