/*
   Builds a link graph out of a directory of HTML pages
*/
package corpus

import (
	"context"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/Ahmed-Sermani/pagerank/graph"
	"github.com/Ahmed-Sermani/pagerank/pipeline"
	"github.com/Ahmed-Sermani/pagerank/pipeline/runners"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// PageExt is the file extension of the corpus pages. Files with any other
// extension are ignored.
const PageExt = ".html"

// Config encapsulates the settings for loading a corpus.
type Config struct {
	// The number of workers to spin up for parsing pages. If not
	// specified, a default value of 1 will be used instead.
	Workers int

	// Logger receives a summary of the loaded corpus. If not specified,
	// log output is discarded.
	Logger *logrus.Entry
}

func (c *Config) validate() error {
	var err error
	if c.Workers < 0 {
		err = multierror.Append(err, xerrors.New("Workers must not be negative"))
	} else if c.Workers == 0 {
		c.Workers = 1
	}

	if c.Logger == nil {
		l := logrus.New()
		l.Out = io.Discard
		c.Logger = logrus.NewEntry(l)
	}
	return err
}

// LoadDir loads the corpus stored in directory dir.
func LoadDir(ctx context.Context, dir string, cfg Config) (*graph.Graph, error) {
	return Load(ctx, os.DirFS(dir), cfg)
}

// Load parses every page at the root of fsys and returns the link graph
// spanned by them.
//
// Each file ending in PageExt is a page named after its file name. The
// links of a page are the href attributes of its anchors; self-links and
// links to names outside the corpus are dropped.
func Load(ctx context.Context, fsys fs.FS, cfg Config) (*graph.Graph, error) {
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Errorf("corpus config validation failed: %w", err)
	}

	names, err := pageNames(fsys)
	if err != nil {
		return nil, xerrors.Errorf("load corpus: %w", err)
	}
	if len(names) == 0 {
		return nil, xerrors.Errorf("load corpus: no %s pages found: %w", PageExt, graph.ErrInvalidGraph)
	}

	sink := newGraphSink(names)
	p := pipeline.New[*page](
		runners.FixedWorkerPool[*page](newLinkExtractor(fsys), cfg.Workers),
	)
	if err = p.Process(ctx, &pageSource{names: names}, sink); err != nil {
		return nil, xerrors.Errorf("load corpus: %w", err)
	}
	// The pipeline exits silently when the context is cancelled.
	if err = ctx.Err(); err != nil {
		return nil, xerrors.Errorf("load corpus: %w", err)
	}

	g, err := sink.builder.Build()
	if err != nil {
		return nil, xerrors.Errorf("load corpus: %w", err)
	}

	var links int
	for idx := 0; idx < g.Len(); idx++ {
		links += g.OutDegree(idx)
	}
	cfg.Logger.WithFields(logrus.Fields{
		"pages":         g.Len(),
		"links":         links,
		"dropped_links": sink.dropped,
	}).Info("loaded corpus")
	return g, nil
}

// pageNames returns the sorted names of the regular page files at the root
// of fsys.
func pageNames(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), PageExt) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
