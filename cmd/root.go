// Package cmd implements the pagerank command line interface.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/Ahmed-Sermani/pagerank/corpus"
	"github.com/Ahmed-Sermani/pagerank/ranker"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// options holds the values of the command line flags. The yaml tags name the
// keys accepted in a --config file.
type options struct {
	DampingFactor float64 `yaml:"damping_factor"`
	Samples       int     `yaml:"samples"`
	Tolerance     float64 `yaml:"tolerance"`
	MaxIterations int     `yaml:"max_iterations"`
	Seed          uint64  `yaml:"seed"`
	Workers       int     `yaml:"workers"`
	LogLevel      string  `yaml:"log_level"`
}

func (o *options) validate() error {
	var err error
	if !(o.DampingFactor > 0 && o.DampingFactor < 1) {
		err = multierror.Append(err, xerrors.Errorf("--damping must be in the range (0, 1): %w", ranker.ErrInvalidParameter))
	}
	if o.Samples < 1 {
		err = multierror.Append(err, xerrors.Errorf("--samples must be at least 1: %w", ranker.ErrInvalidParameter))
	}
	if !(o.Tolerance > 0 && o.Tolerance < 1) {
		err = multierror.Append(err, xerrors.Errorf("--tolerance must be in the range (0, 1): %w", ranker.ErrInvalidParameter))
	}
	if o.MaxIterations < 1 {
		err = multierror.Append(err, xerrors.Errorf("--max-iterations must be at least 1: %w", ranker.ErrInvalidParameter))
	}
	if o.Workers < 1 {
		err = multierror.Append(err, xerrors.Errorf("--workers must be at least 1: %w", ranker.ErrInvalidParameter))
	}
	return err
}

// bindFlags registers a flag for every option and sets the defaults.
func (o *options) bindFlags(flags *pflag.FlagSet) {
	flags.Float64Var(&o.DampingFactor, "damping", ranker.DefaultDampingFactor, "The probability that the random surfer follows a link instead of teleporting")
	flags.IntVar(&o.Samples, "samples", ranker.DefaultSamples, "The number of pages visited by the random surfer")
	flags.Float64Var(&o.Tolerance, "tolerance", ranker.DefaultTolerance, "The largest per-page rank change that counts as converged")
	flags.IntVar(&o.MaxIterations, "max-iterations", ranker.DefaultMaxIterations, "The maximum number of rounds of the iterative estimator")
	flags.Uint64Var(&o.Seed, "seed", 0, "Seed for the random surfer (0 picks a time based seed)")
	flags.IntVar(&o.Workers, "workers", runtime.NumCPU(), "The number of workers to use for parsing pages (defaults to number of CPUs)")
	flags.StringVar(&o.LogLevel, "log-level", "warning", "The log level (trace, debug, info, warning, error)")
}

// loadFile overlays the values found in the YAML file at path onto o. Flags
// that were set explicitly on the command line keep their value.
func (o *options) loadFile(path string, flags *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return xerrors.Errorf("read config file: %w", err)
	}

	// The flags write into o as well, so remember the explicit values
	// before the file overwrites them.
	explicit := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		explicit[f.Name] = f.Value.String()
	})

	if err = yaml.Unmarshal(data, o); err != nil {
		return xerrors.Errorf("parse config file %q: %w", path, err)
	}

	for name, val := range explicit {
		if err = flags.Set(name, val); err != nil {
			return xerrors.Errorf("re-apply flag --%s: %w", name, err)
		}
	}
	return nil
}

// NewRootCommand returns the pagerank command. Log output goes through
// logger; its level is controlled by --log-level on rootLogger.
func NewRootCommand(rootLogger *logrus.Logger, logger *logrus.Entry) *cobra.Command {
	var (
		opts       options
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "pagerank CORPUS_DIR",
		Short: "Rank the pages of a corpus of HTML files",
		Long: `Rank the pages of a corpus of HTML files with PageRank.

Every .html file in CORPUS_DIR is a page; its anchors that point to other
pages of the corpus are its links. Ranks are estimated twice: once by
sampling a random surfer and once by iterating the PageRank recurrence
until convergence.`,
		Example: `  pagerank corpus0
  pagerank --samples 100000 --seed 42 corpus1
  pagerank --config pagerank.yaml corpus2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				if err := opts.loadFile(configPath, cmd.Flags()); err != nil {
					return err
				}
			}
			if err := opts.validate(); err != nil {
				return xerrors.Errorf("invalid options: %w", err)
			}

			level, err := logrus.ParseLevel(opts.LogLevel)
			if err != nil {
				return xerrors.Errorf("invalid options: %w", err)
			}
			rootLogger.SetLevel(level)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return run(ctx, cmd.OutOrStdout(), args[0], opts, logger)
		},
	}

	opts.bindFlags(cmd.Flags())
	cmd.Flags().StringVar(&configPath, "config", "", "A YAML file with option values; flags set on the command line take precedence")

	return cmd
}

func run(ctx context.Context, out io.Writer, dir string, opts options, logger *logrus.Entry) error {
	g, err := corpus.LoadDir(ctx, dir, corpus.Config{
		Workers: opts.Workers,
		Logger:  logger.WithField("component", "corpus"),
	})
	if err != nil {
		return err
	}

	cfg := ranker.Config{
		DampingFactor: opts.DampingFactor,
		Samples:       opts.Samples,
		Tolerance:     opts.Tolerance,
		MaxIterations: opts.MaxIterations,
		Logger:        logger.WithField("component", "ranker"),
	}
	if opts.Seed != 0 {
		cfg.Rand = ranker.NewRandSource(opts.Seed)
	}
	r, err := ranker.NewRanker(cfg)
	if err != nil {
		return err
	}

	ranks, err := r.Sample(g)
	if err != nil {
		return err
	}
	printRanks(out, fmt.Sprintf("PageRank Results from Sampling (n = %d)", opts.Samples), ranks)

	if ranks, err = r.Iterate(g); err != nil {
		return err
	}
	printRanks(out, "PageRank Results from Iteration", ranks)
	return nil
}

func printRanks(out io.Writer, title string, ranks ranker.Ranks) {
	fmt.Fprintln(out, title)
	for _, page := range ranks.Pages() {
		fmt.Fprintf(out, "  %s: %.4f\n", page, ranks[page])
	}
}
