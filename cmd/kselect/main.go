// Command kselect sweeps K over a customer-by-offer response matrix and
// prints the elbow, silhouette and gap statistic curves as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/TrevorS/kselect"
)

type options struct {
	in         string
	header     bool
	labelled   bool
	kMin       int
	kMax       int
	replicates int
	extendGap  bool
	elbowRule  bool
	seed       uint64
	workers    int
	fitter     string
	metric     string
	pca        int
	verbose    bool
}

// output is the JSON document written to stdout.
type output struct {
	RunID   string          `json:"run_id"`
	Points  int             `json:"points"`
	Dims    int             `json:"dims"`
	Report  *kselect.Report `json:"report"`
	Sizes   map[int][]int   `json:"cluster_sizes"`
	Members map[int][]int   `json:"labels,omitempty"`
	Names   []string        `json:"names,omitempty"`
	Columns []string        `json:"columns,omitempty"`
	PCA     *pcaOutput      `json:"pca,omitempty"`
}

type pcaOutput struct {
	K int `json:"k"`
	*kselect.Projection
}

func main() {
	loadEnv()
	opts := parseFlags(os.Args[1:])

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if opts.verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, opts, os.Stdout)
	stop()
	if err != nil {
		log.Error().Err(err).Str("in", opts.in).Msg("kselect failed")
		os.Exit(1)
	}
}

// parseFlags reads options from args. KSELECT_* environment variables
// override the built-in flag defaults; explicit flags override both.
func parseFlags(args []string) options {
	var opts options
	fs := flag.NewFlagSet("kselect", flag.ExitOnError)
	fs.StringVar(&opts.in, "in", "-", "response matrix CSV, - for stdin")
	fs.BoolVar(&opts.header, "header", true, "first CSV row is a header")
	fs.BoolVar(&opts.labelled, "labelled", true, "first CSV column names the row (e.g. customer)")
	fs.IntVar(&opts.kMin, "kmin", getEnvInt("KSELECT_KMIN", 2), "smallest K to fit")
	fs.IntVar(&opts.kMax, "kmax", getEnvInt("KSELECT_KMAX", 10), "largest K to fit")
	fs.IntVar(&opts.replicates, "b", getEnvInt("KSELECT_GAP_REPLICATES", 10), "gap statistic reference replicates, 0 disables")
	fs.BoolVar(&opts.extendGap, "extend-gap", false, "fit kmax+1 so the gap rule can choose kmax")
	fs.BoolVar(&opts.elbowRule, "elbow", false, "suggest the max-second-difference elbow of the SS curve")
	fs.Uint64Var(&opts.seed, "seed", getEnvUint64("KSELECT_SEED", 0), "random seed")
	fs.IntVar(&opts.workers, "workers", getEnvInt("KSELECT_WORKERS", 0), "concurrent fits, 0 for one per CPU")
	fs.StringVar(&opts.fitter, "fitter", getEnv("KSELECT_FITTER", "lloyd"), "clustering backend: lloyd, goml or single")
	fs.StringVar(&opts.metric, "metric", getEnv("KSELECT_METRIC", "euclidean"), "silhouette metric: euclidean, manhattan, cosine or chebyshev")
	fs.IntVar(&opts.pca, "pca", 2, "principal components to project onto for the silhouette K, 0 disables")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	_ = fs.Parse(args)
	return opts
}

func buildConfig(opts options) (kselect.Config, error) {
	cfg := kselect.DefaultConfig()
	cfg.KMin = opts.kMin
	cfg.KMax = opts.kMax
	cfg.GapReplicates = opts.replicates
	cfg.ExtendGapRange = opts.extendGap
	cfg.ElbowRule = opts.elbowRule
	cfg.Seed = opts.seed
	cfg.Workers = opts.workers

	switch opts.metric {
	case "euclidean":
		cfg.Metric = kselect.EuclideanMetric{}
	case "manhattan":
		cfg.Metric = kselect.ManhattanMetric{}
	case "cosine":
		cfg.Metric = kselect.CosineMetric{}
	case "chebyshev":
		cfg.Metric = kselect.ChebyshevMetric{}
	default:
		return cfg, fmt.Errorf("unknown metric %q", opts.metric)
	}

	switch opts.fitter {
	case "lloyd":
		cfg.Fitter = kselect.DefaultLloydFitter()
	case "goml":
		cfg.Fitter = kselect.GomlFitter{}
	case "single":
		cfg.Fitter = kselect.SingleLinkageFitter{Metric: cfg.Metric}
	default:
		return cfg, fmt.Errorf("unknown fitter %q", opts.fitter)
	}

	return cfg, nil
}

func run(ctx context.Context, opts options, w io.Writer) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()
	cfg.Logger = &logger

	var r io.Reader = os.Stdin
	if opts.in != "-" {
		f, err := os.Open(opts.in)
		if err != nil {
			return fmt.Errorf("could not open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	m, err := readMatrix(r, opts.header, opts.labelled)
	if err != nil {
		return err
	}
	logger.Info().
		Int("rows", len(m.Rows)).
		Int("columns", len(m.Rows[0])).
		Msg("loaded response matrix")

	report, err := kselect.Sweep(ctx, m.Rows, cfg)
	if err != nil {
		return err
	}

	out := output{
		RunID:   runID,
		Points:  len(m.Rows),
		Dims:    len(m.Rows[0]),
		Report:  report,
		Sizes:   make(map[int][]int),
		Members: make(map[int][]int),
		Names:   m.Names,
		Columns: m.Columns,
	}
	for _, k := range suggestedKs(report) {
		c, ok := report.Candidate(k)
		if !ok {
			continue
		}
		out.Sizes[k] = kselect.ClusterSizes(c.Assignment.Labels, c.Assignment.K())
		out.Members[k] = c.Assignment.Labels
	}

	if opts.pca > 0 {
		proj, err := kselect.Project(m.Rows, opts.pca)
		if err != nil {
			logger.Warn().Err(err).Int("components", opts.pca).Msg("skipping projection")
		} else {
			out.PCA = &pcaOutput{K: report.SilhouetteK, Projection: proj}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// suggestedKs lists the distinct K values suggested by the report's heuristics.
func suggestedKs(report *kselect.Report) []int {
	seen := make(map[int]bool)
	var ks []int
	add := func(k int) {
		if k > 0 && !seen[k] {
			seen[k] = true
			ks = append(ks, k)
		}
	}
	add(report.ElbowK)
	add(report.SilhouetteK)
	if report.GapK != nil {
		add(report.GapK.K)
	}
	return ks
}
