package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/hupe1980/squant"
	"github.com/hupe1980/squant/blobstore"
	"github.com/hupe1980/squant/fvecs"
	"github.com/hupe1980/squant/metrics"
	"github.com/hupe1980/squant/quantization"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

func quantizeCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "quantize",
		Usage: "quantize vectors read from an .fvecs file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "source", Aliases: []string{"s"}, Usage: "path, s3://bucket/key or minio://bucket/key"},
			&cli.IntFlag{Name: "dim", Aliases: []string{"d"}, Usage: "vector dimension"},
			&cli.IntFlag{Name: "num", Aliases: []string{"n"}, Usage: "number of vectors to quantize"},
			&cli.BoolFlag{Name: "sample", Usage: "draw random vectors instead of the first num"},
			&cli.Uint64Flag{Name: "seed", Usage: "sampling seed; 0 picks a random one"},
			&cli.Float64Flag{Name: "quantile", Aliases: []string{"q"}, Usage: "retained fraction of each dimension, in (0, 1]"},
			&cli.IntFlag{Name: "bits", Usage: "code width, 1 to 8"},
			&cli.StringFlag{Name: "policy", Usage: "percentile policy: nearest or linear"},
			&cli.IntFlag{Name: "workers", Usage: "goroutines per batch; 0 uses GOMAXPROCS"},
			&cli.IntFlag{Name: "rate-limit", Usage: "max source read rate in bytes per second; 0 disables"},
			&cli.BoolFlag{Name: "metrics", Usage: "log Prometheus metrics before exiting"},
			&cli.BoolFlag{Name: "print-params", Usage: "print per-dimension bounds and parameters"},
			&cli.BoolFlag{Name: "print-codes", Usage: "print the quantized codes"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "s3-region", EnvVars: []string{"AWS_REGION"}},
			&cli.StringFlag{Name: "s3-endpoint", Usage: "override the S3 endpoint", EnvVars: []string{"S3_ENDPOINT_URL"}},
			&cli.BoolFlag{Name: "s3-path-style", Usage: "use path-style S3 addressing"},
			&cli.StringFlag{Name: "minio-endpoint", EnvVars: []string{"MINIO_ENDPOINT"}},
			&cli.StringFlag{Name: "minio-access-key", EnvVars: []string{"MINIO_ACCESS_KEY"}},
			&cli.StringFlag{Name: "minio-secret-key", EnvVars: []string{"MINIO_SECRET_KEY"}},
			&cli.BoolFlag{Name: "minio-secure", Usage: "use TLS for MinIO"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			cfg.applyFlags(c)

			return runQuantize(c, cfg, stdout, stderr)
		},
	}
}

func runQuantize(c *cli.Context, cfg Config, stdout, stderr io.Writer) error {
	ctx := c.Context

	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := cfg.logger(stderr)
	if err != nil {
		return err
	}
	policy, err := quantization.ParsePolicy(cfg.Policy)
	if err != nil {
		return err
	}

	if cfg.Sample && cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	loc, err := blobstore.ParseURI(cfg.Source)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, loc, cfg)
	if err != nil {
		return err
	}

	var (
		reg *prometheus.Registry
		mc  squant.MetricsCollector = squant.NoopMetricsCollector{}
	)
	if cfg.Metrics {
		reg = prometheus.NewRegistry()
		mc = metrics.NewPrometheusCollector(reg)
	}

	logger = logger.WithSource(loc.String())
	comp, err := squant.New(cfg.Quantile,
		squant.WithBits(cfg.Bits),
		squant.WithPolicy(policy),
		squant.WithWorkers(cfg.Workers),
		squant.WithLogger(logger),
		squant.WithMetricsCollector(mc),
	)
	if err != nil {
		return err
	}

	src, err := fvecs.Open(ctx, st, loc.Name, cfg.Dim, fvecs.WithRateLimit(cfg.RateLimit))
	if err != nil {
		return fmt.Errorf("open %s: %w", loc, err)
	}
	defer src.Close()

	logger.InfoContext(ctx, "source opened",
		"records", src.Count(),
		"sample", cfg.Sample,
		"seed", cfg.Seed,
	)

	batch, err := comp.QuantizeSource(ctx, src, cfg.Num, squant.LoadOptions{Sample: cfg.Sample, Seed: cfg.Seed})
	if err != nil {
		return err
	}

	printBatch(stdout, batch, c.Bool("print-params"), c.Bool("print-codes"))

	if reg != nil {
		return logMetrics(c, logger, reg)
	}
	return nil
}

func printBatch(w io.Writer, batch *squant.Batch, params, codes bool) {
	fmt.Fprintf(w, "Quantized batch %s\n", batch.ID)
	fmt.Fprintf(w, "  vectors:             %d\n", batch.NumVectors())
	fmt.Fprintf(w, "  bits:                %d\n", batch.Bits())
	fmt.Fprintf(w, "  quantile:            %g\n", batch.Quantile())
	fmt.Fprintf(w, "  clipped values:      %d\n", batch.TotalClipped())
	fmt.Fprintf(w, "  constant dimensions: %d\n", batch.ConstantDims().GetCardinality())

	if params {
		fmt.Fprintln(w, "Parameters:")
		bounds := batch.Bounds()
		for d, p := range batch.Params() {
			fmt.Fprintf(w, "  dim %d: low=%g high=%g scale=%g offset=%g\n", d, bounds[d].Low, bounds[d].High, p.Scale, p.Offset)
		}
	}

	if codes {
		fmt.Fprintln(w, "Codes:")
		for i := range batch.NumVectors() {
			v, _ := batch.Vector(i)
			fmt.Fprintf(w, "  %v\n", v)
		}
	}

	fmt.Fprintf(w, "Number of quantized dimensions: %d\n", batch.Dim())
}

func logMetrics(c *cli.Context, logger *squant.Logger, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, f := range families {
		for _, m := range f.GetMetric() {
			attrs := []any{"name", f.GetName()}
			for _, lp := range m.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			if h := m.GetHistogram(); h != nil {
				attrs = append(attrs, "count", h.GetSampleCount(), "sum", h.GetSampleSum())
			} else {
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			}
			logger.InfoContext(c.Context, "metric", attrs...)
		}
	}
	return nil
}
