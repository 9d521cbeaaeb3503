package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/hupe1980/squant/blobstore"
	"github.com/hupe1980/squant/fvecs"
	"github.com/urfave/cli/v2"
)

func generateCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "write a synthetic Gaussian dataset with outliers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "output location; .zst or .lz4 compresses"},
			&cli.IntFlag{Name: "num", Aliases: []string{"n"}, Value: 1000},
			&cli.IntFlag{Name: "dim", Aliases: []string{"d"}, Value: 128},
			&cli.Uint64Flag{Name: "seed", Value: 1},
			&cli.Float64Flag{Name: "outliers", Value: 0.001, Usage: "fraction of values turned into outliers"},
			&cli.Float64Flag{Name: "outlier-scale", Value: 20, Usage: "outliers are this many standard deviations out"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			g := generator{
				num:          c.Int("num"),
				dim:          c.Int("dim"),
				seed:         c.Uint64("seed"),
				outliers:     c.Float64("outliers"),
				outlierScale: c.Float64("outlier-scale"),
			}
			return runGenerate(c, cfg, c.String("out"), g, stdout)
		},
	}
}

// generator produces vectors whose dimensions have their own mean and spread.
type generator struct {
	num          int
	dim          int
	seed         uint64
	outliers     float64
	outlierScale float64
}

func (g generator) validate() error {
	if g.num <= 0 || g.dim <= 0 {
		return fmt.Errorf("num and dim must be positive, got %d and %d", g.num, g.dim)
	}
	if g.outliers < 0 || g.outliers > 1 {
		return fmt.Errorf("outliers must lie in [0, 1], got %g", g.outliers)
	}
	return nil
}

// write encodes the dataset one vector at a time.
func (g generator) write(enc *fvecs.Encoder) error {
	rng := fvecs.NewRand(g.seed)

	means := make([]float64, g.dim)
	spreads := make([]float64, g.dim)
	for d := range g.dim {
		means[d] = rng.Float64()*2 - 1
		spreads[d] = 0.05 + rng.Float64()*0.5
	}

	vec := make([]float32, g.dim)
	for range g.num {
		for d := range g.dim {
			z := rng.NormFloat64()
			if rng.Float64() < g.outliers {
				z = g.outlierScale * sign(rng)
			}
			vec[d] = float32(means[d] + z*spreads[d])
		}
		if err := enc.Encode(vec); err != nil {
			return err
		}
	}
	return enc.Flush()
}

func sign(rng *rand.Rand) float64 {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

func runGenerate(c *cli.Context, cfg Config, out string, g generator, stdout io.Writer) error {
	if err := g.validate(); err != nil {
		return err
	}

	loc, err := blobstore.ParseURI(out)
	if err != nil {
		return err
	}
	st, err := openStore(c.Context, loc, cfg)
	if err != nil {
		return err
	}

	blob, err := st.Create(c.Context, loc.Name)
	if err != nil {
		return err
	}

	cw, err := fvecs.NewCompressor(blob, fvecs.CompressionFromName(loc.Name))
	if err != nil {
		_ = blob.Close()
		return err
	}

	enc, err := fvecs.NewEncoder(cw, g.dim)
	if err != nil {
		_ = blob.Close()
		return err
	}

	if err := g.write(enc); err != nil {
		_ = blob.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		_ = blob.Close()
		return err
	}
	if err := blob.Close(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %d vectors of dimension %d to %s\n", g.num, g.dim, loc)
	return nil
}
