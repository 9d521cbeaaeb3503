// Command squant quantizes embedding vectors read from .fvecs files.
//
//	squant generate --out vectors.fvecs --num 10000 --dim 128
//	squant quantize --source vectors.fvecs --dim 128 --num 100 --quantile 0.99
//
// Sources may be local paths, s3://bucket/key or minio://bucket/key.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp(os.Stdout, os.Stderr).RunContext(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "squant:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "squant",
		Usage:     "quantile-trimmed scalar quantization for embedding vectors",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file; explicit flags override it",
				EnvVars: []string{"SQUANT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			quantizeCommand(stdout, stderr),
			generateCommand(stdout),
		},
	}
}
