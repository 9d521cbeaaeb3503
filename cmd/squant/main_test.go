package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := newApp(&stdout, &stderr).RunContext(context.Background(), append([]string{"squant"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestGenerateAndQuantize(t *testing.T) {
	for _, name := range []string{"vectors.fvecs", "vectors.fvecs.zst", "vectors.fvecs.lz4"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			out, _, err := run(t, "generate", "--out", path, "--num", "200", "--dim", "16", "--seed", "3", "--outliers", "0.01")
			require.NoError(t, err)
			assert.Contains(t, out, "Wrote 200 vectors of dimension 16")

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())

			out, logs, err := run(t, "quantize",
				"--source", path,
				"--dim", "16",
				"--num", "50",
				"--sample",
				"--seed", "9",
				"--quantile", "0.98",
				"--print-params",
				"--print-codes",
				"--metrics",
			)
			require.NoError(t, err)

			assert.Contains(t, out, "  vectors:             50\n")
			assert.Contains(t, out, "dim 15: low=")
			assert.Equal(t, 50, strings.Count(out, "  ["), "one code line per vector")
			assert.True(t, strings.HasSuffix(out, "Number of quantized dimensions: 16\n"))

			assert.Contains(t, logs, "quantize completed")
			assert.Contains(t, logs, "name=squant_values_quantized_total")
		})
	}
}

func TestQuantize_FirstVectorsAreDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.fvecs")
	_, _, err := run(t, "generate", "--out", path, "--num", "20", "--dim", "4")
	require.NoError(t, err)

	args := []string{"quantize", "--source", path, "--dim", "4", "--num", "20", "--sample=false", "--print-codes", "--log-level", "error"}
	a, _, err := run(t, args...)
	require.NoError(t, err)
	b, _, err := run(t, args...)
	require.NoError(t, err)

	codes := func(s string) string { return s[strings.Index(s, "Codes:"):] }
	assert.Equal(t, codes(a), codes(b))
}

func TestQuantize_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.fvecs")
	_, _, err := run(t, "generate", "--out", path, "--num", "30", "--dim", "8")
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "squant.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
source: %q
dim: 8
num: 30
sample: false
bits: 4
log:
  format: json
`, path)), 0o600))

	out, logs, err := run(t, "--config", cfgPath, "quantize", "--num", "12")
	require.NoError(t, err)
	assert.Contains(t, out, "  vectors:             12\n")
	assert.Contains(t, out, "  bits:                4\n")
	assert.Contains(t, logs, `"msg":"quantize completed"`)
}

func TestQuantize_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "v.fvecs")
	_, _, err := run(t, "generate", "--out", path, "--num", "5", "--dim", "4")
	require.NoError(t, err)

	_, _, err = run(t, "quantize", "--source", path, "--dim", "4", "--num", "6", "--sample=false")
	assert.ErrorContains(t, err, "insufficient data")

	_, _, err = run(t, "quantize", "--source", path, "--dim", "3", "--num", "1", "--sample=false")
	assert.Error(t, err)

	_, _, err = run(t, "quantize", "--source", filepath.Join(dir, "missing.fvecs"), "--dim", "4")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = run(t, "quantize", "--source", path, "--dim", "4", "--quantile", "0")
	assert.ErrorContains(t, err, "invalid parameter")

	_, _, err = run(t, "quantize", "--source", "gs://bucket/key", "--dim", "4")
	assert.ErrorContains(t, err, "unsupported scheme")
}

func TestGenerate_Errors(t *testing.T) {
	_, _, err := run(t, "generate", "--out", filepath.Join(t.TempDir(), "v.fvecs"), "--num", "0")
	assert.Error(t, err)

	_, _, err = run(t, "generate", "--out", filepath.Join(t.TempDir(), "v.fvecs"), "--outliers", "2")
	assert.Error(t, err)

	_, _, err = run(t, "generate")
	assert.Error(t, err, "--out is required")
}
