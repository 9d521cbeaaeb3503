package fvecs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// makeVectors returns count records of dim values; record i holds i*100+d at position d.
func makeVectors(count, dim int) []float32 {
	out := make([]float32, count*dim)
	for i := range count {
		for d := range dim {
			out[i*dim+d] = float32(i*100 + d)
		}
	}
	return out
}

func encode(t *testing.T, values []float32, dim int, c CompressionType) []byte {
	t.Helper()

	var buf bytes.Buffer
	cw, err := NewCompressor(&buf, c)
	require.NoError(t, err)

	enc, err := NewEncoder(cw, dim)
	require.NoError(t, err)
	require.NoError(t, enc.EncodeBatch(values))
	require.NoError(t, enc.Flush())
	require.NoError(t, cw.Close())

	return buf.Bytes()
}
