package fvecs

import (
	"encoding/binary"
	"math"
)

const headerSize = 4

// RecordSize returns the encoded size of one record of the given dimension.
func RecordSize(dim int) int64 {
	return headerSize + 4*int64(dim)
}

func peekDim(rec []byte) int {
	return int(int32(binary.LittleEndian.Uint32(rec)))
}

// decodeRecord checks the header of a full record and decodes its values into dst.
func decodeRecord(rec []byte, dst []float32, index int, offset int64) error {
	declared := peekDim(rec)
	if declared != len(dst) {
		return &MalformedRecordError{Index: index, Offset: offset, Declared: declared, Expected: len(dst)}
	}

	body := rec[headerSize:]
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[4*i:]))
	}
	return nil
}

// appendRecord appends the encoding of vec to buf.
func appendRecord(buf []byte, vec []float32) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(len(vec))))
	for _, v := range vec {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}
