package bitmap

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// ErrMatrixConsistency reports a mismatch between the rotated bitmap and the
// packed byte stream. It indicates a bug, not bad input.
var ErrMatrixConsistency = errors.New("an internal problem was encountered while processing the label bitmap")

// Matrix is the printer-native form of a label: one row per printed tape
// position, every byte holding 8 vertically stacked pixels of tape width.
type Matrix [][]byte

// Clone returns a deep copy, so callers can trim rows without touching the source.
func (m Matrix) Clone() Matrix {
	return lo.Map(m, func(row []byte, _ int) []byte {
		return append([]byte(nil), row...)
	})
}

// RowLength returns the packed length of a row for a bitmap of the given height.
func RowLength(height int) int {
	return (height + 7) / 8
}

// Encode serializes rows of the bitmap MSB first, padding every row to a whole byte.
func Encode(src *Mono) []byte {
	stride := RowLength(src.width)
	data := make([]byte, stride*src.height)

	for y := 0; y < src.height; y++ {
		for x := 0; x < src.width; x++ {
			if src.Get(x, y) {
				data[y*stride+x/8] |= 0x80 >> (x % 8)
			}
		}
	}

	return data
}

// Pack rotates the composed bitmap into tape feed direction and slices the
// serialized stream into rows of ceil(height/8) bytes.
func Pack(src *Mono) (Matrix, error) {
	rowLen := RowLength(src.height)
	if rowLen == 0 || src.width == 0 {
		return Matrix{}, nil
	}

	stream := Encode(src.Rotate270())
	if len(stream)/rowLen != src.width {
		return nil, errors.Wrapf(ErrMatrixConsistency, "%d bytes for %d rows of %d", len(stream), src.width, rowLen)
	}

	rows := lo.Chunk(stream, rowLen)
	return Matrix(rows), nil
}

// Unpack restores the bitmap a matrix was packed from. height is the
// original bitmap height, which padding bits cannot carry.
func Unpack(m Matrix, height int) *Mono {
	dst := NewMono(len(m), height)
	for x, row := range m {
		for i := 0; i < height; i++ {
			byteIdx, bit := i/8, i%8
			if byteIdx >= len(row) {
				break
			}
			if row[byteIdx]&(0x80>>bit) != 0 {
				dst.SetBit(x, height-1-i, true)
			}
		}
	}
	return dst
}
