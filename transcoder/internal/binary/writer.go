// Package binary implements the append-only little-endian writer used by the
// transcoder. Every integer write is range-checked against its declared
// width before any byte is appended.
package binary

import (
	"bytes"
	"encoding/binary"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/wippyai/rollup-codec/errors"
)

// MaxLen is the largest length a u32 prefix can carry.
const MaxLen = math.MaxUint32

type bounds struct {
	min, max *big.Int
	name     string
}

// limits[signed][log2(bits/8)]
var limits [2][5]bounds

var two128 = new(big.Int).Lsh(big.NewInt(1), 128)

func init() {
	for i, bits := range []uint{8, 16, 32, 64, 128} {
		one := big.NewInt(1)
		umax := new(big.Int).Sub(new(big.Int).Lsh(one, bits), one)
		limits[0][i] = bounds{min: new(big.Int), max: umax, name: "u" + itoa(bits)}

		smax := new(big.Int).Sub(new(big.Int).Lsh(one, bits-1), one)
		smin := new(big.Int).Neg(new(big.Int).Lsh(one, bits-1))
		limits[1][i] = bounds{min: smin, max: smax, name: "i" + itoa(bits)}
	}
}

func itoa(v uint) string {
	switch v {
	case 8:
		return "8"
	case 16:
		return "16"
	case 32:
		return "32"
	case 64:
		return "64"
	default:
		return "128"
	}
}

func limitsFor(bits int, signed bool) (bounds, bool) {
	var i int
	switch bits {
	case 8:
		i = 0
	case 16:
		i = 1
	case 32:
		i = 2
	case 64:
		i = 3
	case 128:
		i = 4
	default:
		return bounds{}, false
	}
	s := 0
	if signed {
		s = 1
	}
	return limits[s][i], true
}

// Writer accumulates canonical little-endian output.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// NewWriterBuffer creates a Writer appending to buf.
func NewWriterBuffer(buf *bytes.Buffer) *Writer {
	return &Writer{buf: buf}
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset discards everything written so far.
func (w *Writer) Reset() {
	w.buf.Reset()
}

// Byte writes a single byte.
func (w *Writer) Byte(b byte) {
	w.buf.WriteByte(b)
}

// WriteBool writes 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteF32 writes the IEEE 754 bits of v, little-endian.
func (w *Writer) WriteF32(v float32) {
	w.WriteU32LE(math.Float32bits(v))
}

// WriteF64 writes the IEEE 754 bits of v, little-endian.
func (w *Writer) WriteF64(v float64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	w.buf.Write(buf[:])
}

// WriteInteger writes v as a bits-wide integer. Signed values are written as
// their two's-complement unsigned equivalent. Values outside the exact range
// of the width are rejected before anything is written.
func (w *Writer) WriteInteger(bits int, signed bool, v *big.Int) error {
	lim, ok := limitsFor(bits, signed)
	if !ok {
		return errors.Unsupported(errors.PhaseEncode, "integer width "+itoa(uint(bits)))
	}
	if v == nil || v.Cmp(lim.min) < 0 || v.Cmp(lim.max) > 0 {
		return errors.IntegerOutOfRange(nil, v, lim.name)
	}

	var buf [16]byte
	n := bits / 8
	if bits <= 64 {
		var x uint64
		if v.Sign() < 0 {
			x = uint64(v.Int64())
		} else {
			x = v.Uint64()
		}
		binary.LittleEndian.PutUint64(buf[:8], x)
	} else {
		u := v
		if v.Sign() < 0 {
			u = new(big.Int).Add(v, two128)
		}
		u.FillBytes(buf[:16])
		for i, j := 0, 15; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
	}
	w.buf.Write(buf[:n])
	return nil
}

// WriteLen writes a u32 length prefix, rejecting lengths that do not fit.
func (w *Writer) WriteLen(n int) error {
	if n < 0 || uint64(n) > MaxLen {
		return errors.VecLengthOverflow(nil, n)
	}
	w.WriteU32LE(uint32(n))
	return nil
}

// WriteString writes a u32 byte count followed by the UTF-8 bytes of s.
func (w *Writer) WriteString(s string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidUTF8(errors.PhaseEncode, nil, []byte(s))
	}
	if err := w.WriteLen(len(s)); err != nil {
		return err
	}
	w.buf.WriteString(s)
	return nil
}

// WriteFixedBytes writes b with no length prefix.
func (w *Writer) WriteFixedBytes(b []byte) {
	w.buf.Write(b)
}

// WriteBytes writes a u32 length prefix followed by b.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.WriteLen(len(b)); err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// WriteSeq writes a u32 count followed by n elements produced by elem.
func (w *Writer) WriteSeq(n int, elem func(i int) error) error {
	if err := w.WriteLen(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := elem(i); err != nil {
			return err
		}
	}
	return nil
}
