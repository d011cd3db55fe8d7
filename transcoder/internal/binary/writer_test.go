package binary

import (
	"bytes"
	"encoding/hex"
	"math"
	"math/big"
	"testing"

	"github.com/wippyai/rollup-codec/errors"
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad literal " + s)
	}
	return v
}

func TestWriteInteger(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		want   string
		bits   int
		signed bool
	}{
		{"u8 zero", "0", "00", 8, false},
		{"u8 max", "255", "ff", 8, false},
		{"i8 min", "-128", "80", 8, true},
		{"i8 minus one", "-1", "ff", 8, true},
		{"u16", "258", "0201", 16, false},
		{"i16 min", "-32768", "0080", 16, true},
		{"u32", "7", "07000000", 32, false},
		{"i32 minus two", "-2", "feffffff", 32, true},
		{"u64 max", "18446744073709551615", "ffffffffffffffff", 64, false},
		{"i64 min", "-9223372036854775808", "0000000000000080", 64, true},
		{"u128 small", "20000", "204e0000000000000000000000000000", 128, false},
		{"u128 max", "340282366920938463463374607431768211455", "ffffffffffffffffffffffffffffffff", 128, false},
		{"i128 min", "-170141183460469231731687303715884105728", "00000000000000000000000000000080", 128, true},
		{"i128 minus one", "-1", "ffffffffffffffffffffffffffffffff", 128, true},
		{"i128 max", "170141183460469231731687303715884105727", "ffffffffffffffffffffffffffffff7f", 128, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			if err := w.WriteInteger(tt.bits, tt.signed, mustBig(tt.value)); err != nil {
				t.Fatalf("WriteInteger: %v", err)
			}
			if got := hex.EncodeToString(w.Bytes()); got != tt.want {
				t.Errorf("WriteInteger = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestWriteInteger_Boundaries(t *testing.T) {
	one := big.NewInt(1)
	for _, bits := range []int{8, 16, 32, 64, 128} {
		for _, signed := range []bool{false, true} {
			var lo, hi *big.Int
			if signed {
				hi = new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits-1)), one)
				lo = new(big.Int).Neg(new(big.Int).Lsh(one, uint(bits-1)))
			} else {
				hi = new(big.Int).Sub(new(big.Int).Lsh(one, uint(bits)), one)
				lo = new(big.Int)
			}

			w := NewWriter()
			if err := w.WriteInteger(bits, signed, hi); err != nil {
				t.Errorf("bits=%d signed=%v: max rejected: %v", bits, signed, err)
			}
			if err := w.WriteInteger(bits, signed, lo); err != nil {
				t.Errorf("bits=%d signed=%v: min rejected: %v", bits, signed, err)
			}
			if w.Len() != 2*bits/8 {
				t.Errorf("bits=%d signed=%v: wrote %d bytes", bits, signed, w.Len())
			}

			for _, v := range []*big.Int{new(big.Int).Add(hi, one), new(big.Int).Sub(lo, one)} {
				before := w.Len()
				err := w.WriteInteger(bits, signed, v)
				if err == nil {
					t.Errorf("bits=%d signed=%v: %s accepted", bits, signed, v)
					continue
				}
				if kind, _ := errors.KindOf(err); kind != errors.KindIntegerOutOfRange {
					t.Errorf("bits=%d signed=%v: kind = %v", bits, signed, kind)
				}
				if w.Len() != before {
					t.Errorf("bits=%d signed=%v: rejected write appended bytes", bits, signed)
				}
			}
		}
	}
}

func TestWriteInteger_NamesWidth(t *testing.T) {
	w := NewWriter()
	err := w.WriteInteger(8, false, big.NewInt(256))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !bytes.Contains([]byte(got), []byte("u8")) {
		t.Errorf("error %q does not name the width", got)
	}
}

func TestWriteInteger_BadWidth(t *testing.T) {
	w := NewWriter()
	err := w.WriteInteger(24, false, big.NewInt(1))
	if kind, _ := errors.KindOf(err); kind != errors.KindUnsupported {
		t.Errorf("kind = %v, want unsupported", kind)
	}
}

func TestWriteScalars(t *testing.T) {
	w := NewWriter()
	w.WriteBool(true)
	w.WriteBool(false)
	w.Byte(0x7f)
	w.WriteU32LE(0x01020304)
	w.WriteF32(1.0)
	w.WriteF64(-2.0)

	want := "0100" + "7f" + "04030201" + "0000803f" + "00000000000000c0"
	if got := hex.EncodeToString(w.Bytes()); got != want {
		t.Errorf("scalars = %s, want %s", got, want)
	}
}

func TestWriteString(t *testing.T) {
	w := NewWriter()
	if err := w.WriteString("token_1"); err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(w.Bytes()); got != "07000000746f6b656e5f31" {
		t.Errorf("WriteString = %s", got)
	}

	w.Reset()
	err := w.WriteString(string([]byte{0xff, 0xfe}))
	if kind, _ := errors.KindOf(err); kind != errors.KindInvalidUTF8 {
		t.Errorf("invalid utf8 kind = %v", kind)
	}
}

func TestWriteBytes(t *testing.T) {
	w := NewWriter()
	w.WriteFixedBytes([]byte{1, 2})
	if err := w.WriteBytes([]byte{3}); err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(w.Bytes()); got != "01020100000003" {
		t.Errorf("bytes = %s", got)
	}
}

func TestWriteLen(t *testing.T) {
	w := NewWriter()
	if err := w.WriteLen(math.MaxUint32); err != nil {
		t.Errorf("max u32 length rejected: %v", err)
	}
	for _, n := range []int{-1, math.MaxUint32 + 1} {
		err := w.WriteLen(n)
		if kind, _ := errors.KindOf(err); kind != errors.KindVecLengthOverflow {
			t.Errorf("WriteLen(%d) kind = %v, want vec_length_overflow", n, kind)
		}
	}
}

func TestWriteSeq(t *testing.T) {
	w := NewWriter()
	vals := []int64{1, 2, 3}
	err := w.WriteSeq(len(vals), func(i int) error {
		return w.WriteInteger(16, false, big.NewInt(vals[i]))
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(w.Bytes()); got != "03000000010002000300" {
		t.Errorf("WriteSeq = %s", got)
	}

	w.Reset()
	err = w.WriteSeq(2, func(i int) error {
		return w.WriteInteger(8, false, big.NewInt(300))
	})
	if kind, _ := errors.KindOf(err); kind != errors.KindIntegerOutOfRange {
		t.Errorf("element error kind = %v", kind)
	}
}

func TestNewWriterBuffer(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0xaa)
	w := NewWriterBuffer(&buf)
	w.Byte(0xbb)
	if !bytes.Equal(buf.Bytes(), []byte{0xaa, 0xbb}) {
		t.Errorf("buffer = %x", buf.Bytes())
	}
}
