package schema

import "fmt"

// IntegerType is the declared width and signedness of an Integer.
type IntegerType uint8

const (
	I8 IntegerType = iota
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
)

var integerTypeNames = [...]string{
	I8:   "i8",
	I16:  "i16",
	I32:  "i32",
	I64:  "i64",
	I128: "i128",
	U8:   "u8",
	U16:  "u16",
	U32:  "u32",
	U64:  "u64",
	U128: "u128",
}

func (t IntegerType) String() string {
	if int(t) < len(integerTypeNames) {
		return integerTypeNames[t]
	}
	return "unknown"
}

// Signed reports whether the type is two's-complement signed.
func (t IntegerType) Signed() bool {
	return t <= I128
}

// Bits returns the encoded width in bits.
func (t IntegerType) Bits() int {
	switch t {
	case I8, U8:
		return 8
	case I16, U16:
		return 16
	case I32, U32:
		return 32
	case I64, U64:
		return 64
	default:
		return 128
	}
}

// ParseIntegerType parses the lowercase descriptor name of an integer type.
func ParseIntegerType(s string) (IntegerType, error) {
	for i, name := range integerTypeNames {
		if name == s {
			return IntegerType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown integer type %q", s)
}

// IntegerDisplayKind selects how an integer is shown to humans. It has no
// effect on the wire format.
type IntegerDisplayKind uint8

const (
	IntegerDecimal IntegerDisplayKind = iota
	IntegerHex
	IntegerFixedPoint
)

// IntegerDisplay is the display hint attached to an Integer.
type IntegerDisplay struct {
	Kind     IntegerDisplayKind
	Decimals uint8 // FixedPoint only
}

// ByteDisplayKind selects the textual encoding accepted for byte scalars.
type ByteDisplayKind uint8

const (
	DisplayHex ByteDisplayKind = iota
	DisplayDecimal
	DisplayBech32
	DisplayBech32m
)

var byteDisplayNames = [...]string{
	DisplayHex:     "hex",
	DisplayDecimal: "decimal",
	DisplayBech32:  "bech32",
	DisplayBech32m: "bech32m",
}

func (k ByteDisplayKind) String() string {
	if int(k) < len(byteDisplayNames) {
		return byteDisplayNames[k]
	}
	return "unknown"
}

// ByteDisplay is the display mode of a ByteArray or ByteVec. Prefix is the
// human-readable part required by the bech32 modes.
type ByteDisplay struct {
	Kind   ByteDisplayKind
	Prefix string
}

func (d ByteDisplay) String() string {
	if d.Kind == DisplayBech32 || d.Kind == DisplayBech32m {
		return d.Kind.String() + "(" + d.Prefix + ")"
	}
	return d.Kind.String()
}

// Hex returns the hexadecimal byte display.
func Hex() ByteDisplay { return ByteDisplay{Kind: DisplayHex} }

// Decimal returns the decimal byte display.
func Decimal() ByteDisplay { return ByteDisplay{Kind: DisplayDecimal} }

// Bech32 returns a bech32 byte display with the given human-readable prefix.
func Bech32(prefix string) ByteDisplay { return ByteDisplay{Kind: DisplayBech32, Prefix: prefix} }

// Bech32m returns a bech32m byte display with the given human-readable prefix.
func Bech32m(prefix string) ByteDisplay { return ByteDisplay{Kind: DisplayBech32m, Prefix: prefix} }
