package schema

import "strconv"

// Ty is a type definition. The set of implementations is closed; see the
// package documentation for the full list.
type Ty interface {
	Kind() Kind
	isTy()
}

// Enum is a tagged union written as a one-byte discriminant followed by the
// variant's payload, if any.
type Enum struct {
	TypeName string
	Variants []EnumVariant
	HideTag  bool
}

// EnumVariant is one case of an Enum. Value is nil for variants without payload.
type EnumVariant struct {
	Value        *Link
	Name         string
	Discriminant uint8
}

// Struct is a record of named fields written in declaration order.
type Struct struct {
	TypeName string
	Fields   []NamedField
}

// NamedField is a Struct field. DisplayName is the schema's name for the
// field; the external (input) name comes from the container metadata.
type NamedField struct {
	Value       Link
	DisplayName string
	Doc         string
	Silent      bool
}

// Tuple is a positional record. A one-field tuple is transparent.
type Tuple struct {
	Fields []UnnamedField
}

// UnnamedField is a Tuple field.
type UnnamedField struct {
	Value  Link
	Doc    string
	Silent bool
}

// Option is written as a presence byte followed by the inner value when present.
type Option struct {
	Value Link
}

// Integer is a fixed-width little-endian integer.
type Integer struct {
	Type    IntegerType
	Display IntegerDisplay
}

// ByteArray is a fixed-length byte block with no length prefix.
type ByteArray struct {
	Display ByteDisplay
	Len     int
}

// ByteVec is a u32-length-prefixed byte block.
type ByteVec struct {
	Display ByteDisplay
}

// Array is a fixed-length sequence with no length prefix.
type Array struct {
	Value Link
	Len   int
}

// Vec is a u32-length-prefixed sequence.
type Vec struct {
	Value Link
}

// Map is a u32-count-prefixed sequence of key/value pairs.
type Map struct {
	Key   Link
	Value Link
}

// Skip occupies a schema position without any wire representation.
type Skip struct {
	Len int
}

type (
	Float32 struct{}
	Float64 struct{}
	String  struct{}
	Boolean struct{}
)

func (*Enum) Kind() Kind      { return KindEnum }
func (*Struct) Kind() Kind    { return KindStruct }
func (*Tuple) Kind() Kind     { return KindTuple }
func (*Option) Kind() Kind    { return KindOption }
func (*Integer) Kind() Kind   { return KindInteger }
func (*ByteArray) Kind() Kind { return KindByteArray }
func (*ByteVec) Kind() Kind   { return KindByteVec }
func (*Array) Kind() Kind     { return KindArray }
func (*Vec) Kind() Kind       { return KindVec }
func (*Map) Kind() Kind       { return KindMap }
func (*Skip) Kind() Kind      { return KindSkip }
func (*Float32) Kind() Kind   { return KindFloat32 }
func (*Float64) Kind() Kind   { return KindFloat64 }
func (*String) Kind() Kind    { return KindString }
func (*Boolean) Kind() Kind   { return KindBoolean }

func (*Enum) isTy()      {}
func (*Struct) isTy()    {}
func (*Tuple) isTy()     {}
func (*Option) isTy()    {}
func (*Integer) isTy()   {}
func (*ByteArray) isTy() {}
func (*ByteVec) isTy()   {}
func (*Array) isTy()     {}
func (*Vec) isTy()       {}
func (*Map) isTy()       {}
func (*Skip) isTy()      {}
func (*Float32) isTy()   {}
func (*Float64) isTy()   {}
func (*String) isTy()    {}
func (*Boolean) isTy()   {}

// Describe returns a short human-readable name for a type, used in error
// messages. Named containers use their type name.
func Describe(t Ty) string {
	switch v := t.(type) {
	case *Enum:
		return v.TypeName
	case *Struct:
		return v.TypeName
	case *Integer:
		return v.Type.String()
	case *ByteArray:
		return "[u8; " + strconv.Itoa(v.Len) + "]"
	case *ByteVec:
		return "Vec<u8>"
	case *Array:
		return "array[" + strconv.Itoa(v.Len) + "]"
	case nil:
		return "<nil>"
	default:
		return t.Kind().String()
	}
}
