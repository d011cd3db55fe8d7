package schema

// Kind is the type constructor tag of a Ty.
type Kind uint8

const (
	KindEnum Kind = iota
	KindStruct
	KindTuple
	KindOption
	KindInteger
	KindByteArray
	KindByteVec
	KindArray
	KindVec
	KindMap
	KindSkip
	KindFloat32
	KindFloat64
	KindString
	KindBoolean
)

var kindNames = [...]string{
	KindEnum:      "enum",
	KindStruct:    "struct",
	KindTuple:     "tuple",
	KindOption:    "option",
	KindInteger:   "integer",
	KindByteArray: "byte_array",
	KindByteVec:   "byte_vec",
	KindArray:     "array",
	KindVec:       "vec",
	KindMap:       "map",
	KindSkip:      "skip",
	KindFloat32:   "f32",
	KindFloat64:   "f64",
	KindString:    "string",
	KindBoolean:   "bool",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether values of this kind may be carried inline by an
// immediate link.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindInteger, KindByteArray, KindByteVec, KindSkip,
		KindFloat32, KindFloat64, KindString, KindBoolean:
		return true
	default:
		return false
	}
}

// IsContainer reports whether the kind needs name metadata.
func (k Kind) IsContainer() bool {
	return k == KindEnum || k == KindStruct
}
