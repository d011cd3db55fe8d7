package transcoder

import (
	"math"
	"math/big"
	"slices"
	"strconv"

	"github.com/wippyai/rollup-codec/display"
	"github.com/wippyai/rollup-codec/errors"
	"github.com/wippyai/rollup-codec/schema"
	"github.com/wippyai/rollup-codec/transcoder/internal/abi"
	"github.com/wippyai/rollup-codec/transcoder/internal/binary"
	"go.uber.org/zap"
)

// DefaultMaxDepth bounds how deeply the encoder follows links before it
// reports recursion_limit. Well-formed schemas stay far below it.
const DefaultMaxDepth = 256

// Options configures an Encoder.
type Options struct {
	// MaxDepth is the maximum type nesting depth. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Encoder writes loosely-typed values in canonical form according to a
// schema. It holds no per-call state and is safe for concurrent use.
type Encoder struct {
	schema   *schema.Schema
	maxDepth int
}

// NewEncoder creates an Encoder over s.
func NewEncoder(s *schema.Schema, opts Options) *Encoder {
	depth := opts.MaxDepth
	if depth <= 0 {
		depth = DefaultMaxDepth
	}
	return &Encoder{schema: s, maxDepth: depth}
}

// Schema returns the schema the encoder was built with.
func (e *Encoder) Schema() *schema.Schema {
	return e.schema
}

// Encode encodes value against the type at index. On error no bytes are
// returned.
func (e *Encoder) Encode(index int, value any) ([]byte, error) {
	t, err := e.schema.Type(index)
	if err != nil {
		return nil, err
	}

	buf := getBuf()
	defer putBuf(buf)

	st := &state{
		schema:   e.schema,
		w:        binary.NewWriterBuffer(buf),
		maxDepth: e.maxDepth,
	}
	if err := st.visitTy(t, index, value); err != nil {
		Logger().Debug("encode failed",
			zap.Int("type", index),
			zap.Error(err))
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	Logger().Debug("encoded",
		zap.Int("type", index),
		zap.Int("bytes", len(out)))
	return out, nil
}

// state is the per-call visitor state.
type state struct {
	schema   *schema.Schema
	w        *binary.Writer
	path     []string
	scratch  big.Int
	depth    int
	maxDepth int
}

func (st *state) push(seg string) { st.path = append(st.path, seg) }
func (st *state) pop()            { st.path = st.path[:len(st.path)-1] }

func (st *state) pathCopy() []string {
	return append([]string{}, st.path...)
}

// locate attaches the current path to errors raised below the visitor
// (writer, display codec, schema lookups) that do not carry one yet.
func (st *state) locate(err error) error {
	if e, ok := err.(*errors.Error); ok && e.Path == nil {
		e.Path = st.pathCopy()
	}
	return err
}

func (st *state) visit(l schema.Link, value any) error {
	t, idx, err := st.schema.Resolve(l)
	if err != nil {
		return st.locate(err)
	}
	return st.visitTy(t, idx, value)
}

// visitTy encodes value against t. idx is t's index in the schema, or -1
// for an inline primitive.
func (st *state) visitTy(t schema.Ty, idx int, value any) error {
	st.depth++
	defer func() { st.depth-- }()
	if st.depth > st.maxDepth {
		return errors.New(errors.PhaseEncode, errors.KindRecursionLimit).
			Path(st.pathCopy()...).
			TypeName(schema.Describe(t)).
			Detail("type nesting exceeds maximum depth %d", st.maxDepth).
			Build()
	}

	var err error
	switch v := t.(type) {
	case *schema.Enum:
		err = st.encodeEnum(v, idx, value)
	case *schema.Struct:
		err = st.encodeStruct(v, idx, value)
	case *schema.Tuple:
		err = st.encodeTuple(v, value)
	case *schema.Option:
		err = st.encodeOption(v, value)
	case *schema.Integer:
		err = st.encodeInteger(v, value)
	case *schema.ByteArray:
		err = st.encodeByteArray(v, value)
	case *schema.ByteVec:
		err = st.encodeByteVec(v, value)
	case *schema.Array:
		err = st.encodeArray(v, value)
	case *schema.Vec:
		err = st.encodeVec(v, value)
	case *schema.Map:
		err = st.encodeMap(v, value)
	case *schema.Skip:
		// no wire representation
	case *schema.Float32:
		err = st.encodeFloat(value, 32)
	case *schema.Float64:
		err = st.encodeFloat(value, 64)
	case *schema.String:
		err = st.encodeString(value)
	case *schema.Boolean:
		err = st.encodeBool(value)
	default:
		err = errors.Unsupported(errors.PhaseEncode, "type "+schema.Describe(t))
	}
	if err != nil {
		return st.locate(err)
	}
	return nil
}

func containerName(s *schema.Schema, typeName string, idx int) string {
	if typeName != "" {
		return typeName
	}
	return s.ContainerName(idx)
}

func (st *state) encodeEnum(en *schema.Enum, idx int, value any) error {
	container := containerName(st.schema, en.TypeName, idx)

	var (
		name       string
		payload    any
		hasPayload bool
	)
	switch v := value.(type) {
	case string:
		name = v
	default:
		obj, ok := abi.Object(value)
		if !ok {
			return errors.InvalidType(errors.PhaseEncode, st.pathCopy(),
				"variant name or single-key object for enum "+container, value)
		}
		if len(obj) != 1 {
			return errors.New(errors.PhaseEncode, errors.KindMalformedEnum).
				Path(st.pathCopy()...).
				TypeName(container).
				Value(value).
				Detail("enum value must have exactly one key, found %d", len(obj)).
				Build()
		}
		for k, p := range obj {
			name, payload = k, p
		}
		hasPayload = true
	}

	pos, ok := st.schema.Position(idx, name)
	if !ok {
		if _, err := st.schema.Names(idx); err != nil {
			return err
		}
		return errors.InvalidDiscriminant(st.pathCopy(), container, name)
	}
	variant := en.Variants[pos]
	st.w.Byte(variant.Discriminant)

	if variant.Value == nil {
		if hasPayload {
			return errors.UnusedInput(st.pathCopy(), container, []string{name})
		}
		return nil
	}
	if !hasPayload {
		return errors.MissingValue(st.pathCopy(), container, "variant "+strconv.Quote(name))
	}

	st.push(name)
	defer st.pop()
	return st.visit(*variant.Value, payload)
}

func (st *state) encodeStruct(s *schema.Struct, idx int, value any) error {
	container := containerName(st.schema, s.TypeName, idx)

	obj, ok := abi.Object(value)
	if !ok {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(), "object for struct "+container, value)
	}
	names, err := st.schema.Names(idx)
	if err != nil {
		return err
	}

	consumed := 0
	for i, field := range s.Fields {
		name := names[i]
		fv, present := obj[name]
		if !present {
			ok, err := st.absentField(field.Value)
			if err != nil {
				return err
			}
			if !ok {
				return errors.MissingField(st.pathCopy(), container, name)
			}
			continue
		}
		consumed++

		st.push(name)
		err := st.visit(field.Value, fv)
		st.pop()
		if err != nil {
			return err
		}
	}

	if consumed < len(obj) {
		var unused []string
		for k := range obj {
			if _, known := st.schema.Position(idx, k); !known {
				unused = append(unused, k)
			}
		}
		slices.Sort(unused)
		return errors.UnusedInput(st.pathCopy(), container, unused)
	}
	return nil
}

// absentField handles a struct field whose key is missing from the input.
// Options encode as None and Skip positions need no value; anything else is
// reported as missing.
func (st *state) absentField(l schema.Link) (bool, error) {
	t, _, err := st.schema.Resolve(l)
	if err != nil {
		return false, err
	}
	switch t.(type) {
	case *schema.Option:
		st.w.Byte(0)
		return true, nil
	case *schema.Skip:
		return true, nil
	}
	return false, nil
}

func (st *state) encodeTuple(t *schema.Tuple, value any) error {
	// A one-field tuple is transparent: the value is the field.
	if len(t.Fields) == 1 {
		return st.visit(t.Fields[0].Value, value)
	}
	if len(t.Fields) == 0 && value == nil {
		return nil
	}

	n, at, ok := abi.Sequence(value)
	if !ok {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(),
			"array of "+strconv.Itoa(len(t.Fields))+" elements", value)
	}
	if n != len(t.Fields) {
		return errors.WrongLength(errors.PhaseEncode, st.pathCopy(), len(t.Fields), n)
	}
	for i, f := range t.Fields {
		st.push(strconv.Itoa(i))
		err := st.visit(f.Value, at(i))
		st.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (st *state) encodeOption(o *schema.Option, value any) error {
	if value == nil {
		st.w.Byte(0)
		return nil
	}
	st.w.Byte(1)
	return st.visit(o.Value, value)
}

func (st *state) encodeInteger(it *schema.Integer, value any) error {
	v, ok := abi.CoerceToBigInt(value, &st.scratch)
	if !ok {
		if abi.IsNumber(value) {
			return errors.IntegerOutOfRange(st.pathCopy(), value, it.Type.String())
		}
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(), it.Type.String(), value)
	}
	return st.w.WriteInteger(it.Type.Bits(), it.Type.Signed(), v)
}

func (st *state) encodeFloat(value any, bits int) error {
	name := "f" + strconv.Itoa(bits)
	f, ok := abi.CoerceToFloat64(value)
	if !ok || math.IsNaN(f) {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(), name, value)
	}
	if bits == 32 {
		st.w.WriteF32(float32(f))
	} else {
		st.w.WriteF64(f)
	}
	return nil
}

func (st *state) encodeString(value any) error {
	s, ok := value.(string)
	if !ok {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(), "string", value)
	}
	return st.w.WriteString(s)
}

func (st *state) encodeBool(value any) error {
	b, ok := abi.CoerceToBool(value)
	if !ok {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(), "boolean", value)
	}
	st.w.WriteBool(b)
	return nil
}

// byteInput accepts either a display string decoded with d or a sequence of
// byte values.
func (st *state) byteInput(d schema.ByteDisplay, value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return display.Decode(d, v)
	case []byte:
		return v, nil
	}

	n, at, ok := abi.Sequence(value)
	if !ok {
		return nil, errors.InvalidType(errors.PhaseEncode, st.pathCopy(),
			"byte list or "+d.String()+" string", value)
	}
	out := make([]byte, n)
	for i := range out {
		elem := at(i)
		b, ok := abi.CoerceToByte(elem)
		if ok {
			out[i] = b
			continue
		}
		st.push(strconv.Itoa(i))
		path := st.pathCopy()
		st.pop()
		if abi.IsNumber(elem) {
			return nil, errors.IntegerOutOfRange(path, elem, "u8")
		}
		return nil, errors.InvalidType(errors.PhaseEncode, path, "byte value 0-255", elem)
	}
	return out, nil
}

func (st *state) encodeByteArray(ba *schema.ByteArray, value any) error {
	b, err := st.byteInput(ba.Display, value)
	if err != nil {
		return err
	}
	if len(b) != ba.Len {
		return errors.WrongLength(errors.PhaseEncode, st.pathCopy(), ba.Len, len(b))
	}
	st.w.WriteFixedBytes(b)
	return nil
}

func (st *state) encodeByteVec(bv *schema.ByteVec, value any) error {
	b, err := st.byteInput(bv.Display, value)
	if err != nil {
		return err
	}
	return st.w.WriteBytes(b)
}

func (st *state) encodeArray(a *schema.Array, value any) error {
	n, at, ok := abi.Sequence(value)
	if !ok {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(),
			"array of "+strconv.Itoa(a.Len)+" elements", value)
	}
	if n != a.Len {
		return errors.WrongLength(errors.PhaseEncode, st.pathCopy(), a.Len, n)
	}
	for i := 0; i < n; i++ {
		st.push(strconv.Itoa(i))
		err := st.visit(a.Value, at(i))
		st.pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (st *state) encodeVec(v *schema.Vec, value any) error {
	n, at, ok := abi.Sequence(value)
	if !ok {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(), "array", value)
	}
	return st.w.WriteSeq(n, func(i int) error {
		st.push(strconv.Itoa(i))
		defer st.pop()
		return st.visit(v.Value, at(i))
	})
}

// encodeMap writes entries in ascending byte order of their keys. Numeric
// key types are parsed from the key's string form by the key's own visitor.
func (st *state) encodeMap(m *schema.Map, value any) error {
	obj, ok := abi.Object(value)
	if !ok {
		return errors.InvalidType(errors.PhaseEncode, st.pathCopy(), "object for map", value)
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return st.w.WriteSeq(len(keys), func(i int) error {
		k := keys[i]
		st.push(k)
		defer st.pop()
		if err := st.visit(m.Key, k); err != nil {
			return err
		}
		return st.visit(m.Value, obj[k])
	})
}
