package differential

import (
	"encoding/json"
	"math/big"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/wippyai/rollup-codec/display"
	"github.com/wippyai/rollup-codec/errors"
	"github.com/wippyai/rollup-codec/schema"
)

const (
	// softDepth is where the generator starts choosing terminating shapes
	// (None, empty collections) for recursive types.
	softDepth = 12
	hardDepth = 64

	maxCollection = 4
	maxByteVec    = 40
	maxString     = 12

	// bech32Limit is the longest string bech32 decoders accept.
	bech32Limit = 90
)

var alphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 _-éß漢字🙂")

// Generator produces random values that are valid for a schema type. It is
// deterministic for a given seed and not safe for concurrent use.
type Generator struct {
	schema *schema.Schema
	rng    *rand.Rand
}

// NewGenerator creates a Generator over s seeded with seed.
func NewGenerator(s *schema.Schema, seed uint64) *Generator {
	return &Generator{
		schema: s,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Value returns a random value for the type at index.
func (g *Generator) Value(index int) (any, error) {
	return g.link(schema.ByIndex(index), 0)
}

func (g *Generator) link(l schema.Link, depth int) (any, error) {
	t, idx, err := g.schema.Resolve(l)
	if err != nil {
		return nil, err
	}
	return g.value(t, idx, depth)
}

func (g *Generator) value(t schema.Ty, idx, depth int) (any, error) {
	if depth > hardDepth {
		return nil, errors.New(errors.PhaseDifferential, errors.KindRecursionLimit).
			TypeName(schema.Describe(t)).
			Detail("no terminating value within %d levels", hardDepth).
			Build()
	}
	deep := depth >= softDepth

	switch v := t.(type) {
	case *schema.Enum:
		return g.enum(v, idx, depth)
	case *schema.Struct:
		return g.structValue(v, idx, depth)
	case *schema.Tuple:
		switch len(v.Fields) {
		case 0:
			return nil, nil
		case 1:
			return g.link(v.Fields[0].Value, depth+1)
		}
		out := make([]any, len(v.Fields))
		for i, f := range v.Fields {
			e, err := g.link(f.Value, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case *schema.Option:
		if deep || g.rng.IntN(3) == 0 {
			return nil, nil
		}
		return g.link(v.Value, depth+1)
	case *schema.Integer:
		return json.Number(g.integer(v.Type).String()), nil
	case *schema.ByteArray:
		return g.bytes(v.Display, v.Len)
	case *schema.ByteVec:
		return g.bytes(v.Display, g.rng.IntN(maxByteVec+1))
	case *schema.Array:
		return g.sequence(v.Value, v.Len, depth)
	case *schema.Vec:
		n := 0
		if !deep {
			n = g.rng.IntN(maxCollection + 1)
		}
		return g.sequence(v.Value, n, depth)
	case *schema.Map:
		if deep {
			return map[string]any{}, nil
		}
		return g.mapValue(v, depth)
	case *schema.Skip:
		return nil, nil
	case *schema.Float32:
		return float64(float32(g.rng.NormFloat64() * 1e3)), nil
	case *schema.Float64:
		return g.rng.NormFloat64() * 1e6, nil
	case *schema.String:
		return g.text(), nil
	case *schema.Boolean:
		return g.rng.IntN(2) == 1, nil
	default:
		return nil, errors.Unsupported(errors.PhaseDifferential, "type "+schema.Describe(t))
	}
}

func (g *Generator) enum(e *schema.Enum, idx, depth int) (any, error) {
	names, err := g.schema.Names(idx)
	if err != nil {
		return nil, err
	}
	if len(e.Variants) == 0 {
		return nil, errors.Unsupported(errors.PhaseDifferential, "enum "+e.TypeName+" without variants")
	}

	pick := g.rng.IntN(len(e.Variants))
	if depth >= softDepth {
		for i, variant := range e.Variants {
			if variant.Value == nil {
				pick = i
				break
			}
		}
	}

	variant := e.Variants[pick]
	if variant.Value == nil {
		return names[pick], nil
	}
	payload, err := g.link(*variant.Value, depth+1)
	if err != nil {
		return nil, err
	}
	return map[string]any{names[pick]: payload}, nil
}

func (g *Generator) structValue(st *schema.Struct, idx, depth int) (any, error) {
	names, err := g.schema.Names(idx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(st.Fields))
	for i, f := range st.Fields {
		ft, _, err := g.schema.Resolve(f.Value)
		if err != nil {
			return nil, err
		}
		// Absent Option keys encode as None.
		if ft.Kind() == schema.KindOption && g.rng.IntN(4) == 0 {
			continue
		}
		v, err := g.link(f.Value, depth+1)
		if err != nil {
			return nil, err
		}
		out[names[i]] = v
	}
	return out, nil
}

func (g *Generator) sequence(elem schema.Link, n, depth int) (any, error) {
	out := make([]any, n)
	for i := range out {
		v, err := g.link(elem, depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (g *Generator) mapValue(m *schema.Map, depth int) (any, error) {
	n := g.rng.IntN(maxCollection + 1)
	out := make(map[string]any, n)
	for range n {
		k, err := g.link(m.Key, depth+1)
		if err != nil {
			return nil, err
		}
		key, ok := mapKey(k)
		if !ok {
			return nil, errors.Unsupported(errors.PhaseDifferential, "map key value "+errors.Describe(k))
		}
		v, err := g.link(m.Value, depth+1)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func mapKey(v any) (string, bool) {
	switch k := v.(type) {
	case string:
		return k, true
	case json.Number:
		return k.String(), true
	case bool:
		return strconv.FormatBool(k), true
	default:
		return "", false
	}
}

// integer favours the range boundaries, where encoders most often differ.
func (g *Generator) integer(it schema.IntegerType) *big.Int {
	bits := uint(it.Bits())
	lo, hi := new(big.Int), new(big.Int).Lsh(big.NewInt(1), bits)
	if it.Signed() {
		lo.Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
		hi.Lsh(big.NewInt(1), bits-1)
	}
	hi.Sub(hi, big.NewInt(1))

	switch g.rng.IntN(6) {
	case 0:
		return lo
	case 1:
		return hi
	case 2:
		return new(big.Int).Add(lo, big.NewInt(1))
	case 3:
		return new(big.Int).Sub(hi, big.NewInt(1))
	}

	words := (bits + 63) / 64
	r := new(big.Int)
	for range words {
		r.Lsh(r, 64)
		r.Or(r, new(big.Int).SetUint64(g.rng.Uint64()))
	}
	r.Rsh(r, words*64-bits)
	return r.Add(r, lo)
}

func (g *Generator) bytes(d schema.ByteDisplay, n int) (any, error) {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(g.rng.UintN(256))
	}

	if g.rng.IntN(5) == 0 {
		return byteList(b), nil
	}
	s, err := display.Encode(d, b)
	if err != nil {
		return nil, err
	}
	if (d.Kind == schema.DisplayBech32 || d.Kind == schema.DisplayBech32m) && len(s) > bech32Limit {
		return byteList(b), nil
	}
	return s, nil
}

func byteList(b []byte) []any {
	out := make([]any, len(b))
	for i, v := range b {
		out[i] = json.Number(strconv.Itoa(int(v)))
	}
	return out
}

func (g *Generator) text() string {
	var sb strings.Builder
	for range g.rng.IntN(maxString + 1) {
		sb.WriteRune(alphabet[g.rng.IntN(len(alphabet))])
	}
	return sb.String()
}
