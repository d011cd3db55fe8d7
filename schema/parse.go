package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tidwall/jsonc"
	"github.com/wippyai/rollup-codec/errors"
)

// Parse loads a schema from a descriptor document. Comments and trailing
// commas are accepted.
//
// The descriptor is an object with three required fields:
//
//	types              ordered list of type definitions
//	root_type_indices  type index per Role (transaction, unsigned, call, address)
//	serde_metadata     per-type container names, aligned with types
//
// Type definitions, links and display modes use externally tagged enums:
// unit variants are bare strings ("String", "Hex", "Placeholder") and data
// variants are single-key objects ({"ByIndex": 3}).
func Parse(data []byte) (*Schema, error) {
	doc, err := decodeObject("schema", jsonc.ToJSON(data))
	if err != nil {
		return nil, err
	}

	rawTypes, err := doc.requireArray("types")
	if err != nil {
		return nil, err
	}
	rawRoots, err := doc.require("root_type_indices")
	if err != nil {
		return nil, err
	}
	rawMeta, err := doc.requireArray("serde_metadata")
	if err != nil {
		return nil, err
	}

	types := make([]Ty, len(rawTypes))
	for i, raw := range rawTypes {
		t, err := parseTy("types["+strconv.Itoa(i)+"]", raw)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}

	var roots []int
	if err := unmarshal(doc.path+".root_type_indices", rawRoots, &roots); err != nil {
		return nil, err
	}

	meta := make([]ContainerMetadata, len(rawMeta))
	for i, raw := range rawMeta {
		m, err := parseMetadata("serde_metadata["+strconv.Itoa(i)+"]", raw)
		if err != nil {
			return nil, err
		}
		meta[i] = m
	}

	return New(types, roots, meta)
}

// Load reads and parses a descriptor from r.
func Load(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.MalformedDocument(errors.PhaseSchema, "read schema descriptor", err)
	}
	return Parse(data)
}

// LoadFile reads and parses the descriptor at path.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.MalformedDocument(errors.PhaseSchema, "read schema descriptor "+path, err)
	}
	return Parse(data)
}

func parseMetadata(path string, raw json.RawMessage) (ContainerMetadata, error) {
	obj, err := decodeObject(path, raw)
	if err != nil {
		return ContainerMetadata{}, err
	}
	var m ContainerMetadata
	if rawName, ok := obj.optional("name"); ok {
		if err := unmarshal(path+".name", rawName, &m.Name); err != nil {
			return m, err
		}
	}
	// Non-container entries may omit their (empty) name list.
	var entries []json.RawMessage
	if err := obj.optionalInto("fields_or_variants", &entries); err != nil {
		return m, err
	}
	m.FieldsOrVariants = make([]string, len(entries))
	for j, rawEntry := range entries {
		entryPath := path + ".fields_or_variants[" + strconv.Itoa(j) + "]"
		entry, err := decodeObject(entryPath, rawEntry)
		if err != nil {
			return m, err
		}
		rawName, err := entry.require("name")
		if err != nil {
			return m, err
		}
		if err := unmarshal(entryPath+".name", rawName, &m.FieldsOrVariants[j]); err != nil {
			return m, err
		}
	}
	return m, nil
}

var dataConstructors = map[string]bool{
	"Enum": true, "Struct": true, "Tuple": true, "Option": true,
	"ByteArray": true, "ByteVec": true, "Array": true, "Vec": true,
	"Map": true, "Skip": true,
}

func parseTy(path string, raw json.RawMessage) (Ty, error) {
	tag, body, err := decodeTagged(path, raw)
	if err != nil {
		return nil, err
	}
	path += "." + tag

	switch tag {
	case "Float32", "Float64", "String", "Boolean":
		if body != nil {
			return nil, malformed(path, "unit variant must not carry data")
		}
		switch tag {
		case "Float32":
			return &Float32{}, nil
		case "Float64":
			return &Float64{}, nil
		case "String":
			return &String{}, nil
		default:
			return &Boolean{}, nil
		}
	case "Integer":
		return parseInteger(path, body)
	}

	if !dataConstructors[tag] {
		return nil, malformed(path, "unknown type constructor")
	}
	obj, err := decodeObject(path, body)
	if err != nil {
		return nil, err
	}

	switch tag {
	case "Enum":
		return parseEnum(obj)
	case "Struct":
		return parseStruct(obj)
	case "Tuple":
		fields, err := parseTupleFields(obj)
		if err != nil {
			return nil, err
		}
		return &Tuple{Fields: fields}, nil
	case "Option":
		l, err := obj.link("value")
		if err != nil {
			return nil, err
		}
		return &Option{Value: l}, nil
	case "ByteArray":
		n, err := obj.length("len")
		if err != nil {
			return nil, err
		}
		d, err := obj.byteDisplay("display")
		if err != nil {
			return nil, err
		}
		return &ByteArray{Len: n, Display: d}, nil
	case "ByteVec":
		d, err := obj.byteDisplay("display")
		if err != nil {
			return nil, err
		}
		return &ByteVec{Display: d}, nil
	case "Array":
		n, err := obj.length("len")
		if err != nil {
			return nil, err
		}
		l, err := obj.link("value")
		if err != nil {
			return nil, err
		}
		return &Array{Len: n, Value: l}, nil
	case "Vec":
		l, err := obj.link("value")
		if err != nil {
			return nil, err
		}
		return &Vec{Value: l}, nil
	case "Map":
		k, err := obj.link("key")
		if err != nil {
			return nil, err
		}
		v, err := obj.link("value")
		if err != nil {
			return nil, err
		}
		return &Map{Key: k, Value: v}, nil
	case "Skip":
		n, err := obj.length("len")
		if err != nil {
			return nil, err
		}
		return &Skip{Len: n}, nil
	default:
		return nil, malformed(path, "unknown type constructor")
	}
}

func parseEnum(obj object) (*Enum, error) {
	e := &Enum{}
	if err := obj.requireInto("type_name", &e.TypeName); err != nil {
		return nil, err
	}
	if raw, ok := obj.optional("hide_tag"); ok {
		if err := unmarshal(obj.path+".hide_tag", raw, &e.HideTag); err != nil {
			return nil, err
		}
	}
	variants, err := obj.requireArray("variants")
	if err != nil {
		return nil, err
	}
	e.Variants = make([]EnumVariant, len(variants))
	for i, raw := range variants {
		v, err := decodeObject(obj.path+".variants["+strconv.Itoa(i)+"]", raw)
		if err != nil {
			return nil, err
		}
		if err := v.requireInto("name", &e.Variants[i].Name); err != nil {
			return nil, err
		}
		if err := v.requireInto("discriminant", &e.Variants[i].Discriminant); err != nil {
			return nil, err
		}
		if _, ok := v.optional("value"); ok {
			l, err := v.link("value")
			if err != nil {
				return nil, err
			}
			e.Variants[i].Value = &l
		}
	}
	return e, nil
}

func parseStruct(obj object) (*Struct, error) {
	s := &Struct{}
	if err := obj.requireInto("type_name", &s.TypeName); err != nil {
		return nil, err
	}
	fields, err := obj.requireArray("fields")
	if err != nil {
		return nil, err
	}
	s.Fields = make([]NamedField, len(fields))
	for i, raw := range fields {
		f, err := decodeObject(obj.path+".fields["+strconv.Itoa(i)+"]", raw)
		if err != nil {
			return nil, err
		}
		if err := f.requireInto("display_name", &s.Fields[i].DisplayName); err != nil {
			return nil, err
		}
		if s.Fields[i].Value, err = f.link("value"); err != nil {
			return nil, err
		}
		if err := f.optionalInto("silent", &s.Fields[i].Silent); err != nil {
			return nil, err
		}
		if err := f.optionalInto("doc", &s.Fields[i].Doc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func parseTupleFields(obj object) ([]UnnamedField, error) {
	fields, err := obj.requireArray("fields")
	if err != nil {
		return nil, err
	}
	out := make([]UnnamedField, len(fields))
	for i, raw := range fields {
		f, err := decodeObject(obj.path+".fields["+strconv.Itoa(i)+"]", raw)
		if err != nil {
			return nil, err
		}
		if out[i].Value, err = f.link("value"); err != nil {
			return nil, err
		}
		if err := f.optionalInto("silent", &out[i].Silent); err != nil {
			return nil, err
		}
		if err := f.optionalInto("doc", &out[i].Doc); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseInteger(path string, body json.RawMessage) (*Integer, error) {
	var parts []json.RawMessage
	if err := unmarshal(path, body, &parts); err != nil {
		return nil, err
	}
	if len(parts) != 2 {
		return nil, malformed(path, "expected [integer type, display]")
	}
	var name string
	if err := unmarshal(path+"[0]", parts[0], &name); err != nil {
		return nil, err
	}
	it, err := ParseIntegerType(name)
	if err != nil {
		return nil, malformed(path+"[0]", err.Error())
	}
	d, err := parseIntegerDisplay(path+"[1]", parts[1])
	if err != nil {
		return nil, err
	}
	return &Integer{Type: it, Display: d}, nil
}

func parseIntegerDisplay(path string, raw json.RawMessage) (IntegerDisplay, error) {
	tag, body, err := decodeTagged(path, raw)
	if err != nil {
		return IntegerDisplay{}, err
	}
	switch tag {
	case "Decimal":
		return IntegerDisplay{Kind: IntegerDecimal}, nil
	case "Hex":
		return IntegerDisplay{Kind: IntegerHex}, nil
	case "FixedPoint":
		d := IntegerDisplay{Kind: IntegerFixedPoint}
		// Decimals may also come from a sibling field at display time; only
		// the static form carries a number here.
		if obj, err := decodeObject(path+".FixedPoint", body); err == nil {
			if err := obj.optionalInto("Decimals", &d.Decimals); err != nil {
				return d, err
			}
		}
		return d, nil
	default:
		return IntegerDisplay{}, malformed(path, "unknown integer display "+strconv.Quote(tag))
	}
}

func parseByteDisplay(path string, raw json.RawMessage) (ByteDisplay, error) {
	tag, body, err := decodeTagged(path, raw)
	if err != nil {
		return ByteDisplay{}, err
	}
	switch tag {
	case "Hex":
		return Hex(), nil
	case "Decimal":
		return Decimal(), nil
	case "Bech32", "Bech32m":
		obj, err := decodeObject(path+"."+tag, body)
		if err != nil {
			return ByteDisplay{}, err
		}
		var prefix string
		if err := obj.requireInto("prefix", &prefix); err != nil {
			return ByteDisplay{}, err
		}
		if tag == "Bech32" {
			return Bech32(prefix), nil
		}
		return Bech32m(prefix), nil
	default:
		return ByteDisplay{}, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Detail("%s: byte display %q is not supported", path, tag).
			Build()
	}
}

func parseLink(path string, raw json.RawMessage) (Link, error) {
	tag, body, err := decodeTagged(path, raw)
	if err != nil {
		return Link{}, err
	}
	switch tag {
	case "ByIndex":
		var i int
		if err := unmarshal(path+".ByIndex", body, &i); err != nil {
			return Link{}, err
		}
		return ByIndex(i), nil
	case "Immediate":
		t, err := parseTy(path+".Immediate", body)
		if err != nil {
			return Link{}, err
		}
		if !t.Kind().IsPrimitive() {
			return Link{}, malformed(path, "immediate link must carry a primitive, got "+t.Kind().String())
		}
		return Immediate(t), nil
	case "Placeholder":
		return Placeholder(), nil
	case "IndexedPlaceholder":
		var i int
		if err := unmarshal(path+".IndexedPlaceholder", body, &i); err != nil {
			return Link{}, err
		}
		return IndexedPlaceholder(i), nil
	default:
		return Link{}, malformed(path, "unknown link kind "+strconv.Quote(tag))
	}
}

// object is a decoded JSON object that remembers where it came from, so
// errors can point at the offending descriptor position.
type object struct {
	fields map[string]json.RawMessage
	path   string
}

func decodeObject(path string, raw json.RawMessage) (object, error) {
	var fields map[string]json.RawMessage
	if err := unmarshal(path, raw, &fields); err != nil {
		return object{}, err
	}
	if fields == nil {
		return object{}, malformed(path, "expected an object")
	}
	return object{fields: fields, path: path}, nil
}

func (o object) require(key string) (json.RawMessage, error) {
	raw, ok := o.fields[key]
	if !ok {
		return nil, errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
			Detail("%s: missing required field %q", o.path, key).
			Build()
	}
	return raw, nil
}

func (o object) requireInto(key string, v any) error {
	raw, err := o.require(key)
	if err != nil {
		return err
	}
	return unmarshal(o.path+"."+key, raw, v)
}

func (o object) requireArray(key string) ([]json.RawMessage, error) {
	raw, err := o.require(key)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := unmarshal(o.path+"."+key, raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// optional returns the field if it is present and not null.
func (o object) optional(key string) (json.RawMessage, bool) {
	raw, ok := o.fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, false
	}
	return raw, true
}

func (o object) optionalInto(key string, v any) error {
	raw, ok := o.optional(key)
	if !ok {
		return nil
	}
	return unmarshal(o.path+"."+key, raw, v)
}

func (o object) link(key string) (Link, error) {
	raw, err := o.require(key)
	if err != nil {
		return Link{}, err
	}
	return parseLink(o.path+"."+key, raw)
}

func (o object) length(key string) (int, error) {
	var n int
	if err := o.requireInto(key, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, malformed(o.path+"."+key, "length must not be negative")
	}
	return n, nil
}

func (o object) byteDisplay(key string) (ByteDisplay, error) {
	raw, err := o.require(key)
	if err != nil {
		return ByteDisplay{}, err
	}
	return parseByteDisplay(o.path+"."+key, raw)
}

// decodeTagged splits an externally tagged enum value into its tag and body.
// Unit variants have a nil body.
func decodeTagged(path string, raw json.RawMessage) (string, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var tag string
		if err := unmarshal(path, trimmed, &tag); err != nil {
			return "", nil, err
		}
		return tag, nil, nil
	}
	obj, err := decodeObject(path, trimmed)
	if err != nil {
		return "", nil, err
	}
	if len(obj.fields) != 1 {
		return "", nil, malformed(path, fmt.Sprintf("expected a single-key tagged value, got %d keys", len(obj.fields)))
	}
	for tag, body := range obj.fields {
		return tag, body, nil
	}
	return "", nil, nil
}

func unmarshal(path string, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.MalformedDocument(errors.PhaseSchema, path+": invalid value", err)
	}
	return nil
}

func malformed(path, detail string) error {
	return errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
		Detail("%s: %s", path, detail).
		Build()
}
