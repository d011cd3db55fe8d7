package schema

import (
	"fmt"
	"strconv"

	"github.com/wippyai/rollup-codec/errors"
	"go.uber.org/zap"
)

// Role is a well-known semantic entry point of a rollup schema.
type Role int

const (
	RoleTransaction Role = iota
	RoleUnsignedTransaction
	RoleRuntimeCall
	RoleAddress
)

var roleNames = [...]string{
	RoleTransaction:         "transaction",
	RoleUnsignedTransaction: "unsigned-transaction",
	RoleRuntimeCall:         "runtime-call",
	RoleAddress:             "address",
}

func (r Role) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// ParseRole parses a role name as printed by Role.String.
func ParseRole(s string) (Role, error) {
	for i, name := range roleNames {
		if name == s {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// ContainerMetadata carries the external names of a container's fields or
// variants, in schema order.
type ContainerMetadata struct {
	Name             string
	FieldsOrVariants []string
}

// Schema is an immutable, validated type catalog.
type Schema struct {
	types []Ty
	roots []int
	meta  []ContainerMetadata
	// lookup[i] maps an external name to its position in container i.
	lookup []map[string]int
}

// New validates the given definitions and builds the lookup tables. roots is
// indexed by Role; a negative entry means the role is absent. metadata is
// aligned with types; entries for non-container types are ignored.
func New(types []Ty, roots []int, metadata []ContainerMetadata) (*Schema, error) {
	s := &Schema{
		types:  types,
		roots:  roots,
		meta:   metadata,
		lookup: make([]map[string]int, len(types)),
	}

	for i, t := range types {
		if t == nil {
			return nil, errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
				Detail("type #%d is nil", i).
				Build()
		}
		if err := s.checkType(i, t); err != nil {
			return nil, err
		}
		if t.Kind().IsContainer() {
			if err := s.indexContainer(i, t); err != nil {
				return nil, err
			}
		}
	}

	for r, idx := range roots {
		if idx >= len(types) {
			return nil, errors.UnresolvedType(nil,
				fmt.Sprintf("role %s points at type #%d, schema has %d types", Role(r), idx, len(types)))
		}
	}

	Logger().Debug("schema loaded",
		zap.Int("types", len(types)),
		zap.Int("roles", len(roots)))
	return s, nil
}

func (s *Schema) checkType(i int, t Ty) error {
	where := "type #" + strconv.Itoa(i)
	switch v := t.(type) {
	case *Enum:
		seen := make(map[uint8]string, len(v.Variants))
		for _, variant := range v.Variants {
			if prev, dup := seen[variant.Discriminant]; dup {
				return errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
					TypeName(v.TypeName).
					Detail("variants %q and %q share discriminant %d", prev, variant.Name, variant.Discriminant).
					Build()
			}
			seen[variant.Discriminant] = variant.Name
			if variant.Value != nil {
				if err := s.checkLink(where+"."+variant.Name, *variant.Value); err != nil {
					return err
				}
			}
		}
	case *Struct:
		for _, f := range v.Fields {
			if err := s.checkLink(where+"."+f.DisplayName, f.Value); err != nil {
				return err
			}
		}
	case *Tuple:
		for j, f := range v.Fields {
			if err := s.checkLink(where+"."+strconv.Itoa(j), f.Value); err != nil {
				return err
			}
		}
	case *Option:
		return s.checkLink(where, v.Value)
	case *Array:
		if v.Len < 0 {
			return errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
				Detail("%s: negative array length %d", where, v.Len).
				Build()
		}
		return s.checkLink(where, v.Value)
	case *Vec:
		return s.checkLink(where, v.Value)
	case *Map:
		if err := s.checkLink(where+".key", v.Key); err != nil {
			return err
		}
		return s.checkLink(where+".value", v.Value)
	case *ByteArray:
		if v.Len < 0 {
			return errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
				Detail("%s: negative byte array length %d", where, v.Len).
				Build()
		}
		return checkDisplay(where, v.Display)
	case *ByteVec:
		return checkDisplay(where, v.Display)
	}
	return nil
}

func (s *Schema) checkLink(where string, l Link) error {
	switch l.Kind {
	case LinkByIndex:
		if l.Index < 0 || l.Index >= len(s.types) {
			return errors.UnresolvedType(nil,
				fmt.Sprintf("%s links to type #%d, schema has %d types", where, l.Index, len(s.types)))
		}
	case LinkImmediate:
		if l.Immediate == nil || !l.Immediate.Kind().IsPrimitive() {
			return errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
				Detail("%s: immediate link must carry a primitive", where).
				Build()
		}
		return s.checkType(-1, l.Immediate)
	}
	// Placeholders are allowed to exist; reaching one while encoding is fatal.
	return nil
}

func checkDisplay(where string, d ByteDisplay) error {
	if (d.Kind == DisplayBech32 || d.Kind == DisplayBech32m) && d.Prefix == "" {
		return errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
			Detail("%s: %s display requires a prefix", where, d.Kind).
			Build()
	}
	return nil
}

func (s *Schema) indexContainer(i int, t Ty) error {
	var want int
	var typeName string
	switch v := t.(type) {
	case *Struct:
		want, typeName = len(v.Fields), v.TypeName
	case *Enum:
		want, typeName = len(v.Variants), v.TypeName
	}

	if i >= len(s.meta) {
		return errors.New(errors.PhaseSchema, errors.KindMissingMetadata).
			TypeName(typeName).
			Detail("no container metadata for type #%d", i).
			Build()
	}
	names := s.meta[i].FieldsOrVariants
	if len(names) != want {
		return errors.New(errors.PhaseSchema, errors.KindMissingMetadata).
			TypeName(typeName).
			Detail("container metadata for type #%d has %d names, type has %d", i, len(names), want).
			Build()
	}

	idx := make(map[string]int, len(names))
	for j, name := range names {
		if _, dup := idx[name]; dup {
			return errors.New(errors.PhaseSchema, errors.KindMalformedDocument).
				TypeName(typeName).
				Detail("duplicate name %q in container metadata for type #%d", name, i).
				Build()
		}
		idx[name] = j
	}
	s.lookup[i] = idx
	return nil
}

// Len returns the number of types in the schema.
func (s *Schema) Len() int {
	return len(s.types)
}

// Type returns the type at index i.
func (s *Schema) Type(i int) (Ty, error) {
	if i < 0 || i >= len(s.types) {
		return nil, errors.UnresolvedType(nil,
			fmt.Sprintf("type index %d out of range (schema has %d types)", i, len(s.types)))
	}
	return s.types[i], nil
}

// Resolve follows a link. For a ByIndex link the returned index is the
// target's position; for an immediate link it is -1.
func (s *Schema) Resolve(l Link) (Ty, int, error) {
	switch l.Kind {
	case LinkByIndex:
		t, err := s.Type(l.Index)
		return t, l.Index, err
	case LinkImmediate:
		if l.Immediate == nil {
			return nil, -1, errors.UnresolvedType(nil, "immediate link without a type")
		}
		return l.Immediate, -1, nil
	case LinkPlaceholder, LinkIndexedPlaceholder:
		return nil, -1, errors.UnresolvedType(nil, "encountered "+l.String()+" in a finalized schema")
	default:
		return nil, -1, errors.UnresolvedType(nil, "invalid link kind "+strconv.Itoa(int(l.Kind)))
	}
}

// Names returns the external field or variant names of container i, in
// schema order. The returned slice must not be modified.
func (s *Schema) Names(i int) ([]string, error) {
	if i < 0 || i >= len(s.lookup) || s.lookup[i] == nil {
		return nil, errors.New(errors.PhaseSchema, errors.KindMissingMetadata).
			Detail("no container metadata for type #%d", i).
			Build()
	}
	return s.meta[i].FieldsOrVariants, nil
}

// Position returns the schema-order position of the field or variant named
// name in container i.
func (s *Schema) Position(i int, name string) (int, bool) {
	if i < 0 || i >= len(s.lookup) || s.lookup[i] == nil {
		return 0, false
	}
	pos, ok := s.lookup[i][name]
	return pos, ok
}

// ContainerName returns the metadata name of container i, falling back to
// the type's own name.
func (s *Schema) ContainerName(i int) string {
	if i >= 0 && i < len(s.meta) && s.meta[i].Name != "" {
		return s.meta[i].Name
	}
	if i >= 0 && i < len(s.types) {
		return Describe(s.types[i])
	}
	return ""
}

// RoleIndex resolves a role to its type index.
func (s *Schema) RoleIndex(r Role) (int, error) {
	if r < 0 || int(r) >= len(s.roots) || s.roots[r] < 0 {
		return 0, errors.UnresolvedType(nil, "schema does not define role "+r.String())
	}
	return s.roots[r], nil
}
