package schema

import (
	"testing"

	"github.com/wippyai/rollup-codec/errors"
)

func u8() Link {
	return Immediate(&Integer{Type: U8})
}

func TestNew_Validation(t *testing.T) {
	unit := func(name string, disc uint8) EnumVariant { return EnumVariant{Name: name, Discriminant: disc} }

	tests := []struct {
		name  string
		types []Ty
		meta  []ContainerMetadata
		roots []int
		kind  errors.Kind
	}{
		{
			name:  "nil type",
			types: []Ty{nil},
			kind:  errors.KindMalformedDocument,
		},
		{
			name:  "duplicate discriminant",
			types: []Ty{&Enum{TypeName: "E", Variants: []EnumVariant{unit("A", 1), unit("B", 1)}}},
			meta:  []ContainerMetadata{{FieldsOrVariants: []string{"a", "b"}}},
			kind:  errors.KindMalformedDocument,
		},
		{
			name:  "missing container metadata",
			types: []Ty{&Struct{TypeName: "S", Fields: []NamedField{{DisplayName: "x", Value: u8()}}}},
			kind:  errors.KindMissingMetadata,
		},
		{
			name:  "metadata count mismatch",
			types: []Ty{&Struct{TypeName: "S", Fields: []NamedField{{DisplayName: "x", Value: u8()}}}},
			meta:  []ContainerMetadata{{FieldsOrVariants: []string{"x", "y"}}},
			kind:  errors.KindMissingMetadata,
		},
		{
			name: "duplicate metadata name",
			types: []Ty{&Struct{TypeName: "S", Fields: []NamedField{
				{DisplayName: "x", Value: u8()},
				{DisplayName: "y", Value: u8()},
			}}},
			meta: []ContainerMetadata{{FieldsOrVariants: []string{"x", "x"}}},
			kind: errors.KindMalformedDocument,
		},
		{
			name:  "link out of range",
			types: []Ty{&Vec{Value: ByIndex(1)}},
			kind:  errors.KindUnresolvedType,
		},
		{
			name:  "negative link",
			types: []Ty{&Option{Value: ByIndex(-1)}},
			kind:  errors.KindUnresolvedType,
		},
		{
			name:  "container immediate",
			types: []Ty{&Vec{Value: Immediate(&Vec{Value: ByIndex(0)})}},
			kind:  errors.KindMalformedDocument,
		},
		{
			name:  "negative array length",
			types: []Ty{&Array{Len: -2, Value: u8()}},
			kind:  errors.KindMalformedDocument,
		},
		{
			name:  "bech32m without prefix",
			types: []Ty{&ByteArray{Len: 4, Display: Bech32m("")}},
			kind:  errors.KindMalformedDocument,
		},
		{
			name:  "immediate bech32 without prefix",
			types: []Ty{&Vec{Value: Immediate(&ByteVec{Display: Bech32("")})}},
			kind:  errors.KindMalformedDocument,
		},
		{
			name:  "role out of range",
			types: []Ty{&Boolean{}},
			roots: []int{1},
			kind:  errors.KindUnresolvedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.types, tt.roots, tt.meta)
			wantKind(t, err, tt.kind)
		})
	}
}

func TestNew_Lookup(t *testing.T) {
	s, err := New([]Ty{
		&Struct{TypeName: "Point", Fields: []NamedField{
			{DisplayName: "x", Value: u8()},
			{DisplayName: "y", Value: u8()},
		}},
		&Boolean{},
	}, []int{-1, -1, 0}, []ContainerMetadata{
		{Name: "PointMeta", FieldsOrVariants: []string{"X", "Y"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.Names(0)
	if err != nil || len(got) != 2 || got[1] != "Y" {
		t.Errorf("Names(0) = %v, %v", got, err)
	}
	if pos, ok := s.Position(0, "Y"); !ok || pos != 1 {
		t.Errorf("Position(Y) = %d, %v", pos, ok)
	}
	if _, ok := s.Position(0, "y"); ok {
		t.Error("display name resolved as external name")
	}
	if _, ok := s.Position(1, "x"); ok {
		t.Error("non-container resolved a name")
	}

	_, err = s.Names(1)
	wantKind(t, err, errors.KindMissingMetadata)

	if s.ContainerName(0) != "PointMeta" {
		t.Errorf("ContainerName(0) = %q", s.ContainerName(0))
	}
	if s.ContainerName(1) != "bool" {
		t.Errorf("ContainerName(1) = %q", s.ContainerName(1))
	}

	if _, err := s.RoleIndex(RoleAddress); err == nil {
		t.Error("role beyond table resolved")
	}
	if _, err := s.Type(2); err == nil {
		t.Error("Type(2) resolved")
	}
}

func TestResolve(t *testing.T) {
	s, err := New([]Ty{&String{}}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ty, idx, err := s.Resolve(ByIndex(0))
	if err != nil || idx != 0 || ty.Kind() != KindString {
		t.Errorf("Resolve(ByIndex) = %v, %d, %v", ty, idx, err)
	}

	imm := &Float64{}
	ty, idx, err = s.Resolve(Immediate(imm))
	if err != nil || idx != -1 || ty != Ty(imm) {
		t.Errorf("Resolve(Immediate) = %v, %d, %v", ty, idx, err)
	}

	for _, l := range []Link{Placeholder(), IndexedPlaceholder(2), {Kind: LinkKind(9)}} {
		_, _, err := s.Resolve(l)
		e := wantKind(t, err, errors.KindUnresolvedType)
		if !errors.IsSchemaIntegrity(e.Kind) {
			t.Errorf("%v: not a schema-integrity error", l)
		}
	}
}

func TestRole(t *testing.T) {
	for _, r := range []Role{RoleTransaction, RoleUnsignedTransaction, RoleRuntimeCall, RoleAddress} {
		got, err := ParseRole(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRole(%q) = %v, %v", r.String(), got, err)
		}
	}
	if _, err := ParseRole("block"); err == nil {
		t.Error("ParseRole accepted an unknown role")
	}
	if got := Role(9).String(); got != "role(9)" {
		t.Errorf("Role(9).String() = %q", got)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		ty        Ty
		want      string
		primitive bool
		container bool
	}{
		{&Enum{}, "enum", false, true},
		{&Struct{}, "struct", false, true},
		{&Tuple{}, "tuple", false, false},
		{&Option{}, "option", false, false},
		{&Integer{}, "integer", true, false},
		{&ByteArray{}, "byte_array", true, false},
		{&ByteVec{}, "byte_vec", true, false},
		{&Array{}, "array", false, false},
		{&Vec{}, "vec", false, false},
		{&Map{}, "map", false, false},
		{&Skip{}, "skip", true, false},
		{&Float32{}, "f32", true, false},
		{&Float64{}, "f64", true, false},
		{&String{}, "string", true, false},
		{&Boolean{}, "bool", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			k := tt.ty.Kind()
			if k.String() != tt.want {
				t.Errorf("String() = %q, want %q", k.String(), tt.want)
			}
			if k.IsPrimitive() != tt.primitive {
				t.Errorf("IsPrimitive() = %v", k.IsPrimitive())
			}
			if k.IsContainer() != tt.container {
				t.Errorf("IsContainer() = %v", k.IsContainer())
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		ty   Ty
		want string
	}{
		{&Struct{TypeName: "Coins"}, "Coins"},
		{&Integer{Type: I128}, "i128"},
		{&ByteArray{Len: 32}, "[u8; 32]"},
		{&ByteVec{}, "Vec<u8>"},
		{&Array{Len: 2}, "array[2]"},
		{&Map{}, "map"},
		{nil, "<nil>"},
	}
	for _, tt := range tests {
		if got := Describe(tt.ty); got != tt.want {
			t.Errorf("Describe(%T) = %q, want %q", tt.ty, got, tt.want)
		}
	}
}

func TestIntegerType(t *testing.T) {
	tests := []struct {
		it     IntegerType
		name   string
		bits   int
		signed bool
	}{
		{I8, "i8", 8, true},
		{U16, "u16", 16, false},
		{I32, "i32", 32, true},
		{U64, "u64", 64, false},
		{I128, "i128", 128, true},
		{U128, "u128", 128, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.it.String() != tt.name || tt.it.Bits() != tt.bits || tt.it.Signed() != tt.signed {
				t.Errorf("%v: bits=%d signed=%v", tt.it, tt.it.Bits(), tt.it.Signed())
			}
			parsed, err := ParseIntegerType(tt.name)
			if err != nil || parsed != tt.it {
				t.Errorf("ParseIntegerType(%q) = %v, %v", tt.name, parsed, err)
			}
		})
	}
}
