package transcoder

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/wippyai/rollup-codec/display"
	"github.com/wippyai/rollup-codec/errors"
	"github.com/wippyai/rollup-codec/schema"
)

const demoAddress = "sov1lzkjgdaz08su3yevqu6ceywufl35se9f33kztu5cu2spja5hyyf"

type vector struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Value any    `json:"value"`
	Hex   string `json:"hex"`
}

func loadDemo(t testing.TB) *schema.Schema {
	t.Helper()
	s, err := schema.LoadFile("../testdata/demo_schema.json")
	if err != nil {
		t.Fatalf("load demo schema: %v", err)
	}
	return s
}

func loadVectors(t testing.TB) []vector {
	t.Helper()
	data, err := os.ReadFile("../testdata/vectors.json")
	if err != nil {
		t.Fatal(err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var vs []vector
	if err := dec.Decode(&vs); err != nil {
		t.Fatalf("decode vectors: %v", err)
	}
	return vs
}

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		t.Fatalf("decode %s: %v", s, err)
	}
	return v
}

func roleIndex(t *testing.T, s *schema.Schema, name string) int {
	t.Helper()
	r, err := schema.ParseRole(name)
	if err != nil {
		t.Fatal(err)
	}
	idx, err := s.RoleIndex(r)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}

func TestEncode_Vectors(t *testing.T) {
	s := loadDemo(t)
	enc := NewEncoder(s, Options{})

	for _, v := range loadVectors(t) {
		t.Run(v.Name, func(t *testing.T) {
			out, err := enc.Encode(roleIndex(t, s, v.Role), v.Value)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if got := hex.EncodeToString(out); got != v.Hex {
				t.Errorf("Encode =\n  %s\nwant\n  %s", got, v.Hex)
			}
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	s := loadDemo(t)
	enc := NewEncoder(s, Options{})

	for _, v := range loadVectors(t) {
		idx := roleIndex(t, s, v.Role)
		first, err := enc.Encode(idx, v.Value)
		if err != nil {
			t.Fatalf("%s: %v", v.Name, err)
		}
		for i := 0; i < 5; i++ {
			again, err := enc.Encode(idx, v.Value)
			if err != nil {
				t.Fatalf("%s: %v", v.Name, err)
			}
			if !bytes.Equal(first, again) {
				t.Fatalf("%s: output changed between calls", v.Name)
			}
		}
	}
}

func TestEncode_DemoFieldOrderIndependence(t *testing.T) {
	s := loadDemo(t)
	idx := roleIndex(t, s, "runtime-call")

	a := decodeJSON(t, `{"bank":{"transfer":{"to":{"Standard":"`+demoAddress+`"},"coins":{"amount":"5","token_id":[`+
		strings.Repeat("0,", 31)+`1]}}}}`)
	b := decodeJSON(t, `{"bank":{"transfer":{"coins":{"token_id":[`+
		strings.Repeat("0,", 31)+`1],"amount":5},"to":{"Standard":"`+demoAddress+`"}}}}`)

	if encodeHex(t, s, idx, a) != encodeHex(t, s, idx, b) {
		t.Error("reordered input changed output")
	}
}

func TestEncode_DemoErrors(t *testing.T) {
	s := loadDemo(t)
	enc := NewEncoder(s, Options{})
	call := roleIndex(t, s, "runtime-call")

	cosmos, err := display.Encode(schema.Bech32m("cosmos"), make([]byte, 28))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		value    string
		kind     errors.Kind
		path     string
		typeName string
	}{
		{
			name:     "missing admins",
			value:    `{"bank":{"create_token":{"token_name":"t","token_decimals":null,"initial_balance":1,"mint_to_address":{"Standard":"` + demoAddress + `"},"supply_cap":null}}}`,
			kind:     errors.KindMissingField,
			path:     "bank.create_token",
			typeName: "CreateToken",
		},
		{
			name:     "hex string for bech32m field",
			value:    `{"bank":{"freeze":{"token_id":"0x` + strings.Repeat("00", 32) + `","memo":"x"}}}`,
			kind:     errors.KindInvalidEncoding,
			path:     "bank.freeze.token_id",
		},
		{
			name:     "unused key",
			value:    `{"bank":{"freeze":{"token_id":[` + strings.Repeat("0,", 31) + `0],"memo":"x"}}}`,
			kind:     errors.KindUnusedInput,
			path:     "bank.freeze",
			typeName: "Freeze",
		},
		{
			name:  "address prefix mismatch",
			value: `{"bank":{"transfer":{"to":{"Standard":"` + cosmos + `"},"coins":{"amount":1,"token_id":[` + strings.Repeat("0,", 31) + `0]}}}}`,
			kind:  errors.KindPrefixMismatch,
			path:  "bank.transfer.to.Standard",
		},
		{
			name:  "vm address wrong length",
			value: `{"bank":{"transfer":{"to":{"Vm":"0x1111"},"coins":{"amount":1,"token_id":[` + strings.Repeat("0,", 31) + `0]}}}}`,
			kind:  errors.KindWrongLength,
			path:  "bank.transfer.to.Vm",
		},
		{
			name:  "byte out of range",
			value: `{"accounts":{"insert_credential_id":[` + strings.Repeat("0,", 31) + `256]}}`,
			kind:  errors.KindIntegerOutOfRange,
			path:  "accounts.insert_credential_id.31",
		},
		{
			name:  "amount not integral",
			value: `{"bank":{"transfer":{"to":{"Vm":"0x` + strings.Repeat("11", 20) + `"},"coins":{"amount":1.5,"token_id":[` + strings.Repeat("0,", 31) + `0]}}}}`,
			kind:  errors.KindIntegerOutOfRange,
			path:  "bank.transfer.coins.amount",
		},
		{
			name:     "unknown module",
			value:    `{"staking":{}}`,
			kind:     errors.KindInvalidDiscriminant,
			typeName: "RuntimeCall",
		},
		{
			name:  "two modules",
			value: `{"bank":{},"accounts":{}}`,
			kind:  errors.KindMalformedEnum,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.Encode(call, decodeJSON(t, tt.value))
			e := wantKind(t, err, tt.kind)
			if got := strings.Join(e.Path, "."); got != tt.path {
				t.Errorf("path = %q, want %q", got, tt.path)
			}
			if tt.typeName != "" && e.TypeName != tt.typeName {
				t.Errorf("type = %q, want %q", e.TypeName, tt.typeName)
			}
		})
	}
}

func BenchmarkEncode_CreateToken(b *testing.B) {
	s := loadDemo(b)
	enc := NewEncoder(s, Options{})
	var value any
	var index int
	for _, v := range loadVectors(b) {
		if v.Name == "create_token" {
			value = v.Value
			r, _ := schema.ParseRole(v.Role)
			index, _ = s.RoleIndex(r)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := enc.Encode(index, value); err != nil {
			b.Fatal(err)
		}
	}
}
