package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/rollup-codec/digest"
	"github.com/wippyai/rollup-codec/errors"
)

const (
	demoSchema  = "../../testdata/demo_schema.json"
	demoAddress = "sov1lzkjgdaz08su3yevqu6ceywufl35se9f33kztu5cu2spja5hyyf"
	addressHex  = "f8ad2437a279e1c8932c07358c91dc4fe34864a98c6c25f298e2a019"
)

func TestRun(t *testing.T) {
	pubKey := "0x" + strings.Repeat("ab", 32)

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{
			name: "address role with digest",
			args: []string{"--schema", demoSchema, "--role", "address", "--value", `"` + demoAddress + `"`, "--digest", "sha256"},
			want: addressHex + "\ne6ccbba2b942b9d1ae9466bfd11067ca91387fa8e85a40abdce5a39d4a8946e8\n",
		},
		{
			name:  "type index from stdin",
			args:  []string{"-s", demoSchema, "-t", "22"},
			stdin: `"` + pubKey + `"`,
			want:  strings.Repeat("ab", 32) + "\n",
		},
		{
			name:  "yaml on stdin",
			args:  []string{"-s", demoSchema, "-r", "address", "-f", "yaml"},
			stdin: demoAddress + "\n",
			want:  addressHex + "\n",
		},
		{
			name: "runtime call default role",
			args: []string{"-s", demoSchema, "-v", `{"accounts": {"insert_credential_id": "` + pubKey + `"}}`},
			want: "0200" + strings.Repeat("ab", 32) + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.args, strings.NewReader(tt.stdin), &out); err != nil {
				t.Fatalf("run: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("got %q\nwant %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_ValueFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addr.json")
	if err := os.WriteFile(path, []byte(`"`+demoAddress+`"`), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := run([]string{"-s", demoSchema, "-r", "address", "-v", "@" + path}, nil, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != addressHex+"\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		kind errors.Kind
		msg  string
	}{
		{name: "no schema", args: []string{}, msg: "--schema is required"},
		{name: "extra argument", args: []string{"-s", demoSchema, "stray"}, msg: "unexpected argument"},
		{name: "unknown role", args: []string{"-s", demoSchema, "-r", "block", "-v", "1"}, msg: "block"},
		{name: "type out of range", args: []string{"-s", demoSchema, "-t", "99", "-v", "1"}, kind: errors.KindUnresolvedType},
		{name: "bad digest", args: []string{"-s", demoSchema, "-d", "md5", "-v", "1"}, kind: errors.KindUnsupported},
		{name: "bad document", args: []string{"-s", demoSchema, "-v", "{", "-f", "json"}, kind: errors.KindMalformedDocument},
		{name: "encode failure", args: []string{"-s", demoSchema, "-v", `{"bank": {}, "accounts": {}}`}, kind: errors.KindMalformedEnum},
		{name: "missing schema file", args: []string{"-s", "nope.json", "-v", "1"}, kind: errors.KindMalformedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, strings.NewReader(""), &bytes.Buffer{})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.kind != "" {
				if kind, _ := errors.KindOf(err); kind != tt.kind {
					t.Errorf("kind = %v, want %v (%v)", kind, tt.kind, err)
				}
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q lacks %q", err, tt.msg)
			}
		})
	}
}

func TestWriteResult_Labelled(t *testing.T) {
	var out bytes.Buffer
	if err := writeResult(&out, []byte{0xab}, digest.Blake3, true); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"bytes:  1\n", "hex:    ab\n", "blake3: "} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q lacks %q", got, want)
		}
	}
}
