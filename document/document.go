package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/jsonc"

	"github.com/wippyai/rollup-codec/errors"
)

// Format identifies a value document encoding.
type Format uint8

const (
	FormatAuto Format = iota
	FormatJSON
	FormatJSONC
	FormatYAML
	FormatCBOR
)

var formatNames = [...]string{
	FormatAuto:  "auto",
	FormatJSON:  "json",
	FormatJSONC: "jsonc",
	FormatYAML:  "yaml",
	FormatCBOR:  "cbor",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("format(%d)", f)
}

// ParseFormat resolves a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "yml" {
		return FormatYAML, nil
	}
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return 0, errors.Unsupported(errors.PhaseDocument, "document format "+errors.Describe(s))
}

// Detect guesses the format of data. Input that is not valid UTF-8 is
// CBOR; input whose first significant byte opens a JSON value is JSONC
// (a superset of JSON); anything else is YAML.
func Detect(data []byte) Format {
	if !utf8.Valid(data) {
		return FormatCBOR
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return FormatJSON
	}
	switch trimmed[0] {
	case '{', '[', '"':
		return FormatJSONC
	case '/':
		if len(trimmed) > 1 && (trimmed[1] == '/' || trimmed[1] == '*') {
			return FormatJSONC
		}
	}
	return FormatYAML
}

// Parse decodes data in format f. FormatAuto runs Detect first.
func Parse(data []byte, f Format) (any, error) {
	if f == FormatAuto {
		f = Detect(data)
	}
	switch f {
	case FormatJSON:
		return parseJSON(data)
	case FormatJSONC:
		return parseJSON(jsonc.ToJSON(data))
	case FormatYAML:
		return parseYAML(data)
	case FormatCBOR:
		return parseCBOR(data)
	default:
		return nil, errors.Unsupported(errors.PhaseDocument, "document format "+f.String())
	}
}

// Read decodes a whole reader.
func Read(r io.Reader, f Format) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.MalformedDocument(errors.PhaseDocument, "read value document", err)
	}
	return Parse(data, f)
}

// ReadFile decodes the file at path. With FormatAuto the extension is
// consulted before content sniffing.
func ReadFile(path string, f Format) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.MalformedDocument(errors.PhaseDocument, "read value document "+path, err)
	}
	if f == FormatAuto {
		f = formatFromExt(path)
	}
	return Parse(data, f)
}

func formatFromExt(path string) Format {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return FormatAuto
	}
	f, err := ParseFormat(path[dot+1:])
	if err != nil {
		return FormatAuto
	}
	return f
}

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.MalformedDocument(errors.PhaseDocument, "decode JSON value", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.MalformedDocument(errors.PhaseDocument, "trailing data after JSON value", nil)
	}
	return v, nil
}
