// Package display converts byte scalars between raw bytes and their textual
// display forms: hex, decimal, bech32 and bech32m.
//
// Decode is used by the encoder when a byte-array or byte-vector value is
// given as a string; Encode is the inverse, used by tooling and the random
// value generator.
package display

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/wippyai/rollup-codec/errors"
	"github.com/wippyai/rollup-codec/schema"
)

// Decode converts s to bytes according to d.
func Decode(d schema.ByteDisplay, s string) ([]byte, error) {
	switch d.Kind {
	case schema.DisplayHex:
		return decodeHex(s)
	case schema.DisplayDecimal:
		return decodeDecimal(s)
	case schema.DisplayBech32:
		return decodeBech32(s, d.Prefix, bech32.Version0)
	case schema.DisplayBech32m:
		return decodeBech32(s, d.Prefix, bech32.VersionM)
	default:
		return nil, errors.Unsupported(errors.PhaseDisplay, "byte display "+d.Kind.String())
	}
}

// Encode renders b according to d. Hex output carries a 0x prefix.
func Encode(d schema.ByteDisplay, b []byte) (string, error) {
	switch d.Kind {
	case schema.DisplayHex:
		return "0x" + hex.EncodeToString(b), nil
	case schema.DisplayDecimal:
		return encodeDecimal(b), nil
	case schema.DisplayBech32, schema.DisplayBech32m:
		data, err := bech32.ConvertBits(b, 8, 5, true)
		if err != nil {
			return "", errors.Wrap(errors.PhaseDisplay, errors.KindInvalidEncoding, err, "regroup bytes for "+d.Kind.String())
		}
		var out string
		if d.Kind == schema.DisplayBech32 {
			out, err = bech32.Encode(d.Prefix, data)
		} else {
			out, err = bech32.EncodeM(d.Prefix, data)
		}
		if err != nil {
			return "", errors.Wrap(errors.PhaseDisplay, errors.KindInvalidEncoding, err, "encode "+d.Kind.String())
		}
		return out, nil
	default:
		return "", errors.Unsupported(errors.PhaseDisplay, "byte display "+d.Kind.String())
	}
}

func decodeHex(s string) ([]byte, error) {
	digits := strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, errors.New(errors.PhaseDisplay, errors.KindInvalidEncoding).
			Value(s).
			Cause(err).
			Detail("invalid hex string %s", errors.Describe(s)).
			Build()
	}
	return b, nil
}

func decodeBech32(s, prefix string, want bech32.Version) ([]byte, error) {
	mode := "bech32"
	if want == bech32.VersionM {
		mode = "bech32m"
	}

	hrp, data, version, err := bech32.DecodeGeneric(s)
	if err != nil {
		return nil, errors.New(errors.PhaseDisplay, errors.KindInvalidEncoding).
			Value(s).
			Cause(err).
			Detail("invalid %s string %s", mode, errors.Describe(s)).
			Build()
	}
	if version != want {
		return nil, errors.New(errors.PhaseDisplay, errors.KindInvalidEncoding).
			Value(s).
			Detail("%s is not a %s string (wrong checksum variant)", errors.Describe(s), mode).
			Build()
	}
	if hrp != prefix {
		return nil, errors.New(errors.PhaseDisplay, errors.KindPrefixMismatch).
			Value(s).
			Detail("expected %s prefix %q, found %q", mode, prefix, hrp).
			Build()
	}

	b, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, errors.New(errors.PhaseDisplay, errors.KindInvalidEncoding).
			Value(s).
			Cause(err).
			Detail("invalid %s payload padding", mode).
			Build()
	}
	return b, nil
}

// decodeDecimal accepts "[1, 2, 3]" as well as bare comma or whitespace
// separated byte values. No reference encoder implements this display, so
// the accepted grammar is provisional; encodeDecimal output always decodes.
func decodeDecimal(s string) ([]byte, error) {
	body := strings.TrimSpace(s)
	if strings.HasPrefix(body, "[") {
		if !strings.HasSuffix(body, "]") {
			return nil, errors.New(errors.PhaseDisplay, errors.KindInvalidEncoding).
				Value(s).
				Detail("unterminated decimal byte list %s", errors.Describe(s)).
				Build()
		}
		body = body[1 : len(body)-1]
	}

	fields := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return nil, errors.New(errors.PhaseDisplay, errors.KindInvalidEncoding).
				Value(s).
				Cause(err).
				Detail("invalid decimal byte %q", f).
				Build()
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func encodeDecimal(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	sb.WriteByte(']')
	return sb.String()
}
