package abi

import (
	"encoding/json"
	stderrors "errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// floatPrec is enough mantissa to hold any 128-bit integer written in
// exponent form ("1e30") without rounding.
const floatPrec = 256

// maxIntExp is the largest binary exponent of any 128-bit integer
// (2^128 = 0.5 * 2^129).
const maxIntExp = 129

// CoerceToBigInt converts a loosely-typed number to an integer. Accepted
// inputs are Go integer kinds, integral float32/float64, json.Number,
// *big.Int and numeric strings (decimal, or hex with a 0x prefix). dst is
// reused when non-nil. Non-integral and non-numeric input reports false.
func CoerceToBigInt(value any, dst *big.Int) (*big.Int, bool) {
	if dst == nil {
		dst = new(big.Int)
	}
	switch v := value.(type) {
	case int:
		return dst.SetInt64(int64(v)), true
	case int8:
		return dst.SetInt64(int64(v)), true
	case int16:
		return dst.SetInt64(int64(v)), true
	case int32:
		return dst.SetInt64(int64(v)), true
	case int64:
		return dst.SetInt64(v), true
	case uint:
		return dst.SetUint64(uint64(v)), true
	case uint8:
		return dst.SetUint64(uint64(v)), true
	case uint16:
		return dst.SetUint64(uint64(v)), true
	case uint32:
		return dst.SetUint64(uint64(v)), true
	case uint64:
		return dst.SetUint64(v), true
	case float64:
		return floatToInt(v, dst)
	case float32:
		return floatToInt(float64(v), dst)
	case *big.Int:
		if v == nil {
			return nil, false
		}
		return dst.Set(v), true
	case json.Number:
		return numberToInt(string(v), dst)
	case string:
		return stringToInt(v, dst)
	}
	return nil, false
}

func floatToInt(v float64, dst *big.Int) (*big.Int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return nil, false
	}
	if v >= math.MinInt64 && v < math.MaxInt64 {
		return dst.SetInt64(int64(v)), true
	}
	new(big.Float).SetFloat64(v).Int(dst)
	return dst, true
}

// numberToInt handles JSON number text, which may carry a fraction or an
// exponent while still denoting an integer ("1.0", "2e3").
func numberToInt(s string, dst *big.Int) (*big.Int, bool) {
	if _, ok := dst.SetString(s, 10); ok {
		return dst, true
	}
	f, _, err := big.ParseFloat(s, 10, floatPrec, big.ToNearestEven)
	if err != nil || !f.IsInt() || f.MantExp(nil) > maxIntExp {
		return nil, false
	}
	f.Int(dst)
	return dst, true
}

func stringToInt(s string, dst *big.Int) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}
	neg := false
	body := s
	if body[0] == '-' || body[0] == '+' {
		neg = body[0] == '-'
		body = body[1:]
	}
	if rest, ok := strings.CutPrefix(body, "0x"); ok {
		if rest == "" {
			return nil, false
		}
		if _, ok := dst.SetString(rest, 16); !ok {
			return nil, false
		}
		if neg {
			dst.Neg(dst)
		}
		return dst, true
	}
	if _, ok := dst.SetString(s, 10); !ok {
		return nil, false
	}
	return dst, true
}

// CoerceToByte converts a loosely-typed number to a byte, rejecting values
// outside 0-255.
func CoerceToByte(value any) (byte, bool) {
	var scratch big.Int
	v, ok := CoerceToBigInt(value, &scratch)
	if !ok || !v.IsUint64() || v.Uint64() > math.MaxUint8 {
		return 0, false
	}
	return byte(v.Uint64()), true
}

// IsNumber reports whether value is numeric input. Unlike CoerceToFloat64
// it accepts number text whose magnitude overflows float64.
func IsNumber(value any) bool {
	switch v := value.(type) {
	case json.Number:
		return isNumberText(string(v))
	case string:
		var scratch big.Int
		if _, ok := stringToInt(v, &scratch); ok {
			return true
		}
		return isNumberText(v)
	default:
		_, ok := CoerceToFloat64(value)
		return ok
	}
}

func isNumberText(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || stderrors.Is(err, strconv.ErrRange)
}

// CoerceToFloat64 converts a number or numeric string to float64.
func CoerceToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case *big.Int:
		if v == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, true
	case json.Number:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// CoerceToBool accepts a bool or the exact strings "true" and "false".
func CoerceToBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}
