package document

import (
	"encoding/json"
	"math/big"
	"strconv"

	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/rollup-codec/errors"
)

// decMode keeps the generic map type so integer-keyed CBOR maps decode;
// keys are normalised to strings afterwards.
var decMode cbor.DecMode

func init() {
	var err error
	decMode, err = cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: maxNesting,
		BigIntDec:       cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic("document: CBOR decoder initialization failed: " + err.Error())
	}
}

func parseCBOR(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, errors.MalformedDocument(errors.PhaseDocument, "decode CBOR value", err)
	}
	return cborValue(v)
}

func cborValue(v any) (any, error) {
	switch value := v.(type) {
	case nil, bool, string, float64, []byte:
		return value, nil
	case float32:
		return float64(value), nil
	case uint64:
		return json.Number(strconv.FormatUint(value, 10)), nil
	case int64:
		return json.Number(strconv.FormatInt(value, 10)), nil
	case *big.Int:
		return json.Number(value.String()), nil
	case big.Int:
		return json.Number(value.String()), nil
	case []any:
		out := make([]any, len(value))
		for i, e := range value {
			n, err := cborValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(value))
		for k, e := range value {
			key, err := cborKey(k)
			if err != nil {
				return nil, err
			}
			if _, dup := out[key]; dup {
				return nil, cborError("map keys %q collide after normalisation", key)
			}
			n, err := cborValue(e)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, e := range value {
			n, err := cborValue(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case cbor.Tag:
		return nil, cborError("unsupported tag %d", value.Number)
	default:
		return nil, cborError("unsupported item %T", v)
	}
}

func cborKey(k any) (string, error) {
	switch key := k.(type) {
	case string:
		return key, nil
	case uint64:
		return strconv.FormatUint(key, 10), nil
	case int64:
		return strconv.FormatInt(key, 10), nil
	default:
		return "", cborError("unsupported map key %T", k)
	}
}

func cborError(format string, args ...any) *errors.Error {
	return errors.New(errors.PhaseDocument, errors.KindMalformedDocument).
		Detail(format, args...).
		Build()
}
