// Package document reads value documents in JSON, JSONC, YAML and CBOR and
// normalises them to the loose value model the encoder accepts:
//
//	null                 nil
//	boolean              bool
//	string               string
//	integer              json.Number (exact decimal text, any width)
//	float                json.Number (JSON) or float64 (YAML, CBOR)
//	byte string (CBOR)   []byte
//	sequence             []any
//	mapping              map[string]any
//
// Integers never pass through float64, so 128-bit amounts survive every
// format unchanged. Mapping keys are always strings; non-string scalar keys
// (YAML integers, CBOR integer keys) take their textual form, which is what
// the encoder expects for integer-keyed maps.
//
// Parse errors are *errors.Error values with phase "document" and kind
// malformed_document.
package document
