// Package differential checks the encoder against an independent reference
// implementation.
//
// A Reference is anything that can encode a (type index, value) pair against
// the same schema. Compare runs both sides and reports any disagreement as a
// reference_mismatch error carrying both outputs in hex; when both sides
// reject the value the run counts as agreement, since rejection messages are
// implementation specific.
//
// Generator produces random valid values for any type index of a schema,
// biased towards integer boundaries, so that the two encoders can be fuzzed
// against each other:
//
//	gen := differential.NewGenerator(s, seed)
//	for range 1000 {
//	    v, err := gen.Value(index)
//	    ...
//	    if err := differential.Compare(ctx, ref, codec, index, v); err != nil {
//	        ...
//	    }
//	}
//
// WasmReference hosts a reference encoder compiled to WebAssembly through
// wazero. The module exports its linear memory as "memory" and two
// functions:
//
//	alloc(len i32) -> i32
//	encode(schema_ptr, schema_len, value_ptr, value_len, type_index i32) -> i64
//
// Schema and value are passed as JSON text. The i64 result packs a pointer
// (high 32 bits) and length (low 32 bits) of a result frame: a status byte
// of 0 followed by the encoded bytes, or 1 followed by a UTF-8 rejection
// message.
package differential
