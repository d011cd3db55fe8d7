// Package rollupcodec encodes loosely-typed values into the canonical binary
// form a rollup signs and hashes, guided entirely by an external schema.
//
// Two implementations that agree on a schema must produce byte-identical
// output for the same (schema, type, value) triple: the bytes are the exact
// preimage used for signatures, so a single differing byte is a failure.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	rollupcodec/         Root package: Codec facade, role entry points, batches
//	├── schema/          Schema model, descriptor loader, roles
//	├── transcoder/      Type-directed encoder and binary writer
//	├── display/         Hex, bech32, bech32m and decimal byte strings
//	├── document/        JSON, JSONC, YAML and CBOR value documents
//	├── digest/          Preimage digests (blake3, sha256, keccak256)
//	├── differential/    Comparison against a reference encoder
//	├── errors/          Structured error types
//	└── cmd/encode/      Command-line encoder
//
// # Quick Start
//
// Load a schema and encode a runtime call:
//
//	codec, err := rollupcodec.Load("schema.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	value, err := document.Parse(input, document.FormatAuto)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	preimage, err := codec.EncodeRuntimeCall(value)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Roles
//
// A schema names the types of its well-known entry points through its role
// table: transaction, unsigned-transaction, runtime-call and address. Any
// other type is reachable by index through Codec.Encode.
//
// # Errors
//
// Failures are *errors.Error values carrying a phase and a kind from a
// closed set (invalid_type, missing_field, unused_input, wrong_length,
// integer_out_of_range, unresolved_type, ...). The kind is a compatibility
// surface shared with other implementations and is never rewritten on the
// way up. No partial output is ever returned.
//
// # Concurrency
//
// A Codec holds only read-only state. Each call allocates its own writer
// and visitor state, so one Codec may serve any number of goroutines;
// EncodeBatch does exactly that with a bounded worker count.
package rollupcodec
