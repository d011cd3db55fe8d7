// Package transcoder converts loosely-typed values into their canonical
// binary encoding, guided by a schema.
//
// Values are what a document parser produces: nil, bool, string, numbers
// (float64, json.Number, Go integer kinds, *big.Int), []any and
// map[string]any. The encoder walks the schema type graph together with the
// value and writes each position in schema order:
//
//	┌────────────────────────────────────────────────────────────┐
//	│ value + schema.Ty ──[Encoder]──→ little-endian byte string │
//	└────────────────────────────────────────────────────────────┘
//
// # Wire Format
//
//	Type            Encoding
//	───────────────────────────────────────────────────────────────
//	Integer         fixed width, little-endian, two's complement
//	Float32/64      IEEE 754 bits, little-endian
//	Boolean         1 byte (0 or 1)
//	String          u32 byte count + UTF-8
//	ByteArray(n)    n raw bytes
//	ByteVec         u32 byte count + bytes
//	Array(n)        n elements
//	Vec             u32 count + elements
//	Map             u32 count + (key, value) pairs, keys ascending
//	Option          0, or 1 + value
//	Enum            1-byte discriminant + payload
//	Struct          fields in schema order
//	Tuple           fields in order; a one-field tuple is its field
//	Skip            nothing
//
// # Input Forms
//
// Enums take a bare variant name for payload-less variants or a single-key
// object {"Variant": payload}. Structs take an object keyed by the
// container metadata names; the input's key order is irrelevant. Integers
// take numbers or numeric strings; 64- and 128-bit values should be given
// as strings or json.Number to stay exact. Byte positions take a list of
// byte values or a string in the position's display encoding (hex,
// bech32, bech32m, decimal).
//
// # Thread Safety
//
// Encoder holds only the read-only schema and may be shared across
// goroutines. Each Encode call owns its writer and visitor state.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	[encode] missing_field at bank.create_token: type CreateToken - missing field "admins" of CreateToken
//	[encode] integer_out_of_range at generation: value 18446744073709551616 is not a valid u64
//	[schema] unresolved_type at a.b: encountered placeholder in a finalized schema
package transcoder
