// Package schema defines the read-only type catalog that drives encoding.
//
// A Schema is an ordered list of type definitions (Ty), a table mapping
// well-known roles (transaction, unsigned transaction, runtime call, address)
// to type indices, and per-container name metadata giving the external name
// of every struct field and enum variant in wire order.
//
// # Type Model
//
// Ty is a closed sum type. Every variant is a pointer type in this package:
//
//	*Enum *Struct *Tuple *Option           containers
//	*Integer *ByteArray *ByteVec           sized scalars
//	*Array *Vec *Map                       sequences
//	*Skip                                  no wire representation
//	*Float32 *Float64 *String *Boolean     plain scalars
//
// Types refer to each other through a Link: either an index into the type
// list, an inline (immediate) primitive, or a placeholder. Placeholders are
// legal in a loaded descriptor but must never be reached while encoding.
//
// # Loading
//
// Schemas are usually loaded from a descriptor document:
//
//	s, err := schema.Parse(descriptorJSON)
//
// The loader accepts JSON with comments and trailing commas. Name metadata
// is turned into index-based lookup tables once, at load time, so field and
// variant resolution on the hot path is a slice index or a single map hit.
//
// # Thread Safety
//
// A Schema is immutable after construction and safe for concurrent use.
package schema
