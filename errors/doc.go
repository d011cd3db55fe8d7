// Package errors provides structured error types for the rollup codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Kind set is closed: it is the compatibility surface that differential tests
// compare against other implementations, so callers must surface it verbatim.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindInvalidType).
//		Path("bank", "create_token", "token_name").
//		TypeName("CreateToken").
//		Value(42).
//		Detail("expected a string").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidType(errors.PhaseEncode, path, "string", value)
//	err := errors.MissingField(path, "CreateToken", "token_name")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
