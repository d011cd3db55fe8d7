package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseSchema       Phase = "schema"       // descriptor loading and schema integrity
	PhaseEncode       Phase = "encode"       // value to canonical bytes
	PhaseDisplay      Phase = "display"      // textual byte encodings
	PhaseDocument     Phase = "document"     // input document parsing
	PhaseDifferential Phase = "differential" // comparison against a reference encoder
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidType         Kind = "invalid_type"
	KindMissingValue        Kind = "missing_value"
	KindMissingField        Kind = "missing_field"
	KindUnusedInput         Kind = "unused_input"
	KindMalformedEnum       Kind = "malformed_enum"
	KindInvalidDiscriminant Kind = "invalid_discriminant"
	KindWrongLength         Kind = "wrong_length"
	KindVecLengthOverflow   Kind = "vec_length_overflow"
	KindIntegerOutOfRange   Kind = "integer_out_of_range"
	KindInvalidEncoding     Kind = "invalid_encoding"
	KindPrefixMismatch      Kind = "prefix_mismatch"
	KindInvalidUTF8         Kind = "invalid_utf8"
	KindUnresolvedType      Kind = "unresolved_type"
	KindMissingMetadata     Kind = "missing_metadata"
	KindRecursionLimit      Kind = "recursion_limit"
	KindMalformedDocument   Kind = "malformed_document"
	KindUnsupported         Kind = "unsupported"
	KindReferenceMismatch   Kind = "reference_mismatch"
)

// IsSchemaIntegrity reports whether kind describes a broken schema rather
// than a value that does not fit a well-formed schema.
func IsSchemaIntegrity(kind Kind) bool {
	switch kind {
	case KindUnresolvedType, KindMissingMetadata, KindRecursionLimit:
		return true
	default:
		return false
	}
}

// Error is the structured error type used throughout the codec
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return "", false
		}
		err = u.Unwrap()
	}
	return "", false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the value path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the schema type (container) name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

const maxPreview = 64

// Describe renders a received value for error messages. Long renderings are
// truncated so that a huge input never ends up verbatim in an error string.
func Describe(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		s = fmt.Sprintf("%q", v)
	case fmt.Stringer:
		s = v.String()
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			s = fmt.Sprintf("%v", v)
		} else {
			s = string(raw)
		}
	}
	if len(s) > maxPreview {
		s = s[:maxPreview] + "..."
	}
	return s
}

// Convenience constructors for common error patterns

// InvalidType creates an error for a value whose shape does not fit the schema position.
func InvalidType(phase Phase, path []string, expected string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidType,
		Path:   path,
		Value:  value,
		Detail: fmt.Sprintf("expected %s, received %s", expected, Describe(value)),
	}
}

// MissingField creates a missing struct field error naming the container and field.
func MissingField(path []string, container, field string) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindMissingField,
		Path:     path,
		TypeName: container,
		Detail:   fmt.Sprintf("missing field %q of %s", field, container),
	}
}

// MissingValue creates an error for a position that requires a value but received none.
func MissingValue(path []string, container, what string) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindMissingValue,
		Path:     path,
		TypeName: container,
		Detail:   fmt.Sprintf("missing value for %s", what),
	}
}

// UnusedInput creates an error for input that no schema position consumed.
func UnusedInput(path []string, container string, keys []string) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindUnusedInput,
		Path:     path,
		TypeName: container,
		Value:    keys,
		Detail:   fmt.Sprintf("unused input %s", strings.Join(quoteAll(keys), ", ")),
	}
}

// WrongLength creates a length mismatch error.
func WrongLength(phase Phase, path []string, expected, actual int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWrongLength,
		Path:   path,
		Value:  actual,
		Detail: fmt.Sprintf("expected length %d, received length %d", expected, actual),
	}
}

// VecLengthOverflow creates an error for a sequence too long for a 32-bit length prefix.
func VecLengthOverflow(path []string, length int) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindVecLengthOverflow,
		Path:   path,
		Value:  length,
		Detail: fmt.Sprintf("length %d does not fit in a u32 prefix", length),
	}
}

// IntegerOutOfRange creates a range error naming the declared integer width.
func IntegerOutOfRange(path []string, value any, width string) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindIntegerOutOfRange,
		Path:   path,
		Value:  value,
		Detail: fmt.Sprintf("value %s is not a valid %s", Describe(value), width),
	}
}

// InvalidDiscriminant creates an error for an unknown enum variant.
func InvalidDiscriminant(path []string, container string, variant any) *Error {
	return &Error{
		Phase:    PhaseEncode,
		Kind:     KindInvalidDiscriminant,
		Path:     path,
		TypeName: container,
		Value:    variant,
		Detail:   fmt.Sprintf("unknown variant %s of %s", Describe(variant), container),
	}
}

// UnresolvedType creates a schema-integrity error for a link that cannot be followed.
func UnresolvedType(path []string, detail string) *Error {
	return &Error{
		Phase:  PhaseSchema,
		Kind:   KindUnresolvedType,
		Path:   path,
		Detail: detail,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// MalformedDocument creates an error for an unparseable or incomplete document.
func MalformedDocument(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedDocument,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

func quoteAll(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = fmt.Sprintf("%q", k)
	}
	return out
}
