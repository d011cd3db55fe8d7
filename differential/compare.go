package differential

import (
	"bytes"
	"context"
	"encoding/hex"
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wippyai/rollup-codec/errors"
)

// ErrRejected marks a reference error as a rejection of the input value
// rather than a failure of the reference itself.
var ErrRejected = stderrors.New("reference rejected value")

// Reference encodes values with an independent implementation. A rejected
// value is reported as an error wrapping ErrRejected; any other error is an
// infrastructure failure.
type Reference interface {
	Encode(ctx context.Context, index int, value any) ([]byte, error)
}

// ReferenceFunc adapts a function to Reference.
type ReferenceFunc func(ctx context.Context, index int, value any) ([]byte, error)

func (f ReferenceFunc) Encode(ctx context.Context, index int, value any) ([]byte, error) {
	return f(ctx, index, value)
}

// Encoder is the implementation under test.
type Encoder interface {
	Encode(index int, value any) ([]byte, error)
}

// Compare encodes value with both enc and ref. It returns nil when both
// produce identical bytes or both reject the value, a reference_mismatch
// error when they disagree, and the reference's own error when it fails
// for reasons other than rejection.
func Compare(ctx context.Context, ref Reference, enc Encoder, index int, value any) error {
	want, refErr := ref.Encode(ctx, index, value)
	if refErr != nil && !stderrors.Is(refErr, ErrRejected) {
		return fmt.Errorf("reference encoder: %w", refErr)
	}
	got, encErr := enc.Encode(index, value)

	switch {
	case refErr != nil && encErr != nil:
		return nil
	case refErr == nil && encErr == nil && bytes.Equal(got, want):
		return nil
	}

	mismatch := errors.New(errors.PhaseDifferential, errors.KindReferenceMismatch).
		Detail("type %d: reference %s, codec %s", index, outcome(want, refErr), outcome(got, encErr)).
		Build()
	if encErr != nil {
		mismatch.Cause = encErr
	} else if refErr != nil {
		mismatch.Cause = refErr
	}

	Logger().Warn("reference mismatch",
		zap.Int("type", index),
		zap.String("reference", outcome(want, refErr)),
		zap.String("codec", outcome(got, encErr)))
	return mismatch
}

func outcome(b []byte, err error) string {
	if err != nil {
		return "rejected (" + err.Error() + ")"
	}
	return hex.EncodeToString(b)
}
