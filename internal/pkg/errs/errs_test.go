//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finca-reservations/internal/pkg/errs"
)

func TestMarkMatchesWithStdlibIs(t *testing.T) {
	sentinel := errs.New("dates rejected")
	cause := errors.New("row scan failed")

	marked := errs.Mark(cause, sentinel)

	assert.True(t, errors.Is(marked, sentinel), "mark must be visible to errors.Is")
	assert.True(t, errors.Is(marked, cause), "cause must stay inspectable")
	assert.Equal(t, cause.Error(), marked.Error(), "message comes from the cause")
}

func TestMarkOnNilReturnsSentinel(t *testing.T) {
	sentinel := errs.New("fallback")
	assert.Equal(t, sentinel, errs.Mark(nil, sentinel))
}

func TestMarkSurvivesWrapping(t *testing.T) {
	sentinel := errs.New("not payable")
	err := errs.Wrap(errs.Mark(errors.New("boom"), sentinel), "checkout")

	assert.True(t, errors.Is(err, sentinel))
}

func TestMarkTypedCauseMatchesWithAs(t *testing.T) {
	type codeError struct{ error }
	sentinel := errs.New("gateway refused")
	cause := &codeError{errors.New("signature mismatch")}

	marked := errs.Mark(cause, sentinel)

	var got *codeError
	require.True(t, errors.As(marked, &got))
	assert.Same(t, cause, got)
}
