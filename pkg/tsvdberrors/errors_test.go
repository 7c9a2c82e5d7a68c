package tsvdberrors

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeReadFailure, "error reading file"))
}

func TestWrapPreservesStack(t *testing.T) {
	inner := New(ErrorTypeReadFailure, "error reading file")
	outer := Wrap(inner, ErrorTypeInternal, "load failed")

	require.NotNil(t, outer)
	assert.Equal(t, inner.Stack, outer.Stack)
	assert.True(t, IsType(outer, ErrorTypeInternal))
	assert.Equal(t, ErrorTypeInternal, KindOf(outer))

	var got *Error
	require.True(t, errors.As(outer.Cause, &got))
	assert.Equal(t, ErrorTypeReadFailure, got.Type)
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, ErrorTypeReadFailure, "error reading file")
	assert.Equal(t, "read_failure: error reading file: unexpected EOF", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	plain := Newf(ErrorTypeInvalidArgument, "batch size must be positive, got %d", 0)
	assert.Equal(t, "invalid_argument: batch size must be positive, got 0", plain.Error())
	assert.NotEmpty(t, plain.Stack)
}

func TestWithDetail(t *testing.T) {
	err := New(ErrorTypeWriteFailure, "error saving file").
		WithDetail("file", "out.tsv").
		WithDetail("rows", 10)

	assert.Equal(t, "out.tsv", err.Details["file"])
	assert.Equal(t, 10, err.Details["rows"])
}

func TestIsTypePlainError(t *testing.T) {
	assert.False(t, IsType(errors.New("plain"), ErrorTypeReadFailure))
	assert.False(t, IsType(nil, ErrorTypeReadFailure))
}
