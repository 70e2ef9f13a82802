package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorKindMatching(t *testing.T) {
	err := NewAppError(ErrDuplicateRecord, "ya existe la factura F-1", nil)
	assert.True(t, errors.Is(err, ErrDuplicateRecord))
	assert.False(t, errors.Is(err, ErrAuthentication))
	assert.Equal(t, "ya existe la factura F-1", err.Error())
}

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("exit status 1")
	err := NewAppError(ErrOCRExtraction, "error al extraer texto", cause)

	assert.True(t, errors.Is(err, ErrOCRExtraction))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "error al extraer texto: exit status 1", err.Error())

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Same(t, ErrOCRExtraction, appErr.Kind)
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))

	base := errors.New("boom")
	wrapped := WrapError(base, "reading file")
	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, "reading file: boom", wrapped.Error())
}
