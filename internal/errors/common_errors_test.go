package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppValidationError("column TARGET is not binary"),
			want: "[VALIDATION] column TARGET is not binary",
		},
		{
			name: "with cause",
			err:  NewParsingError("failed to parse dataset", errors.New("bad quote")),
			want: "[PARSING] failed to parse dataset: bad quote",
		},
		{
			name: "not found",
			err:  NewNotFoundError("column OCCUPATION_TYPE"),
			want: "[NOT_FOUND] column OCCUPATION_TYPE not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("opening source: %w", NewNetworkError("fetch failed", cause))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, &AppError{Type: ErrTypeNetwork}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrTypeStorage}))
	assert.False(t, errors.Is(err, &AppError{Type: ErrTypeNetwork, Message: "other"}))

	errType, ok := TypeOf(err)
	assert.True(t, ok)
	assert.Equal(t, ErrTypeNetwork, errType)

	_, ok = TypeOf(cause)
	assert.False(t, ok)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAnalysisError("percentile on empty column", nil).
		WithContext("column", "AMT_CREDIT").
		WithContext("rows", 0)

	assert.Equal(t, "AMT_CREDIT", err.Context["column"])
	assert.Equal(t, 0, err.Context["rows"])

	bare := &AppError{Type: ErrTypeRender}
	bare.WithContext("chart", "missingness")
	assert.Equal(t, "missingness", bare.Context["chart"])
}
