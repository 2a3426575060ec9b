package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without cause",
			err:      NewNotFoundError("history sheet"),
			expected: "[NOT_FOUND] history sheet not found",
		},
		{
			name:     "with cause",
			err:      NewParsingError("bad NAV cell", fmt.Errorf("strconv: invalid syntax")),
			expected: "[PARSING] bad NAV cell: strconv: invalid syntax",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("failed to write report", cause)

	assert.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, fmt.Errorf("batch failed: %w", err), &appErr)
	assert.Equal(t, ErrTypeStorage, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("unreadable workbook", nil).
		WithContext("file", "产品A.xlsx").
		WithContext("batch", "封闭式90天")

	assert.Equal(t, "产品A.xlsx", err.Context["file"])
	assert.Equal(t, "封闭式90天", err.Context["batch"])
}

func TestIsType(t *testing.T) {
	err := NewConfigError("bad marker", nil)

	assert.True(t, IsType(err, ErrTypeConfig))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeConfig))
}
