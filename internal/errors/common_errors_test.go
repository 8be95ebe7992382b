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
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  NewInvalidInputError("missing column 价格", nil),
			want: "[INVALID_INPUT] missing column 价格",
		},
		{
			name: "with cause",
			err:  NewExportError("write report", fmt.Errorf("disk full")),
			want: "[EXPORT] write report: disk full",
		},
		{
			name: "with stage",
			err:  NewInvalidInputError("negative price", nil).WithStage("load"),
			want: "[INVALID_INPUT] load: negative price",
		},
		{
			name: "with stage and cause",
			err:  NewRenderError("chart workbook", errors.New("boom")).WithStage("render"),
			want: "[RENDER] render: chart workbook: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewExportError("rename report", cause)

	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("run failed: %w", err)
	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, ErrTypeExport, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewInvalidInputError("non-numeric value", nil).
		WithContext("row", 12).
		WithContext("column", "销售额")

	assert.Equal(t, 12, err.Context["row"])
	assert.Equal(t, "销售额", err.Context["column"])

	bare := &AppError{Type: ErrTypeConfig}
	bare.WithContext("key", "value")
	assert.Equal(t, "value", bare.Context["key"])
}

func TestTypeHelpers(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantInvalid   bool
		wantExportErr bool
	}{
		{"invalid input", NewInvalidInputError("bad", nil), ErrTypeInvalidInput, true, false},
		{"wrapped export", fmt.Errorf("x: %w", NewExportError("bad", nil)), ErrTypeExport, false, true},
		{"config", NewConfigError("bad", nil), ErrTypeConfig, false, false},
		{"not found", NewNotFoundError("input file"), ErrTypeNotFound, false, false},
		{"plain error", errors.New("plain"), "", false, false},
		{"nil", nil, "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, TypeOf(tt.err))
			assert.Equal(t, tt.wantInvalid, IsInvalidInput(tt.err))
			assert.Equal(t, tt.wantExportErr, IsExportFailure(tt.err))
		})
	}
}

func TestErrEmptyGroup_IsSentinel(t *testing.T) {
	wrapped := fmt.Errorf("bucket 1000+: %w", ErrEmptyGroup)
	assert.True(t, errors.Is(wrapped, ErrEmptyGroup))
}
