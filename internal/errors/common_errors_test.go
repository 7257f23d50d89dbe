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
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewPreconditionError("staffPerformance must not be empty"),
			wantMessage: "[PRECONDITION] staffPerformance must not be empty",
		},
		{
			name:        "error with cause",
			appError:    NewPersistenceError("failed to save Reports20250120.pdf", fmt.Errorf("disk full")),
			wantMessage: "[PERSISTENCE] failed to save Reports20250120.pdf: disk full",
		},
		{
			name:        "formatting error",
			appError:    NewFormattingError("cannot format currency", errors.New("NaN")),
			wantMessage: "[FORMATTING] cannot format currency: NaN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewPersistenceError("write failed", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypePrecondition, Message: "bad snapshot"}
	err.WithContext("field", "peakHours").WithContext("index", 2)

	require.NotNil(t, err.Context)
	assert.Equal(t, "peakHours", err.Context["field"])
	assert.Equal(t, 2, err.Context["index"])
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("export failed: %w", NewPreconditionError("empty kpis"))

	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"precondition through wrap", wrapped, IsPrecondition, true},
		{"precondition is not formatting", wrapped, IsFormatting, false},
		{"formatting", NewFormattingError("nan", nil), IsFormatting, true},
		{"persistence", NewPersistenceError("disk", nil), IsPersistence, true},
		{"not found", NewNotFoundError("report"), IsNotFound, true},
		{"plain error", errors.New("boom"), IsPrecondition, false},
		{"nil error", nil, IsPersistence, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestTypeOf(t *testing.T) {
	errType, ok := TypeOf(fmt.Errorf("outer: %w", NewConfigError("bad port", nil)))
	assert.True(t, ok)
	assert.Equal(t, ErrTypeConfig, errType)

	_, ok = TypeOf(errors.New("plain"))
	assert.False(t, ok)
}
