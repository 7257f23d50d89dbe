package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailreports/internal/shared/testutil"
)

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "context deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api error",
			err:        ErrUnsupportedFormat,
			wantStatus: http.StatusBadRequest,
			wantType:   TypeBadRequest,
		},
		{
			name:       "precondition error",
			err:        fmt.Errorf("export: %w", NewPreconditionError("peakHours must not be empty")),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypePrecondition,
		},
		{
			name:       "formatting error",
			err:        NewFormattingError("cannot format NaN", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeFormatting,
		},
		{
			name:       "persistence error",
			err:        NewPersistenceError("write failed", fmt.Errorf("/secret/path: permission denied")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypePersistence,
		},
		{
			name:       "not found",
			err:        NewNotFoundError("report Reports20250120.pdf"),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/reports/exports/pdf", nil)
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "/api/reports/exports/pdf", body["instance"])
			assert.NotContains(t, rec.Body.String(), "/secret/path")

			testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
		})
	}
}

func TestErrorHandler_HandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, logs.Count())
	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_ValidationFieldsExtension(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	fields := []ValidationError{{Field: "staffPerformance", Message: "must contain at least 1 item"}}
	err := NewPreconditionError("snapshot is invalid").WithContext("fields", fields)

	req := httptest.NewRequest(http.MethodPost, "/api/reports/exports", nil)
	problem := handler.ErrorToProblem(err, req)

	assert.Equal(t, http.StatusUnprocessableEntity, problem.Status)
	assert.Equal(t, fields, problem.Extensions["errors"])
	assert.Equal(t, "PRECONDITION", problem.Extensions["error_type"])
}

func TestErrorHandler_NotFound(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), TypeNotFound)
}
