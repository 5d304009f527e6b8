package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "validation app error",
			err:        NewValidationError(`mode "bogus"`, fmt.Errorf("invalid mode")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "lookup app error wrapped",
			err:        fmt.Errorf("test row 4: %w", NewLookupError("shop_id=9 item_id=99", nil)),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeLookup,
			wantDetail: "test row 4: [LOOKUP] shop_id=9 item_id=99",
		},
		{
			name:       "parsing app error",
			err:        NewParsingError("failed to parse x.csv", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeDataInvalid,
		},
		{
			name:       "storage error hides cause",
			err:        NewStorageError("failed to create out.csv", fmt.Errorf("disk on fire")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeStorage,
			wantDetail: "failed to create out.csv",
		},
		{
			name:       "missing file",
			err:        fmt.Errorf("open data/feature_set_x.csv: %w", fs.ErrNotExist),
			wantStatus: http.StatusNotFound,
			wantType:   TypeNotFound,
		},
		{
			name:       "api error",
			err:        InvalidParameter("mode", fmt.Errorf("bad")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("read: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			wantDetail: "An unexpected error occurred while processing your request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/datasets/x/summary", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-1"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/datasets/x/summary", body["instance"])
			assert.Equal(t, "req-1", body["trace_id"])
			if tt.wantDetail != "" {
				assert.Equal(t, tt.wantDetail, body["detail"])
			}
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	rec := httptest.NewRecorder()
	NewErrorHandler(nil, false).HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Empty(t, rec.Body.String())
}

func TestErrorHandler_LookupContext(t *testing.T) {
	h := NewErrorHandler(nil, false)
	err := NewLookupError("shop_id=1 item_id=2", nil).WithContext("key", "1_2")

	problem := h.ErrorToProblem(err, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, map[string]interface{}{"key": "1_2"}, problem.Extensions["context"])
	assert.Equal(t, "LOOKUP", problem.Extensions["error_code"])
}

func TestErrorHandler_LogLevels(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	h.HandleError(httptest.NewRecorder(), req, NewValidationError("bad", nil))
	h.HandleError(httptest.NewRecorder(), req, fmt.Errorf("boom"))

	require.Len(t, handler.GetRecords(), 2)
	assert.Len(t, handler.GetRecordsByLevel(slog.LevelWarn), 1)
	assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
}

func TestErrorHandler_Recoverer(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	panicking := h.Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	panicking.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/scores", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, "kaboom", body["panic"])
	assert.NotEmpty(t, body["stack"])
	assert.True(t, handler.ContainsMessage("panic recovered"))
}

func TestErrorHandler_NotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, decodeProblem(t, rec)["detail"], "DELETE")
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	p := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "/x").
		WithExtension("error_code", "VALIDATION").
		WithExtension("status", 999)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(http.StatusBadRequest), body["status"], "extensions cannot override standard fields")
	assert.Equal(t, "VALIDATION", body["error_code"])
	assert.NotContains(t, body, "detail")
}

func TestAPIError(t *testing.T) {
	err := RequestValidationFailed([]FieldError{{Field: "files", Message: "required"}})

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Request validation failed", err.Error())
	assert.Equal(t, []FieldError{{Field: "files", Message: "required"}}, err.Details)
}
