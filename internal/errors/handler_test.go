package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpulse/internal/sheets"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func problemFor(t *testing.T, err error) (*ProblemDetails, map[string]any) {
	t.Helper()
	h := testHandler()
	r := httptest.NewRequest(http.MethodGet, "/api/creatives/pinterest", nil)
	w := httptest.NewRecorder()

	h.HandleError(w, r, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return h.ErrorToProblem(err, r), body
}

func TestHandleError_APIError(t *testing.T) {
	problem, body := problemFor(t, FeedNotFoundError("tiktok"))

	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, TypeFeedNotFound, body["type"])
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "FEED_NOT_FOUND", body["error_code"])
	assert.Contains(t, body["detail"], "tiktok")
}

func TestHandleError_SheetSentinels(t *testing.T) {
	problem, body := problemFor(t, fmt.Errorf("range X: %w", sheets.ErrRangeNotFound))
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Equal(t, TypeRangeNotFound, body["type"])

	problem, body = problemFor(t, fmt.Errorf("fetch: %w", sheets.ErrSourceUnavailable))
	assert.Equal(t, http.StatusServiceUnavailable, problem.Status)
	assert.Equal(t, TypeSourceDown, body["type"])
	assert.Equal(t, float64(30), body["retry_after"])
}

func TestHandleError_ContextErrors(t *testing.T) {
	problem, _ := problemFor(t, context.DeadlineExceeded)
	assert.Equal(t, http.StatusGatewayTimeout, problem.Status)
	assert.Equal(t, TypeTimeout, problem.Type)
}

func TestHandleError_UnknownError(t *testing.T) {
	problem, body := problemFor(t, fmt.Errorf("something odd"))
	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body["detail"], "something odd", "internal details are not leaked")
}

func TestValidationProblem(t *testing.T) {
	problem, body := problemFor(t, ErrValidation("page", "must be a positive integer"))

	assert.Equal(t, http.StatusBadRequest, problem.Status)
	assert.Equal(t, TypeValidation, body["type"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "page", details["field"])
}

func TestRecoveryMiddleware(t *testing.T) {
	h := testHandler()
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/keywords", nil)
	RecoveryMiddleware(h)(panicking).ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeInternal, body["type"])
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	pd := NewProblemDetails(400, TypeValidation, "Bad Request", "bad page", "/api/keywords").
		WithExtension("error_code", "VALIDATION_FAILED")

	raw, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.Equal(t, "bad page", body["detail"])
}
