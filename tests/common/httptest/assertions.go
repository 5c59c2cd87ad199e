//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"tool-rental/internal/handler/httperr"
	"tool-rental/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

// AssertErrorResponse checks the status and that the error message contains
// expectedErrorMsg. An empty message only checks that the body is an error body.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) {
	t.Helper()

	resp := decodeError(t, w, expectedStatus)
	if expectedErrorMsg != "" {
		assert.Contains(t, resp.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
}

// AssertErrorKind checks the status and the error kind of an error body.
func AssertErrorKind(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, kind errs.Kind) {
	t.Helper()

	resp := decodeError(t, w, expectedStatus)
	assert.Equal(t, string(kind), resp.Error.Kind, "error kind mismatch")
	assert.Equal(t, expectedStatus, resp.Status, "status in body mismatch")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) httperr.Response {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d", expectedStatus, w.Code))

	var resp httperr.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))
	return resp
}
