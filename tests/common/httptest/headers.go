//go:build unit || e2e

package httptest

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		assert.Equal(t, v, w.Header().Get(k), "header %s mismatch", k)
	}
}

// AssertAttachment checks that the response is a download of filename.
func AssertAttachment(t *testing.T, w *httptest.ResponseRecorder, contentType, filename string) {
	t.Helper()
	AssertHeaders(t, w, map[string]string{
		"Content-Type":        contentType,
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
	})
	assert.NotZero(t, w.Body.Len(), "attachment body is empty")
}
