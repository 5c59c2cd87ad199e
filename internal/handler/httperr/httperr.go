package httperr

import (
	"net/http"
	"strconv"

	"tool-rental/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"status"`
	Error  struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// retryable is implemented by errors that tell the client when to come back.
type retryable interface {
	RetryAfterSeconds() int
}

var statusByKind = map[errs.Kind]int{
	errs.KindNotFound:             http.StatusNotFound,
	errs.KindValidation:           http.StatusBadRequest,
	errs.KindInvalidState:         http.StatusConflict,
	errs.KindInvalidTransition:    http.StatusConflict,
	errs.KindScheduleConflict:     http.StatusConflict,
	errs.KindCertificationExpired: http.StatusBadRequest,
	errs.KindUnauthorized:         http.StatusUnauthorized,
	errs.KindForbidden:            http.StatusForbidden,
	errs.KindTooManyAttempts:      http.StatusTooManyRequests,
	errs.KindServiceUnavailable:   http.StatusServiceUnavailable,
}

// StatusOf maps the kind err is marked with to an HTTP status.
func StatusOf(err error) int {
	if status, ok := statusByKind[errs.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Abort answers with the status and message derived from err's kind.
// Internal errors never leak their message.
func Abort(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := StatusOf(err)
	msg := err.Error()
	if kind == errs.KindInternal {
		msg = "Internal server error"
	}
	var r retryable
	if errs.As(err, &r) {
		c.Header("Retry-After", strconv.Itoa(r.RetryAfterSeconds()))
	}
	abort(c, status, kind, err, msg, nil)
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}
	abort(c, status, kindForStatus(status), err, msg, detail)
}

func abort(c *gin.Context, status int, kind errs.Kind, err error, msg string, detail any) {
	resp := Response{Status: status, Detail: detail}
	resp.Error.Kind = string(kind)
	resp.Error.Message = msg

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

func kindForStatus(status int) errs.Kind {
	switch status {
	case http.StatusBadRequest:
		return errs.KindValidation
	case http.StatusUnauthorized:
		return errs.KindUnauthorized
	case http.StatusForbidden:
		return errs.KindForbidden
	case http.StatusNotFound:
		return errs.KindNotFound
	case http.StatusConflict:
		return errs.KindInvalidState
	case http.StatusTooManyRequests:
		return errs.KindTooManyAttempts
	case http.StatusServiceUnavailable:
		return errs.KindServiceUnavailable
	default:
		return errs.KindInternal
	}
}
