package errs

import "errors"

// Error kinds. Concrete failures are marked with one of these so callers can
// branch on the kind without knowing the concrete sentinel.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidState         = errors.New("invalid state")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrValidation           = errors.New("validation error")
	ErrScheduleConflict     = errors.New("schedule conflict")
	ErrCertificationExpired = errors.New("certification expired")
	ErrServiceUnavailable   = errors.New("service unavailable")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrTooManyAttempts      = errors.New("too many attempts")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

type Kind string

const (
	KindNotFound             Kind = "NotFound"
	KindInvalidState         Kind = "InvalidState"
	KindInvalidTransition    Kind = "InvalidTransition"
	KindValidation           Kind = "ValidationError"
	KindScheduleConflict     Kind = "ScheduleConflict"
	KindCertificationExpired Kind = "CertificationExpired"
	KindServiceUnavailable   Kind = "ServiceUnavailable"
	KindUnauthorized         Kind = "Unauthorized"
	KindForbidden            Kind = "Forbidden"
	KindTooManyAttempts      Kind = "TooManyAttempts"
	KindInternal             Kind = "Internal"
)

// Order matters: the more specific kinds are checked first.
var kinds = []struct {
	mark error
	kind Kind
}{
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrScheduleConflict, KindScheduleConflict},
	{ErrCertificationExpired, KindCertificationExpired},
	{ErrNotFound, KindNotFound},
	{ErrInvalidState, KindInvalidState},
	{ErrValidation, KindValidation},
	{ErrServiceUnavailable, KindServiceUnavailable},
	{ErrUnauthorized, KindUnauthorized},
	{ErrForbidden, KindForbidden},
	{ErrTooManyAttempts, KindTooManyAttempts},
}

// KindOf returns the kind err was marked with, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if Is(err, k.mark) {
			return k.kind
		}
	}
	return KindInternal
}
