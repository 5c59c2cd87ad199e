package commands

import (
	"context"
	"time"

	"tool-rental/internal/domain/auth"
)

// SessionIssuer signs and revokes login sessions.
type SessionIssuer interface {
	Issue(p auth.Principal) (string, time.Time, error)
	Revoke(ctx context.Context, token string) error
}

// LoginGuard throttles failed logins per client address and per account.
type LoginGuard interface {
	// Check reports whether ip or account is locked out and for how many seconds.
	Check(ip, account string) (int, bool)
	RecordFailure(ip, account string)
	RecordSuccess(account string)
}
