package commands

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/config"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/metrics"
	"tool-rental/internal/pkg/password"
	"tool-rental/internal/usecase/shared"
)

var (
	ErrInvalidCredentials = errs.Mark(errs.New("invalid credentials"), errs.ErrUnauthorized)
	ErrMissingIdentity    = errs.Mark(auth.ErrMissingIdentity, errs.ErrValidation)
)

const localAdminName = "Local Admin"

// LockedOutError is returned while the login guard blocks an address or account.
type LockedOutError struct {
	RetryAfter int
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("too many login attempts, retry in %d seconds", e.RetryAfter)
}

func (e *LockedOutError) RetryAfterSeconds() int {
	return e.RetryAfter
}

type LoginInput struct {
	Username   string
	EmployeeID int64
	Password   string
	ClientIP   string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal auth.Principal
}

type AuthCommands interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
}

type authCommandsImpl struct {
	uow       shared.UnitOfWork
	directory shared.EmployeeDirectory
	sessions  SessionIssuer
	guard     LoginGuard
	clock     clock.Clock
	logger    *slog.Logger
	cfg       config.AuthConfig
}

func NewAuthCommands(
	uow shared.UnitOfWork,
	directory shared.EmployeeDirectory,
	sessions SessionIssuer,
	guard LoginGuard,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.AuthConfig,
) AuthCommands {
	return &authCommandsImpl{
		uow:       uow,
		directory: directory,
		sessions:  sessions,
		guard:     guard,
		clock:     clk,
		logger:    logger,
		cfg:       cfg,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	creds, err := auth.NewCredentials(in.Username, in.EmployeeID, in.Password)
	if err != nil {
		return nil, ErrMissingIdentity
	}
	key := creds.AccountKey()
	if retryAfter, locked := a.guard.Check(in.ClientIP, key); locked {
		metrics.IncLoginAttempt("throttled")
		a.auditLogin(ctx, creds.EmployeeID(), "LoginThrottled", key)
		return nil, errs.Mark(&LockedOutError{RetryAfter: retryAfter}, errs.ErrTooManyAttempts)
	}

	var (
		principal auth.Principal
		rejected  bool
	)
	switch creds.Method() {
	case auth.MethodAdmin:
		principal, err = a.authenticateAdmin(creds)
	default:
		principal, rejected, err = a.authenticateEmployee(ctx, creds)
	}
	if err != nil {
		if !errs.Is(err, ErrInvalidCredentials) {
			return nil, err
		}
		a.guard.RecordFailure(in.ClientIP, key)
		action := "LoginFailed"
		if rejected {
			action = "LoginRejected"
		}
		metrics.IncLoginAttempt("failure")
		a.logger.Warn("login failed", "account", key, "ip", in.ClientIP, "rejected", rejected)
		a.auditLogin(ctx, creds.EmployeeID(), action, key)
		return nil, err
	}

	token, expiresAt, err := a.sessions.Issue(principal)
	if err != nil {
		return nil, errs.Wrap(err, "failed to issue session")
	}
	a.guard.RecordSuccess(key)
	metrics.IncLoginAttempt("success")
	a.logger.Info("login succeeded", "employee_id", principal.EmployeeID, "local_admin", principal.IsLocalAdmin)
	a.auditLogin(ctx, principal.EmployeeID, "LoginSuccess", key)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, Principal: principal}, nil
}

func (a *authCommandsImpl) authenticateAdmin(creds auth.Credentials) (auth.Principal, error) {
	username := strings.ToLower(strings.TrimSpace(a.cfg.AdminUsername))
	if a.cfg.AdminPassword == "" || creds.Username() != username {
		return auth.Principal{}, ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(creds.Secret()), []byte(a.cfg.AdminPassword)) != 1 {
		return auth.Principal{}, ErrInvalidCredentials
	}
	return auth.Principal{
		EmployeeID:   a.cfg.AdminEmployeeID,
		DisplayName:  localAdminName,
		Name:         localAdminName,
		Initials:     "LA",
		Role:         user.RoleAdmin,
		Rights:       user.AllRights(),
		IsLocalAdmin: true,
	}, nil
}

// authenticateEmployee accepts provisioned, active accounts only. Accounts
// without their own PIN use the configured default PIN. rejected is set when
// the account itself may not log in.
func (a *authCommandsImpl) authenticateEmployee(ctx context.Context, creds auth.Credentials) (p auth.Principal, rejected bool, err error) {
	var account *user.Account
	err = a.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		found, err := tx.Users().FindByEmployeeID(ctx, creds.EmployeeID())
		if err != nil {
			return err
		}
		account = found
		return nil
	})
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return p, true, ErrInvalidCredentials
		}
		return p, false, err
	}
	if !account.IsActive() {
		return p, true, ErrInvalidCredentials
	}
	if !checkPIN(account, creds.Secret(), a.cfg.DefaultPIN) {
		return p, false, ErrInvalidCredentials
	}

	p = auth.Principal{
		EmployeeID:  account.EmployeeID(),
		DisplayName: employee.FallbackDisplay(account.EmployeeID()),
		Name:        employee.FallbackDisplay(account.EmployeeID()),
		Role:        account.Role(),
		Rights:      account.Rights(),
	}
	if e, ok := a.directory.Index(ctx)[account.EmployeeID()]; ok {
		p.DisplayName = e.DisplayName
		p.Name = e.Name
		p.Initials = e.Initials
	}
	return p, false, nil
}

func checkPIN(account *user.Account, pin, defaultPIN string) bool {
	if account.HasCustomPIN() {
		return password.ComparePassword(*account.PINHash(), pin) == nil
	}
	return defaultPIN != "" && subtle.ConstantTimeCompare([]byte(strings.TrimSpace(pin)), []byte(defaultPIN)) == 1
}

// auditLogin records the attempt. Audit failures are logged and never block a login.
func (a *authCommandsImpl) auditLogin(ctx context.Context, employeeID int64, action, account string) {
	now := a.clock.Now()
	var actor *int64
	if employeeID > 0 {
		actor = &employeeID
	}
	err := a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Audit().Append(ctx, shared.AuditEntry{
			EntityType: shared.AuditEntityAuth,
			EntityID:   employeeID,
			Action:     action,
			Details:    account,
			UserID:     actor,
			CreatedAt:  now,
		})
	})
	if err != nil {
		a.logger.Error("failed to audit login", "action", action, "account", account, "error", err)
	}
}

func (a *authCommandsImpl) Logout(ctx context.Context, token string) error {
	if err := a.sessions.Revoke(ctx, token); err != nil {
		return err
	}
	metrics.IncLoginAttempt("logout")
	return nil
}
