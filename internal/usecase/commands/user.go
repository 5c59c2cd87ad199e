package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/clock"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/pkg/password"
	"tool-rental/internal/pkg/ptr"
	"tool-rental/internal/usecase/shared"
)

var (
	ErrUserNotFound  = errs.Mark(errs.New("user not found"), errs.ErrNotFound)
	ErrUserExists    = errs.Mark(errs.New("user already exists"), errs.ErrInvalidState)
	ErrInvalidRole   = errs.Mark(user.ErrInvalidRole, errs.ErrValidation)
	ErrDeleteSelf    = errs.Mark(errs.New("cannot delete your own access"), errs.ErrValidation)
	ErrEmptyUserEdit = errs.Mark(errs.New("nothing to update"), errs.ErrValidation)
)

type CreateUserInput struct {
	EmployeeID int64
	Role       string
	Rights     *user.Overrides
	// Password is optional; without it the default PIN applies.
	Password string
}

type UpdateUserInput struct {
	Role          *string
	Rights        *user.Overrides
	Password      *string
	ResetPassword bool
}

type UserCommands interface {
	Create(ctx context.Context, in CreateUserInput, actor auth.Principal) (*user.Account, error)
	Update(ctx context.Context, employeeID int64, in UpdateUserInput, actor auth.Principal) (*user.Account, error)
	Delete(ctx context.Context, employeeID int64, actor auth.Principal) error
}

type userCommandsImpl struct {
	uow       shared.UnitOfWork
	directory shared.EmployeeDirectory
	clock     clock.Clock
	logger    *slog.Logger
}

func NewUserCommands(uow shared.UnitOfWork, directory shared.EmployeeDirectory, clk clock.Clock, logger *slog.Logger) UserCommands {
	return &userCommandsImpl{uow: uow, directory: directory, clock: clk, logger: logger}
}

func (uc *userCommandsImpl) Create(ctx context.Context, in CreateUserInput, actor auth.Principal) (*user.Account, error) {
	if _, err := requireEmployee(ctx, uc.directory, in.EmployeeID); err != nil {
		return nil, err
	}
	role, err := parseRole(in.Role, user.RoleUser)
	if err != nil {
		return nil, err
	}
	overrides := ptr.Or(in.Rights, user.Overrides{})
	var hash string
	if strings.TrimSpace(in.Password) != "" {
		if hash, err = hashPIN(in.Password); err != nil {
			return nil, err
		}
	}

	now := uc.clock.Now()
	account, err := user.NewAccount(in.EmployeeID, role, user.ResolveRights(role, overrides), now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	if hash != "" {
		account.SetPINHash(hash, now)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		existing, err := tx.Users().FindByEmployeeID(ctx, in.EmployeeID)
		if err != nil && !errs.Is(err, errs.ErrNotFound) {
			return err
		}
		if existing != nil {
			return errs.Wrapf(ErrUserExists, "employee %d", in.EmployeeID)
		}
		if err := tx.Users().Save(ctx, account); err != nil {
			return err
		}
		return auditUser(ctx, tx, in.EmployeeID, "CreateUser", fmt.Sprintf("Role %s", role), actor, now)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user created", "employee_id", in.EmployeeID, "role", role)
	return account, nil
}

func (uc *userCommandsImpl) Update(ctx context.Context, employeeID int64, in UpdateUserInput, actor auth.Principal) (*user.Account, error) {
	if in.Role == nil && in.Rights == nil && in.Password == nil && !in.ResetPassword {
		return nil, ErrEmptyUserEdit
	}
	var hash string
	if in.Password != nil && !in.ResetPassword {
		var err error
		if hash, err = hashPIN(*in.Password); err != nil {
			return nil, err
		}
	}

	var updated *user.Account
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		account, err := tx.Users().FindByEmployeeID(ctx, employeeID)
		if err != nil {
			return notFound(err, ErrUserNotFound)
		}
		now := uc.clock.Now()
		var changes []string

		if in.Role != nil || in.Rights != nil {
			role := account.Role()
			if in.Role != nil {
				if role, err = parseRole(*in.Role, role); err != nil {
					return err
				}
			}
			rights := account.Rights()
			switch {
			case in.Rights != nil:
				rights = user.ResolveRights(role, *in.Rights)
			case role != account.Role():
				rights = user.BaselineRights(role)
			}
			if err := account.ChangeAccess(role, rights, now); err != nil {
				return errs.Mark(err, errs.ErrValidation)
			}
			changes = append(changes, fmt.Sprintf("role %s", role))
		}
		switch {
		case in.ResetPassword:
			account.ResetPIN(now)
			changes = append(changes, "pin reset")
		case hash != "":
			account.SetPINHash(hash, now)
			changes = append(changes, "pin changed")
		}

		if err := tx.Users().Save(ctx, account); err != nil {
			return err
		}
		updated = account
		return auditUser(ctx, tx, employeeID, "UpdateUser", strings.Join(changes, "; "), actor, now)
	})
	if err != nil {
		return nil, err
	}
	uc.logger.Info("user updated", "employee_id", employeeID)
	return updated, nil
}

func (uc *userCommandsImpl) Delete(ctx context.Context, employeeID int64, actor auth.Principal) error {
	if employeeID == actor.EmployeeID {
		return ErrDeleteSelf
	}
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Delete(ctx, employeeID); err != nil {
			return notFound(err, ErrUserNotFound)
		}
		return auditUser(ctx, tx, employeeID, "DeleteUser", "Access removed", actor, uc.clock.Now())
	})
	if err != nil {
		return err
	}
	uc.logger.Info("user deleted", "employee_id", employeeID)
	return nil
}

func parseRole(raw string, fallback user.Role) (user.Role, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	for _, r := range []user.Role{user.RoleAdmin, user.RoleUser} {
		if strings.EqualFold(raw, string(r)) {
			return r, nil
		}
	}
	return "", errs.Wrapf(ErrInvalidRole, "got %q", raw)
}

func hashPIN(pin string) (string, error) {
	hash, err := password.HashPassword(pin)
	if err != nil {
		if errs.Is(err, password.ErrTooShort) {
			return "", ErrPINTooShort
		}
		return "", errs.Wrap(err, "failed to hash pin")
	}
	return hash, nil
}

func auditUser(ctx context.Context, tx shared.Tx, employeeID int64, action, details string, actor auth.Principal, now time.Time) error {
	return tx.Audit().Append(ctx, shared.AuditEntry{
		EntityType: shared.AuditEntityUser,
		EntityID:   employeeID,
		Action:     action,
		Details:    details,
		UserID:     actorID(actor),
		CreatedAt:  now,
	})
}
