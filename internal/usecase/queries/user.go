package queries

import (
	"context"
	"log/slog"
	"sort"

	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/pkg/errs"
	"tool-rental/internal/usecase/shared"
)

var ErrUserNotFound = errs.Mark(errs.New("user not found"), errs.ErrNotFound)

// UserView is a directory entry merged with its access record, if any.
type UserView struct {
	EmployeeID     int64
	EmployeeNumber string
	Name           string
	Initials       string
	DisplayName    string
	Email          string
	DepartmentCode string
	Role           string
	Rights         user.Rights
	HasAccess      bool
	HasCustomPIN   bool
	IsActive       bool
	InDirectory    bool
}

type AuthUserView struct {
	EmployeeID  int64
	DisplayName string
}

type UserQueries interface {
	// List merges the directory with access records. Without the directory only
	// provisioned users are listed.
	List(ctx context.Context) ([]*UserView, error)
	Get(ctx context.Context, employeeID int64) (*UserView, error)
	// LoginUsers lists the active provisioned users for the login picker.
	LoginUsers(ctx context.Context) ([]AuthUserView, error)
}

type userQueriesImpl struct {
	uow       shared.UnitOfWork
	directory shared.EmployeeDirectory
	logger    *slog.Logger
}

func NewUserQueries(uow shared.UnitOfWork, directory shared.EmployeeDirectory, logger *slog.Logger) UserQueries {
	return &userQueriesImpl{uow: uow, directory: directory, logger: logger}
}

func (q *userQueriesImpl) accounts(ctx context.Context) (map[int64]*user.Account, error) {
	var list []*user.Account
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		list, err = tx.Users().List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]*user.Account, len(list))
	for _, a := range list {
		out[a.EmployeeID()] = a
	}
	return out, nil
}

func (q *userQueriesImpl) List(ctx context.Context) ([]*UserView, error) {
	accounts, err := q.accounts(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := q.directory.Employees(ctx, false)
	if err != nil {
		if !errs.Is(err, errs.ErrServiceUnavailable) {
			return nil, err
		}
		q.logger.Warn("employee directory unavailable, listing provisioned users only", "error", err)
		entries = nil
	}

	views := make([]*UserView, 0, len(entries)+len(accounts))
	seen := make(map[int64]struct{}, len(entries))
	for _, e := range entries {
		id := e.ID()
		seen[id] = struct{}{}
		views = append(views, userView(id, &e, accounts[id]))
	}

	var orphans []*UserView
	for id, a := range accounts {
		if _, ok := seen[id]; ok {
			continue
		}
		orphans = append(orphans, userView(id, nil, a))
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].EmployeeID < orphans[j].EmployeeID })
	return append(views, orphans...), nil
}

func (q *userQueriesImpl) Get(ctx context.Context, employeeID int64) (*UserView, error) {
	var account *user.Account
	err := q.uow.WithinReadOnly(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		account, err = tx.Users().FindByEmployeeID(ctx, employeeID)
		return err
	})
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	var entry *employee.Employee
	if e, ok := q.directory.Index(ctx)[employeeID]; ok {
		entry = &e
	}
	return userView(employeeID, entry, account), nil
}

func (q *userQueriesImpl) LoginUsers(ctx context.Context) ([]AuthUserView, error) {
	accounts, err := q.accounts(ctx)
	if err != nil {
		return nil, err
	}
	index := q.directory.Index(ctx)

	out := make([]AuthUserView, 0, len(accounts))
	for id, a := range accounts {
		if !a.IsActive() {
			continue
		}
		display := employee.FallbackDisplay(id)
		if e, ok := index[id]; ok {
			display = e.DisplayName
		}
		out = append(out, AuthUserView{EmployeeID: id, DisplayName: display})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func userView(id int64, e *employee.Employee, a *user.Account) *UserView {
	v := &UserView{
		EmployeeID:  id,
		Name:        employee.FallbackDisplay(id),
		DisplayName: employee.FallbackDisplay(id),
		Role:        string(user.RoleUser),
		Rights:      user.BaselineRights(user.RoleUser),
	}
	if e != nil {
		v.EmployeeNumber = e.Number
		v.Name = e.Name
		v.Initials = e.Initials
		v.DisplayName = e.DisplayName
		v.Email = e.Email
		v.DepartmentCode = e.DepartmentCode
		v.InDirectory = true
	}
	if a != nil {
		v.Role = string(a.Role())
		v.Rights = a.Rights()
		v.HasAccess = true
		v.HasCustomPIN = a.HasCustomPIN()
		v.IsActive = a.IsActive()
	}
	return v
}
