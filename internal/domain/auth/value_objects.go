package auth

import (
	"errors"
	"fmt"
	"strings"

	"tool-rental/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrMissingIdentity    = errors.New("username or employee id is required")
)

type Method string

const (
	MethodAdmin    Method = "admin"
	MethodEmployee Method = "employee"
)

// Credentials identify a login attempt either by local admin username or by employee number.
type Credentials struct {
	method     Method
	username   string
	employeeID int64
	secret     string
}

func NewCredentials(username string, employeeID int64, secret string) (Credentials, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	switch {
	case username != "":
		return Credentials{method: MethodAdmin, username: username, secret: secret}, nil
	case employeeID > 0:
		return Credentials{method: MethodEmployee, employeeID: employeeID, secret: secret}, nil
	default:
		return Credentials{}, ErrMissingIdentity
	}
}

func (c Credentials) Method() Method    { return c.method }
func (c Credentials) Username() string  { return c.username }
func (c Credentials) EmployeeID() int64 { return c.employeeID }
func (c Credentials) Secret() string    { return c.secret }

// AccountKey is the login-guard key for the account being attempted.
func (c Credentials) AccountKey() string {
	if c.method == MethodAdmin {
		return "user:" + c.username
	}
	return fmt.Sprintf("employee:%d", c.employeeID)
}

// Principal is the identity carried by a session.
type Principal struct {
	EmployeeID   int64       `json:"employeeID"`
	DisplayName  string      `json:"displayName"`
	Name         string      `json:"name"`
	Initials     string      `json:"initials"`
	Role         user.Role   `json:"role"`
	Rights       user.Rights `json:"rights"`
	IsLocalAdmin bool        `json:"isLocalAdmin,omitempty"`
}

func (p Principal) Can(right user.Right) bool {
	return p.Rights.Has(right)
}
