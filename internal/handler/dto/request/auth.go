package request

import (
	"strings"

	"tool-rental/internal/usecase/commands"
)

// LoginRequest carries either the local admin username and password or an
// employee id and PIN.
type LoginRequest struct {
	Username   string `json:"username,omitempty" binding:"omitempty,max=100"`
	Password   string `json:"password,omitempty" binding:"max=200"`
	EmployeeID int64  `json:"employeeID,omitempty" binding:"min=0"`
	PinCode    string `json:"pinCode,omitempty" binding:"max=200"`
}

func (r LoginRequest) ToInput(clientIP string) commands.LoginInput {
	in := commands.LoginInput{
		Username:   strings.TrimSpace(r.Username),
		EmployeeID: r.EmployeeID,
		Password:   r.PinCode,
		ClientIP:   clientIP,
	}
	if in.Username != "" {
		in.Password = r.Password
	}
	return in
}
