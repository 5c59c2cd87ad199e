package request

import (
	"tool-rental/internal/domain/user"
	"tool-rental/internal/usecase/commands"
)

type CreateUserRequest struct {
	EmployeeID int64           `json:"employeeID" binding:"required,gt=0"`
	Role       string          `json:"role,omitempty"`
	Rights     *user.Overrides `json:"rights,omitempty"`
	PinCode    string          `json:"pinCode,omitempty" binding:"max=200"`
}

func (r CreateUserRequest) ToInput() commands.CreateUserInput {
	return commands.CreateUserInput{
		EmployeeID: r.EmployeeID,
		Role:       r.Role,
		Rights:     r.Rights,
		Password:   r.PinCode,
	}
}

type UpdateUserRequest struct {
	Role          *string         `json:"role,omitempty"`
	Rights        *user.Overrides `json:"rights,omitempty"`
	PinCode       *string         `json:"pinCode,omitempty" binding:"omitempty,max=200"`
	ResetPassword bool            `json:"resetPassword,omitempty"`
}

func (r UpdateUserRequest) ToInput() commands.UpdateUserInput {
	return commands.UpdateUserInput{
		Role:          r.Role,
		Rights:        r.Rights,
		Password:      r.PinCode,
		ResetPassword: r.ResetPassword,
	}
}
