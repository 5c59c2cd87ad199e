package response

import (
	"tool-rental/internal/domain/employee"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/usecase/queries"
	"tool-rental/internal/usecase/shared"
)

type UserResponse struct {
	EmployeeID     int64       `json:"employeeID"`
	EmployeeNumber string      `json:"employeeNumber"`
	Name           string      `json:"name"`
	Initials       string      `json:"initials"`
	DisplayName    string      `json:"displayName"`
	Email          string      `json:"email,omitempty"`
	DepartmentCode string      `json:"departmentCode,omitempty"`
	Role           string      `json:"role"`
	Rights         user.Rights `json:"rights"`
	HasAccess      bool        `json:"hasAccess"`
	HasCustomPIN   bool        `json:"hasCustomPin"`
	IsActive       bool        `json:"isActive"`
	InDirectory    bool        `json:"inDirectory"`
}

func FromUserView(v *queries.UserView) (*UserResponse, error) {
	resp := &UserResponse{}
	if err := copyInto(resp, v); err != nil {
		return nil, err
	}
	return resp, nil
}

func FromUserViews(views []*queries.UserView) ([]*UserResponse, error) {
	out := make([]*UserResponse, 0, len(views))
	for _, v := range views {
		r, err := FromUserView(v)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

type EmployeeResponse struct {
	EmployeeID     int64  `json:"employeeID"`
	Number         string `json:"number"`
	Name           string `json:"name"`
	Initials       string `json:"initials"`
	DisplayName    string `json:"displayName"`
	Email          string `json:"email,omitempty"`
	DepartmentCode string `json:"departmentCode,omitempty"`
}

func FromEmployees(entries []employee.Employee) []EmployeeResponse {
	out := make([]EmployeeResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EmployeeResponse{
			EmployeeID:     e.ID(),
			Number:         e.Number,
			Name:           e.Name,
			Initials:       e.Initials,
			DisplayName:    e.DisplayName,
			Email:          e.Email,
			DepartmentCode: e.DepartmentCode,
		})
	}
	return out
}

type DirectoryStatusResponse = shared.DirectoryStatus

type NotificationRunResponse struct {
	Created int `json:"created"`
}

type NotificationListResponse struct {
	Notifications []shared.Notification `json:"notifications"`
}
