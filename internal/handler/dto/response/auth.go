package response

import (
	"time"

	"tool-rental/internal/domain/auth"
	"tool-rental/internal/domain/user"
	"tool-rental/internal/usecase/queries"
)

type PrincipalResponse struct {
	EmployeeID   int64       `json:"employeeID"`
	DisplayName  string      `json:"displayName"`
	Name         string      `json:"name"`
	Initials     string      `json:"initials"`
	Role         string      `json:"role"`
	Rights       user.Rights `json:"rights"`
	IsLocalAdmin bool        `json:"isLocalAdmin"`
}

type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      PrincipalResponse `json:"user"`
}

func FromPrincipal(p auth.Principal) PrincipalResponse {
	return PrincipalResponse{
		EmployeeID:   p.EmployeeID,
		DisplayName:  p.DisplayName,
		Name:         p.Name,
		Initials:     p.Initials,
		Role:         string(p.Role),
		Rights:       p.Rights,
		IsLocalAdmin: p.IsLocalAdmin,
	}
}

type LoginUserResponse struct {
	EmployeeID  int64  `json:"employeeID"`
	DisplayName string `json:"displayName"`
}

func FromLoginUsers(views []queries.AuthUserView) []LoginUserResponse {
	out := make([]LoginUserResponse, 0, len(views))
	for _, v := range views {
		out = append(out, LoginUserResponse{EmployeeID: v.EmployeeID, DisplayName: v.DisplayName})
	}
	return out
}
