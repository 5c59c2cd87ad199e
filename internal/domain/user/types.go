package user

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}

// NormalizeRole maps unknown or empty roles to RoleUser.
func NormalizeRole(s string) Role {
	role := Role(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}

type Right string

const (
	RightManageUsers     Right = "manageUsers"
	RightManageRentals   Right = "manageRentals"
	RightManageWarehouse Right = "manageWarehouse"
	RightManageEquipment Right = "manageEquipment"
	RightCheckout        Right = "checkout"
)
