package user

import (
	"encoding/json"
	"errors"
)

var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidEmployeeID = errors.New("employee id must be a positive number")
)

// Rights is the closed set of capability flags an account can hold.
type Rights struct {
	ManageUsers     bool `json:"manageUsers"`
	ManageRentals   bool `json:"manageRentals"`
	ManageWarehouse bool `json:"manageWarehouse"`
	ManageEquipment bool `json:"manageEquipment"`
	Checkout        bool `json:"checkout"`
}

func AllRights() Rights {
	return Rights{
		ManageUsers:     true,
		ManageRentals:   true,
		ManageWarehouse: true,
		ManageEquipment: true,
		Checkout:        true,
	}
}

// BaselineRights returns the rights granted by role alone.
func BaselineRights(role Role) Rights {
	if role == RoleAdmin {
		return AllRights()
	}
	return Rights{Checkout: true}
}

func (r Rights) Has(right Right) bool {
	switch right {
	case RightManageUsers:
		return r.ManageUsers
	case RightManageRentals:
		return r.ManageRentals
	case RightManageWarehouse:
		return r.ManageWarehouse
	case RightManageEquipment:
		return r.ManageEquipment
	case RightCheckout:
		return r.Checkout
	default:
		return false
	}
}

// Overrides holds per-flag overrides of the role baseline. Nil means "use baseline".
type Overrides struct {
	ManageUsers     *bool `json:"manageUsers,omitempty"`
	ManageRentals   *bool `json:"manageRentals,omitempty"`
	ManageWarehouse *bool `json:"manageWarehouse,omitempty"`
	ManageEquipment *bool `json:"manageEquipment,omitempty"`
	Checkout        *bool `json:"checkout,omitempty"`
}

// ResolveRights applies overrides flag by flag on top of the baseline for role.
func ResolveRights(role Role, o Overrides) Rights {
	r := BaselineRights(role)
	apply := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&r.ManageUsers, o.ManageUsers)
	apply(&r.ManageRentals, o.ManageRentals)
	apply(&r.ManageWarehouse, o.ManageWarehouse)
	apply(&r.ManageEquipment, o.ManageEquipment)
	apply(&r.Checkout, o.Checkout)
	return r
}

// ParseRights decodes stored rights, ignoring unknown keys. Undecodable input
// falls back to the role baseline.
func ParseRights(raw []byte, role Role) Rights {
	if len(raw) == 0 {
		return BaselineRights(role)
	}
	var o Overrides
	if err := json.Unmarshal(raw, &o); err != nil {
		return BaselineRights(role)
	}
	return ResolveRights(role, o)
}
