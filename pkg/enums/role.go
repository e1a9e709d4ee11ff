package enums

import "fmt"

// Role identifies the kind of actor requesting an operation. Roles arrive with
// every request; the engine never reads identity from ambient state.
type Role string

const (
	RoleFieldAgent   Role = "field_agent"
	RoleInspector    Role = "inspector"
	RoleOrderManager Role = "order_manager"
	RoleFinanceAdmin Role = "finance_admin"
	RoleAdmin        Role = "admin"
	RoleSuperAdmin   Role = "super_admin"
)

var validRoles = []Role{
	RoleFieldAgent,
	RoleInspector,
	RoleOrderManager,
	RoleFinanceAdmin,
	RoleAdmin,
	RoleSuperAdmin,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsBackOffice reports whether the role may request any order transition.
func (r Role) IsBackOffice() bool {
	switch r {
	case RoleOrderManager, RoleFinanceAdmin, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// ParseRole converts the raw string to Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
