package model

// Role is the access level of a user
type Role string

// Role codes as constants
const (
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
	RoleSystem  Role = "SYSTEM"
)

// RoleInfo describes a role for API listings
type RoleInfo struct {
	Code        Role   `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultRoles defines the roles known to the system
var DefaultRoles = []RoleInfo{
	{
		Code:        RoleSystem,
		Name:        "System",
		Description: "Internal account used for seeding and background changes",
	},
	{
		Code:        RoleAdmin,
		Name:        "Administrator",
		Description: "Full access including user management",
	},
	{
		Code:        RoleManager,
		Name:        "Manager",
		Description: "Can modify any catalog resource",
	},
	{
		Code:        RoleUser,
		Name:        "User",
		Description: "Can only modify catalog resources they created",
	},
}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// BypassesOwnership reports whether the role may modify resources created by others.
func (r Role) BypassesOwnership() bool {
	return r == RoleSystem || r == RoleAdmin || r == RoleManager
}

// CanManageUsers reports whether the role may administer user accounts.
func (r Role) CanManageUsers() bool {
	return r == RoleSystem || r == RoleAdmin
}
