package session

import "slices"

// Role is a coarse-grained permission class controlling which console
// areas a user may reach. The values are the literal role names the
// backing API uses, so they round-trip through storage unchanged.
type Role string

const (
	RoleAdministrator Role = "Administrador"
	RoleSupervisor    Role = "Supervisor"
	RoleStandard      Role = "Usuario"
	RoleClient        Role = "Cliente"
)

// RoleForProfile maps a server-side profile id to a Role. Unknown
// profile ids fall back to the standard user role rather than failing,
// matching the server's own defaulting behaviour.
func RoleForProfile(profileID int) Role {
	switch profileID {
	case 1:
		return RoleAdministrator
	case 2:
		return RoleSupervisor
	case 3:
		return RoleStandard
	case 4:
		return RoleClient
	default:
		return RoleStandard
	}
}

// RoleIn reports whether role is a member of candidates.
func RoleIn(role Role, candidates []Role) bool {
	return slices.Contains(candidates, role)
}

// CurrentUser is the authenticated user record derived once at login
// from the server's user payload and persisted alongside the token.
type CurrentUser struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	ProfileID   int    `json:"profile_id"`
	Role        Role   `json:"role"`
	Active      bool   `json:"active"`
	FirstLogin  bool   `json:"first_login"`
}
