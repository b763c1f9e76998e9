package session

import "househunt/internal/model"

// Page paths the session maps roles to.
const (
	PathLogin      = "/login"
	PathAdminHome  = "/adminhome"
	PathOwnerHome  = "/ownerhome"
	PathRenterHome = "/renterhome"
)

// CurrentRoleHome returns the landing page of role. Every value has a
// destination: anything that is not a known role lands on the login page.
func CurrentRoleHome(role model.Role) string {
	switch role {
	case model.RoleAdmin:
		return PathAdminHome
	case model.RoleOwner:
		return PathOwnerHome
	case model.RoleRenter:
		return PathRenterHome
	default:
		return PathLogin
	}
}

// DefaultRoute is where a device lands when it asks for nothing in
// particular: its role home when authenticated, the login page otherwise.
func DefaultRoute(s Snapshot) string {
	if !s.Authenticated {
		return PathLogin
	}
	return CurrentRoleHome(s.Role())
}
