package model

import (
	"encoding/json"
	"strings"
)

// Role is the closed set of account types known to the marketplace.
type Role string

const (
	RoleUnknown Role = ""
	RoleAdmin   Role = "Admin"
	RoleOwner   Role = "Owner"
	RoleRenter  Role = "Renter"
)

var knownRoles = []Role{RoleAdmin, RoleOwner, RoleRenter}

// ParseRole matches s case-insensitively against the known roles.
// Unknown values yield RoleUnknown and false.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range knownRoles {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return RoleUnknown, false
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleRenter:
		return true
	}
	return false
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// UnmarshalJSON is the single normalisation point for roles coming from the
// API or from device storage.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// non-string values are treated as an unknown role, not a decode failure
		*r = RoleUnknown
		return nil
	}
	*r, _ = ParseRole(s)
	return nil
}
