package model

// User is a marketplace account as served by the HouseHunt API.
type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"type"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

// Valid reports whether the user is usable as a session identity.
func (u *User) Valid() bool {
	return u != nil && u.ID != "" && u.Role.Valid()
}
