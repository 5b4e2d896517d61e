package domain

// User is a reference entity owned entirely by the tracker; the board only
// ever resolves ids to display labels.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DisplayName picks the first non-empty label in the name/username/email
// fallback chain, ending at the raw id.
func (u *User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}
