package models

// Role is the principal kind carried in the session token.
type Role string

const (
	RoleUser       Role = "user"
	RoleSalonOwner Role = "salon_owner"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSalonOwner, RoleAdmin:
		return true
	}
	return false
}

// RedirectPath is the landing page for a signed-in principal.
func (r Role) RedirectPath() string {
	switch r {
	case RoleAdmin:
		return "/admin-dashboard"
	case RoleSalonOwner:
		return "/salon-dashboard"
	case RoleUser:
		return "/dashboard"
	default:
		return "/"
	}
}

func (r Role) String() string {
	return string(r)
}
