package auth

import (
	"time"

	"salonbook/models"
)

// Session is the authenticated principal for one request. It is created from a verified
// token by the auth middleware and passed explicitly to the services that need it.
type Session struct {
	UserID    string      `json:"userId"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	SalonIDs  []string    `json:"salonIds,omitempty"`
	TokenHash string      `json:"-"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (s *Session) IsAdmin() bool { return s != nil && s.Role == models.RoleAdmin }

// ManagesSalon reports whether the principal may act as staff for the salon.
func (s *Session) ManagesSalon(salonID string) bool {
	if s == nil {
		return false
	}
	if s.Role == models.RoleAdmin {
		return true
	}
	if s.Role != models.RoleSalonOwner {
		return false
	}
	for _, id := range s.SalonIDs {
		if id == salonID {
			return true
		}
	}
	return false
}

// RedirectPath is where the client lands after sign-in.
func (s *Session) RedirectPath() string {
	return s.Role.RedirectPath()
}
