package salon

import (
	"fmt"
	"strings"

	"salonbook/models"
)

const (
	defaultOpening     = "09:00"
	defaultClosing     = "21:00"
	defaultSlotMinutes = 30
)

type SalonRequest struct {
	Name        string               `json:"name" binding:"required"`
	Description string               `json:"description"`
	Address     string               `json:"address" binding:"required"`
	City        string               `json:"city" binding:"required"`
	Phone       string               `json:"phone"`
	Services    []models.ServiceItem `json:"services" binding:"dive"`
	Staff       []models.Staff       `json:"staff" binding:"dive"`
	OpeningTime string               `json:"openingTime" binding:"omitempty,hhmm"`
	ClosingTime string               `json:"closingTime" binding:"omitempty,hhmm"`
	SlotMinutes int                  `json:"slotMinutes" binding:"omitempty,gt=0"`
}

// apply copies the request onto s, filling schedule defaults.
func (r SalonRequest) apply(s *models.Salon) {
	s.Name = strings.TrimSpace(r.Name)
	s.Description = r.Description
	s.Address = r.Address
	s.City = strings.TrimSpace(r.City)
	s.Phone = r.Phone
	s.Services = r.Services
	s.Staff = r.Staff
	s.OpeningTime = r.OpeningTime
	s.ClosingTime = r.ClosingTime
	s.SlotMinutes = r.SlotMinutes
	if s.Services == nil {
		s.Services = []models.ServiceItem{}
	}
	if s.Staff == nil {
		s.Staff = []models.Staff{}
	}
	if s.OpeningTime == "" {
		s.OpeningTime = defaultOpening
	}
	if s.ClosingTime == "" {
		s.ClosingTime = defaultClosing
	}
	if s.SlotMinutes == 0 {
		s.SlotMinutes = defaultSlotMinutes
	}
}

// Validate checks catalogue and schedule consistency. It returns *ValidationError.
func Validate(s *models.Salon) error {
	var problems []string
	if s.Name == "" {
		problems = append(problems, "name is required")
	}

	seen := map[string]bool{}
	for _, svc := range s.Services {
		switch {
		case svc.ID == "":
			problems = append(problems, "service id is required")
		case seen[svc.ID]:
			problems = append(problems, fmt.Sprintf("duplicate service id %q", svc.ID))
		}
		seen[svc.ID] = true
		if svc.Price < 0 {
			problems = append(problems, fmt.Sprintf("service %q has a negative price", svc.ID))
		}
		if svc.DiscountedPrice != nil && (*svc.DiscountedPrice < 0 || *svc.DiscountedPrice > svc.Price) {
			problems = append(problems, fmt.Sprintf("service %q discounted price must be between 0 and the price", svc.ID))
		}
		if svc.Duration <= 0 {
			problems = append(problems, fmt.Sprintf("service %q needs a positive duration", svc.ID))
		}
	}

	staffSeen := map[string]bool{}
	for _, st := range s.Staff {
		switch {
		case st.ID == "":
			problems = append(problems, "staff id is required")
		case staffSeen[st.ID]:
			problems = append(problems, fmt.Sprintf("duplicate staff id %q", st.ID))
		}
		staffSeen[st.ID] = true
	}

	openAt, errOpen := models.ParseClock(s.OpeningTime)
	closeAt, errClose := models.ParseClock(s.ClosingTime)
	switch {
	case errOpen != nil || errClose != nil:
		problems = append(problems, "opening and closing times must be HH:MM")
	case openAt >= closeAt:
		problems = append(problems, "closing time must be after opening time")
	}
	if s.SlotMinutes <= 0 {
		problems = append(problems, "slot minutes must be positive")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// CompatibleStaff lists staff able to perform every category of the chosen services.
func CompatibleStaff(s *models.Salon, serviceIDs []string) []models.Staff {
	var categories []string
	for _, id := range serviceIDs {
		if svc, ok := s.FindService(id); ok {
			categories = append(categories, svc.Category)
		}
	}
	out := []models.Staff{}
	for _, st := range s.Staff {
		if st.CanPerform(categories) {
			out = append(out, st)
		}
	}
	return out
}
