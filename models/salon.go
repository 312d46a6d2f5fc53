package models

import "time"

// Salon is a bookable venue with its catalogue and staff.
type Salon struct {
	ID          string        `bson:"id" json:"id"`
	OwnerID     string        `bson:"ownerId" json:"ownerId"`
	Name        string        `bson:"name" json:"name" binding:"required"`
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	Address     string        `bson:"address" json:"address"`
	City        string        `bson:"city" json:"city"`
	Phone       string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Services    []ServiceItem `bson:"services" json:"services"`
	Staff       []Staff       `bson:"staff" json:"staff"`
	Images      []SalonImage  `bson:"images" json:"images"`
	OpeningTime string        `bson:"openingTime" json:"openingTime"` // "HH:MM"
	ClosingTime string        `bson:"closingTime" json:"closingTime"` // "HH:MM"
	SlotMinutes int           `bson:"slotMinutes" json:"slotMinutes"`
	Rating      float64       `bson:"rating" json:"rating"`
	IsActive    bool          `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

type SalonImage struct {
	PublicID string `bson:"publicId" json:"publicId"`
	URL      string `bson:"url" json:"url"`
}

// FindService returns the catalogue entry with the given id.
func (s *Salon) FindService(id string) (ServiceItem, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return ServiceItem{}, false
}

// FindStaff returns the staff member with the given id.
func (s *Salon) FindStaff(id string) (Staff, bool) {
	for _, st := range s.Staff {
		if st.ID == id {
			return st, true
		}
	}
	return Staff{}, false
}
