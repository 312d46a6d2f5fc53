package models

// ServiceItem is one bookable salon service. Bookings keep a copy so the price at the
// time of booking is frozen.
type ServiceItem struct {
	ID              string   `bson:"id" json:"id" binding:"required"`
	Name            string   `bson:"name" json:"name" binding:"required"`
	Price           float64  `bson:"price" json:"price" binding:"gte=0"`
	DiscountedPrice *float64 `bson:"discountedPrice,omitempty" json:"discountedPrice,omitempty"`
	Duration        int      `bson:"duration" json:"duration" binding:"gt=0"` // minutes
	Category        string   `bson:"category" json:"category" binding:"required"`
}

// EffectivePrice is the discounted price when one is set, otherwise the base price.
func (s ServiceItem) EffectivePrice() float64 {
	if s.DiscountedPrice != nil {
		return *s.DiscountedPrice
	}
	return s.Price
}

// Staff is a stylist working at a salon.
type Staff struct {
	ID              string   `bson:"id" json:"id" binding:"required"`
	Name            string   `bson:"name" json:"name" binding:"required"`
	Specializations []string `bson:"specializations" json:"specializations"`
	Rating          float64  `bson:"rating,omitempty" json:"rating,omitempty"`
}

// CanPerform reports whether the staff member covers every given category.
func (s Staff) CanPerform(categories []string) bool {
	skills := make(map[string]struct{}, len(s.Specializations))
	for _, sp := range s.Specializations {
		skills[sp] = struct{}{}
	}
	for _, c := range categories {
		if _, ok := skills[c]; !ok {
			return false
		}
	}
	return true
}
