package models

import "time"

// PlatformSettings is the single "platform" document in the settings collection.
type PlatformSettings struct {
	ID         string             `bson:"id" json:"-"`
	Commission CommissionSettings `bson:"commission" json:"commission"`
	Platform   PlatformFlags      `bson:"platform" json:"platform"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CommissionSettings struct {
	Rate          float64 `bson:"rate" json:"rate"`
	MinimumPayout float64 `bson:"minimumPayout" json:"minimumPayout"`
	PayoutCycle   string  `bson:"payoutCycle" json:"payoutCycle"` // weekly, monthly
}

type PlatformFlags struct {
	MaintenanceMode       bool `bson:"maintenanceMode" json:"maintenanceMode"`
	AllowNewRegistrations bool `bson:"allowNewRegistrations" json:"allowNewRegistrations"`
	MaxBookingsPerUser    int  `bson:"maxBookingsPerUser" json:"maxBookingsPerUser"`
}

const PlatformSettingsID = "platform"

// DefaultPlatformSettings is used until an admin saves the settings document.
func DefaultPlatformSettings() PlatformSettings {
	return PlatformSettings{
		ID: PlatformSettingsID,
		Commission: CommissionSettings{
			Rate:          0.15,
			MinimumPayout: 100,
			PayoutCycle:   "weekly",
		},
		Platform: PlatformFlags{
			MaintenanceMode:       false,
			AllowNewRegistrations: true,
			MaxBookingsPerUser:    10,
		},
	}
}

// SubscriptionPlan is a salon-owner plan in the subscriptionPlans collection.
type SubscriptionPlan struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	Price     float64   `bson:"price" json:"price" binding:"gte=0"`
	Duration  string    `bson:"duration" json:"duration" binding:"required,oneof=monthly yearly"`
	Features  []string  `bson:"features" json:"features"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
