package models

import "time"

// User represents a customer (or a promoted admin) account in the users collection.
type User struct {
	ID             string         `bson:"id" json:"id"`
	Email          string         `bson:"email" json:"email"`
	PasswordHash   string         `bson:"passwordHash" json:"-"`
	Role           Role           `bson:"role" json:"role"`
	Profile        Profile        `bson:"profile" json:"profile"`
	Wallet         Wallet         `bson:"wallet" json:"wallet"`
	LoyaltyPoints  int            `bson:"loyaltyPoints" json:"loyaltyPoints"`
	MembershipTier string         `bson:"membershipTier" json:"membershipTier"`
	BookingHistory BookingHistory `bson:"bookingHistory" json:"bookingHistory"`
	FCMToken       string         `bson:"fcmToken,omitempty" json:"-"`
	IsActive       bool           `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

type Profile struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Phone     string `bson:"phone" json:"phone"`
	Avatar    string `bson:"avatar" json:"avatar"`
}

// Wallet is the stored-value balance. It is only mutated by recorded transactions.
type Wallet struct {
	Balance  float64 `bson:"balance" json:"balance"`
	Currency string  `bson:"currency" json:"currency"`
}

type BookingHistory struct {
	TotalBookings     int     `bson:"totalBookings" json:"totalBookings"`
	CompletedBookings int     `bson:"completedBookings" json:"completedBookings"`
	CancelledBookings int     `bson:"cancelledBookings" json:"cancelledBookings"`
	TotalSpent        float64 `bson:"totalSpent" json:"totalSpent"`
}

const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// TierForPoints maps loyalty points to a membership tier.
func TierForPoints(points int) string {
	switch {
	case points >= 1000:
		return TierPlatinum
	case points >= 500:
		return TierGold
	case points >= 200:
		return TierSilver
	default:
		return TierBronze
	}
}
