package models

import "time"

// SalonOwner is an account in the salonOwners collection.
type SalonOwner struct {
	ID             string       `bson:"id" json:"id"`
	Email          string       `bson:"email" json:"email"`
	PasswordHash   string       `bson:"passwordHash" json:"-"`
	Role           Role         `bson:"role" json:"role"`
	Profile        Profile      `bson:"profile" json:"profile"`
	BusinessInfo   BusinessInfo `bson:"businessInfo" json:"businessInfo"`
	SalonIDs       []string     `bson:"salonIds" json:"salonIds"`
	Earnings       Earnings     `bson:"earnings" json:"earnings"`
	ApprovalStatus string       `bson:"approvalStatus" json:"approvalStatus"`
	FCMToken       string       `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt      time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updatedAt" json:"updatedAt"`
}

type BusinessInfo struct {
	BusinessName string `bson:"businessName" json:"businessName"`
	GSTNumber    string `bson:"gstNumber,omitempty" json:"gstNumber,omitempty"`
}

// Earnings holds the owner's commission override. A zero rate means the platform rate applies.
type Earnings struct {
	CommissionRate float64    `bson:"commissionRate" json:"commissionRate"`
	LastPayoutDate *time.Time `bson:"lastPayoutDate,omitempty" json:"lastPayoutDate,omitempty"`
}

// OwnsSalon reports whether the salon id is in the owner's portfolio.
func (o *SalonOwner) OwnsSalon(salonID string) bool {
	for _, id := range o.SalonIDs {
		if id == salonID {
			return true
		}
	}
	return false
}
