package models

import "time"

// BookingSession is the wizard state kept in redis between steps.
type BookingSession struct {
	SessionID       string        `json:"sessionId"`
	UserID          string        `json:"userId"`
	SalonID         string        `json:"salonId"`
	Stage           int           `json:"stage"`
	Services        []ServiceItem `json:"services"`
	StaffID         string        `json:"staffId,omitempty"`
	Date            string        `json:"date,omitempty"`
	Time            string        `json:"time,omitempty"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// TimeSlot is one entry of the availability grid.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
