package wizard

import (
	"fmt"
	"time"

	"salonbook/models"
)

const (
	defaultOpening     = "09:00"
	defaultClosing     = "21:00"
	defaultSlotMinutes = 30
)

// BuildSlots lays the salon's slot grid over a day and marks each start time
// available when the whole appointment fits before closing and does not overlap an
// active booking of the same staff member. On the current day, started slots are closed.
func BuildSlots(salon *models.Salon, staffID, date string, duration int, bookings []models.Booking, now time.Time) ([]models.TimeSlot, error) {
	day, err := time.ParseInLocation(models.DateLayout, date, now.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	openAt, closeAt, step, err := salonHours(salon)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		duration = step
	}

	type span struct{ start, end int }
	var busy []span
	for i := range bookings {
		b := bookings[i]
		if !b.Active() || b.Date != date || (staffID != "" && b.StaffID != staffID) {
			continue
		}
		start, err := b.StartMinute()
		if err != nil {
			continue
		}
		d := b.Duration
		if d <= 0 {
			d = step
		}
		busy = append(busy, span{start, start + d})
	}

	cutoff := -1
	if sameDay(day, now) {
		cutoff = now.Hour()*60 + now.Minute()
	}

	var slots []models.TimeSlot
	for m := openAt; m+step <= closeAt; m += step {
		ok := m+duration <= closeAt && m > cutoff
		for _, s := range busy {
			if !ok {
				break
			}
			if m < s.end && s.start < m+duration {
				ok = false
			}
		}
		slots = append(slots, models.TimeSlot{Time: models.FormatClock(m), Available: ok})
	}
	return slots, nil
}

// IsAvailable reports whether clock is an open slot in the grid.
func IsAvailable(slots []models.TimeSlot, clock string) bool {
	for _, s := range slots {
		if s.Time == clock {
			return s.Available
		}
	}
	return false
}

func salonHours(salon *models.Salon) (openAt, closeAt, step int, err error) {
	openStr, closeStr := salon.OpeningTime, salon.ClosingTime
	if openStr == "" {
		openStr = defaultOpening
	}
	if closeStr == "" {
		closeStr = defaultClosing
	}
	if openAt, err = models.ParseClock(openStr); err != nil {
		return
	}
	if closeAt, err = models.ParseClock(closeStr); err != nil {
		return
	}
	if closeAt <= openAt {
		err = fmt.Errorf("salon %s closes before it opens", salon.ID)
		return
	}
	step = salon.SlotMinutes
	if step <= 0 {
		step = defaultSlotMinutes
	}
	return
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
