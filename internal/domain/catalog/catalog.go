// Package catalog defines the clinic's fixed daily template of bookable
// time slots. The catalog is a pure function of the calendar date: it knows
// nothing about doctors or existing bookings.
package catalog

import (
	"fmt"
	"time"
)

const (
	// ClosureDay is the weekly day the clinic is closed entirely.
	ClosureDay = time.Sunday
	// ReducedEmergencyDay is the weekly day with no emergency slots.
	ReducedEmergencyDay = time.Saturday

	slotIntervalMinutes = 30
)

// TimeSlot is one bookable unit of time. Time is HH:MM, 24-hour.
type TimeSlot struct {
	ID          string `json:"id"`
	Time        string `json:"time"`
	IsEmergency bool   `json:"is_emergency"`
}

// Morning reports whether the slot falls before noon. Used for display
// grouping only, never for business rules.
func (s TimeSlot) Morning() bool {
	var h, m int
	if _, err := fmt.Sscanf(s.Time, "%d:%d", &h, &m); err != nil {
		return false
	}
	return h < 12
}

var (
	morningSlots   = slotRun(9, 0, 11, 30)
	afternoonSlots = slotRun(14, 0, 17, 30)
	emergencySlots = []TimeSlot{
		{ID: "12:00", Time: "12:00", IsEmergency: true},
		{ID: "18:00", Time: "18:00", IsEmergency: true},
	}
)

// slotRun generates regular slots from start to end inclusive at the fixed
// interval.
func slotRun(startHour, startMin, endHour, endMin int) []TimeSlot {
	var slots []TimeSlot
	h, m := startHour, startMin
	for h < endHour || (h == endHour && m <= endMin) {
		t := fmt.Sprintf("%02d:%02d", h, m)
		slots = append(slots, TimeSlot{ID: t, Time: t})
		m += slotIntervalMinutes
		if m >= 60 {
			h++
			m -= 60
		}
	}
	return slots
}

// IsClosed reports whether the clinic is closed on the given date.
func IsClosed(date time.Time) bool {
	return date.Weekday() == ClosureDay
}

// SlotsFor returns the ordered slot template for a calendar date.
// On the weekly closure day the result is empty, no exceptions. Regular
// slots come first in time order; emergency slots are appended on every
// open day except the reduced-emergency day.
func SlotsFor(date time.Time) []TimeSlot {
	if IsClosed(date) {
		return nil
	}

	slots := make([]TimeSlot, 0, len(morningSlots)+len(afternoonSlots)+len(emergencySlots))
	slots = append(slots, morningSlots...)
	slots = append(slots, afternoonSlots...)
	if date.Weekday() != ReducedEmergencyDay {
		slots = append(slots, emergencySlots...)
	}
	return slots
}

// Find locates a slot by its HH:MM time within the template for the given
// date. The second return value is false when the time is not a valid slot
// for that date (including every time on the closure day).
func Find(date time.Time, slotTime string) (TimeSlot, bool) {
	for _, s := range SlotsFor(date) {
		if s.Time == slotTime {
			return s, true
		}
	}
	return TimeSlot{}, false
}
