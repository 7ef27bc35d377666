package domain

import (
	"fmt"
	"time"
)

// Slot is a candidate time range on one calendar day.
type Slot struct {
	Date  string
	Start string
	End   string
}

func (s Slot) minutes() (int, int, error) {
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return 0, 0, fmt.Errorf("invalid date %q", s.Date)
	}
	start, err := clockMinutes(s.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err := clockMinutes(s.End)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func clockMinutes(raw string) (int, error) {
	t, err := time.Parse(ClockLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps applies the half-open [start, end) test used for conflicts:
// touching boundaries do not overlap.
func Overlaps(newStart, newEnd, start, end int) bool {
	return (newStart >= start && newStart < end) ||
		(newEnd > start && newEnd <= end) ||
		(newStart <= start && newEnd >= end)
}

// FindConflict returns the first active session, in store order, that shares
// the slot's date and overlaps it. excludeID skips the session being edited.
func (ss Sessions) FindConflict(slot Slot, excludeID string) (StudySession, bool, error) {
	newStart, newEnd, err := slot.minutes()
	if err != nil {
		return StudySession{}, false, err
	}
	for _, s := range ss {
		if s.ID == excludeID || s.Status != StatusActive {
			continue
		}
		if s.StartDate.Date() != slot.Date {
			continue
		}
		start := s.StartDate.Hour()*60 + s.StartDate.Minute()
		end := s.EndDate.Hour()*60 + s.EndDate.Minute()
		if Overlaps(newStart, newEnd, start, end) {
			return s.Clone(), true, nil
		}
	}
	return StudySession{}, false, nil
}
