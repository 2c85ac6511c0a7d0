// Package calendar holds the slot algebra: generating the day's grid of
// 30-minute delivery windows and computing which units are still free given
// the bookings already on the ledger. Everything here is pure computation;
// no I/O happens in this package.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/ljbyon/almacen-v3-g/internal/model"
)

// Receiving-dock hours. Weekdays run 09:00 through the 15:30 window,
// Saturdays close after the 11:30 window, Sundays the dock is shut.
const (
	openHour         = 9
	weekdayLastHour  = 15
	saturdayLastHour = 11
)

// Generate enumerates the candidate slots for a date, in order. Mon–Fri yield
// 14 slots (09:00–15:30), Saturday 6 (09:00–11:30) and Sunday none. The date
// must be in YYYY-MM-DD form.
func Generate(date string) ([]model.TimeSlot, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	var lastHour int
	switch day.Weekday() {
	case time.Sunday:
		return []model.TimeSlot{}, nil
	case time.Saturday:
		lastHour = saturdayLastHour
	default:
		lastHour = weekdayLastHour
	}
	slots := make([]model.TimeSlot, 0, (lastHour-openHour+1)*2)
	for h := openHour; h <= lastHour; h++ {
		slots = append(slots, model.TimeSlot{Date: date, Hour: h, Minute: 0})
		slots = append(slots, model.TimeSlot{Date: date, Hour: h, Minute: 30})
	}
	return slots, nil
}

// Next returns the deterministic successor of a slot: :00 rolls to :30 in the
// same hour, :30 rolls to :00 of the next hour. It does not check dock hours;
// Availability only pairs a slot with its successor when both sit in the
// generated grid.
func Next(s model.TimeSlot) model.TimeSlot {
	if s.Minute == 0 {
		return model.TimeSlot{Date: s.Date, Hour: s.Hour, Minute: 30}
	}
	return model.TimeSlot{Date: s.Date, Hour: s.Hour + 1, Minute: 0}
}

// ParseBooked collects the set of occupied slot starts from existing records.
// A record's time field may hold one start or two comma-separated contiguous
// starts; each part is trimmed and normalized to the canonical "H:MM" label.
// Malformed parts are dropped, never fatal — one bad row on the ledger must
// not block the whole calendar.
func ParseBooked(records []model.BookingRecord) map[string]struct{} {
	booked := make(map[string]struct{})
	for _, rec := range records {
		for _, part := range strings.Split(rec.TimeField, ",") {
			h, m, ok := model.ParseClock(part)
			if !ok {
				continue
			}
			booked[model.TimeSlot{Hour: h, Minute: m}.Label()] = struct{}{}
		}
	}
	return booked
}

// Availability computes the ordered free units for a date given the records
// already on the ledger and the delivery's package count. Records for other
// dates are ignored, so callers may pass a whole partition snapshot.
//
// With packages at or above the pair threshold, a unit is a contiguous Pair:
// slot s qualifies only when its successor is also in the generated grid
// (never wrapping past the day's last slot) and neither half is booked.
// Below the threshold every unbooked slot is emitted as a Single.
func Availability(date string, records []model.BookingRecord, packages int) ([]model.SlotUnit, error) {
	grid, err := Generate(date)
	if err != nil {
		return nil, err
	}
	sameDay := make([]model.BookingRecord, 0, len(records))
	for _, rec := range records {
		if rec.Date == date {
			sameDay = append(sameDay, rec)
		}
	}
	booked := ParseBooked(sameDay)
	inGrid := make(map[string]struct{}, len(grid))
	for _, s := range grid {
		inGrid[s.Label()] = struct{}{}
	}

	units := make([]model.SlotUnit, 0, len(grid))
	if packages >= model.PairThreshold {
		for i := 0; i < len(grid)-1; i++ {
			s := grid[i]
			n := Next(s)
			if _, ok := inGrid[n.Label()]; !ok {
				continue
			}
			if _, taken := booked[s.Label()]; taken {
				continue
			}
			if _, taken := booked[n.Label()]; taken {
				continue
			}
			units = append(units, model.Pair(s, n))
		}
		return units, nil
	}
	for _, s := range grid {
		if _, taken := booked[s.Label()]; taken {
			continue
		}
		units = append(units, model.Single(s))
	}
	return units, nil
}

// Contains reports whether the requested unit is present in a computed
// availability sequence. Units match on kind and canonical time encoding.
func Contains(units []model.SlotUnit, want model.SlotUnit) bool {
	for _, u := range units {
		if u.Kind == want.Kind && u.EncodeTime() == want.EncodeTime() {
			return true
		}
	}
	return false
}
