package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PairThreshold is the package count at or above which a delivery needs a
// double slot. Smaller deliveries fit in a single 30-minute window.
const PairThreshold = 5

// TimeSlot is one 30-minute delivery window on a given date. Its identity is
// the (Date, Hour, Minute) triple; two TimeSlot values are the same slot
// exactly when they compare equal.
//
// Fields:
//
//	Date   – delivery date in "2006-01-02" form.
//	Hour   – start hour, 24h clock.
//	Minute – start minute, always 0 or 30.
type TimeSlot struct {
	Date   string // delivery date, YYYY-MM-DD
	Hour   int    // start hour (24h)
	Minute int    // start minute, 0 or 30
}

// Label renders the slot start in the canonical ledger form: hour unpadded,
// minute zero-padded (e.g. "9:00", "15:30").
func (s TimeSlot) Label() string {
	return fmt.Sprintf("%d:%02d", s.Hour, s.Minute)
}

// ParseClock normalizes a raw clock string into an hour and minute. It
// tolerates the variants seen in ledger rows: zero-padded hours ("09:00"),
// trailing seconds ("9:00:00"), surrounding whitespace and a "." separator
// ("9.30"). Returns ok=false for anything it cannot read as a clock time.
func ParseClock(raw string) (hour, minute int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, 0, false
	}
	s = strings.ReplaceAll(s, ".", ":")
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	// parts[2:], if present, is a seconds suffix and is ignored.
	return h, m, true
}

// SlotUnitKind tags the two shapes a reservation unit can take.
type SlotUnitKind string

const (
	// SingleSlot is one 30-minute window (package count below PairThreshold).
	SingleSlot SlotUnitKind = "SINGLE"
	// PairSlot is two contiguous windows reserved together. A pair is
	// indivisible: both halves commit together or not at all.
	PairSlot SlotUnitKind = "PAIR"
)

// SlotUnit is the atomic unit of one reservation: either a Single slot or a
// contiguous Pair. Second is meaningful only when Kind is PairSlot.
type SlotUnit struct {
	Kind   SlotUnitKind
	First  TimeSlot
	Second TimeSlot // set only for PairSlot; exactly 30 minutes after First
}

// Single wraps one slot as a reservation unit.
func Single(s TimeSlot) SlotUnit {
	return SlotUnit{Kind: SingleSlot, First: s}
}

// Pair wraps two contiguous slots as one indivisible reservation unit. The
// caller is responsible for b being the direct successor of a.
func Pair(a, b TimeSlot) SlotUnit {
	return SlotUnit{Kind: PairSlot, First: a, Second: b}
}

// Slots returns the one or two windows covered by the unit, in order.
func (u SlotUnit) Slots() []TimeSlot {
	if u.Kind == PairSlot {
		return []TimeSlot{u.First, u.Second}
	}
	return []TimeSlot{u.First}
}

// EncodeTime renders the unit's time field in the canonical ledger encoding:
// a single start label, or both labels comma-separated for a pair.
func (u SlotUnit) EncodeTime() string {
	if u.Kind == PairSlot {
		return u.First.Label() + ", " + u.Second.Label()
	}
	return u.First.Label()
}

// ParseSlotUnit is the inverse of EncodeTime. It decodes a ledger time field
// into a SlotUnit for the given date, accepting the same clock variants as
// ParseClock. EncodeTime(ParseSlotUnit(date, x)) round-trips any well-formed x
// back to its canonical form.
func ParseSlotUnit(date, field string) (SlotUnit, error) {
	parts := strings.Split(field, ",")
	slots := make([]TimeSlot, 0, 2)
	for _, p := range parts {
		h, m, ok := ParseClock(p)
		if !ok {
			return SlotUnit{}, fmt.Errorf("malformed time field %q", field)
		}
		slots = append(slots, TimeSlot{Date: date, Hour: h, Minute: m})
	}
	switch len(slots) {
	case 1:
		return Single(slots[0]), nil
	case 2:
		return Pair(slots[0], slots[1]), nil
	default:
		return SlotUnit{}, fmt.Errorf("time field %q holds %d slots, want 1 or 2", field, len(slots))
	}
}
