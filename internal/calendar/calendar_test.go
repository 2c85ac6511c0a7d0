package calendar

import (
	"testing"

	"github.com/ljbyon/almacen-v3-g/internal/model"
)

// 2025-06-02 is a Monday, 2025-06-07 a Saturday, 2025-06-08 a Sunday.
const (
	monday   = "2025-06-02"
	saturday = "2025-06-07"
	sunday   = "2025-06-08"
)

func record(date, timeField string) model.BookingRecord {
	return model.BookingRecord{Date: date, TimeField: timeField, Supplier: "acme", Packages: 1, Orders: "PO-1"}
}

func TestGenerateWeekday(t *testing.T) {
	slots, err := Generate(monday)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(slots) != 14 {
		t.Fatalf("weekday slot count = %d, want 14", len(slots))
	}
	if got := slots[0].Label(); got != "9:00" {
		t.Errorf("first slot = %s, want 9:00", got)
	}
	if got := slots[len(slots)-1].Label(); got != "15:30" {
		t.Errorf("last slot = %s, want 15:30", got)
	}
	for i := 1; i < len(slots); i++ {
		if Next(slots[i-1]) != slots[i] {
			t.Errorf("slot %d (%s) is not the successor of %s", i, slots[i].Label(), slots[i-1].Label())
		}
	}
}

func TestGenerateSaturday(t *testing.T) {
	slots, err := Generate(saturday)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("saturday slot count = %d, want 6", len(slots))
	}
	if got := slots[len(slots)-1].Label(); got != "11:30" {
		t.Errorf("last saturday slot = %s, want 11:30", got)
	}
}

func TestGenerateSunday(t *testing.T) {
	slots, err := Generate(sunday)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("sunday slot count = %d, want 0", len(slots))
	}
}

func TestGenerateRejectsBadDate(t *testing.T) {
	if _, err := Generate("06/02/2025"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}

func TestNext(t *testing.T) {
	cases := []struct {
		in, want model.TimeSlot
	}{
		{model.TimeSlot{Hour: 9, Minute: 0}, model.TimeSlot{Hour: 9, Minute: 30}},
		{model.TimeSlot{Hour: 9, Minute: 30}, model.TimeSlot{Hour: 10, Minute: 0}},
		{model.TimeSlot{Hour: 15, Minute: 30}, model.TimeSlot{Hour: 16, Minute: 0}},
	}
	for _, tc := range cases {
		if got := Next(tc.in); got != tc.want {
			t.Errorf("Next(%s) = %s, want %s", tc.in.Label(), got.Label(), tc.want.Label())
		}
	}
}

func TestParseBooked(t *testing.T) {
	booked := ParseBooked([]model.BookingRecord{record(monday, "9:00:00, 9:30:00")})
	if len(booked) != 2 {
		t.Fatalf("booked set size = %d, want 2", len(booked))
	}
	for _, want := range []string{"9:00", "9:30"} {
		if _, ok := booked[want]; !ok {
			t.Errorf("booked set missing %s", want)
		}
	}
}

func TestParseBookedToleratesVariants(t *testing.T) {
	records := []model.BookingRecord{
		record(monday, "09:00"),       // zero-padded hour
		record(monday, " 10.30 "),     // dot separator, whitespace
		record(monday, "11:00:15"),    // seconds suffix
		record(monday, "not-a-time"),  // dropped
		record(monday, "12:00, junk"), // good half kept, bad half dropped
	}
	booked := ParseBooked(records)
	for _, want := range []string{"9:00", "10:30", "11:00", "12:00"} {
		if _, ok := booked[want]; !ok {
			t.Errorf("booked set missing %s", want)
		}
	}
	if len(booked) != 4 {
		t.Errorf("booked set size = %d, want 4", len(booked))
	}
}

func TestAvailabilitySingles(t *testing.T) {
	records := []model.BookingRecord{record(monday, "9:00, 9:30")}
	units, err := Availability(monday, records, 1)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if len(units) != 12 {
		t.Fatalf("free singles = %d, want 12", len(units))
	}
	for _, u := range units {
		if u.Kind != model.SingleSlot {
			t.Fatalf("unexpected unit kind %s", u.Kind)
		}
		if l := u.First.Label(); l == "9:00" || l == "9:30" {
			t.Errorf("booked slot %s offered as available", l)
		}
	}
	if !Contains(units, model.Single(model.TimeSlot{Date: monday, Hour: 10, Minute: 0})) {
		t.Error("10:00 should be available")
	}
}

func TestAvailabilityPairsAreContiguous(t *testing.T) {
	units, err := Availability(monday, nil, 5)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	// 14 slots -> 13 adjacent pairs on an empty day.
	if len(units) != 13 {
		t.Fatalf("free pairs = %d, want 13", len(units))
	}
	for _, u := range units {
		if u.Kind != model.PairSlot {
			t.Fatalf("unexpected unit kind %s", u.Kind)
		}
		if Next(u.First) != u.Second {
			t.Errorf("pair %s is not contiguous", u.EncodeTime())
		}
	}
}

func TestAvailabilityPairExcludesHalfBooked(t *testing.T) {
	records := []model.BookingRecord{record(monday, "9:30")}
	units, err := Availability(monday, records, 5)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	nine := model.TimeSlot{Date: monday, Hour: 9, Minute: 0}
	ten := model.TimeSlot{Date: monday, Hour: 10, Minute: 0}
	if Contains(units, model.Pair(nine, Next(nine))) {
		t.Error("pair starting 9:00 offered although 9:30 is booked")
	}
	if !Contains(units, model.Pair(ten, Next(ten))) {
		t.Error("pair starting 10:00 should be available")
	}
}

func TestAvailabilityPairNeverWrapsPastLastSlot(t *testing.T) {
	units, err := Availability(saturday, nil, 5)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	last := model.TimeSlot{Date: saturday, Hour: 11, Minute: 30}
	for _, u := range units {
		if u.First == last {
			t.Errorf("pair starting at the day's last slot emitted: %s", u.EncodeTime())
		}
	}
	// 6 slots -> 5 pairs.
	if len(units) != 5 {
		t.Fatalf("saturday pairs = %d, want 5", len(units))
	}
}

func TestAvailabilityIgnoresOtherDates(t *testing.T) {
	records := []model.BookingRecord{record("2025-06-03", "9:00")}
	units, err := Availability(monday, records, 1)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if !Contains(units, model.Single(model.TimeSlot{Date: monday, Hour: 9, Minute: 0})) {
		t.Error("a booking on another date blocked 9:00")
	}
}
