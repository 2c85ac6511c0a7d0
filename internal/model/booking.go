package model

import (
	"strconv"
	"strings"
)

// BookingPartition is the ledger partition (logical table) holding booking
// rows. CredentialPartition holds supplier login rows. Both are created
// idempotently at startup.
const (
	BookingPartition    = "bookings"
	CredentialPartition = "credentials"
)

// BookingHeaders is the column layout of the bookings partition. Row codecs
// below depend on this order.
var BookingHeaders = []string{"date", "time_slot", "supplier", "packages", "purchase_orders"}

// BookingRequest is what a supplier submits to reserve a unit. PurchaseOrders
// must be non-empty; the package count decides whether a single or a paired
// slot is needed.
type BookingRequest struct {
	Supplier       string   // authenticated supplier name
	Date           string   // delivery date, YYYY-MM-DD
	Packages       int      // number of packages to deliver
	PurchaseOrders []string // purchase-order references, at least one
}

// Unit returns the kind of slot unit the request needs.
func (r BookingRequest) Unit() SlotUnitKind {
	if r.Packages >= PairThreshold {
		return PairSlot
	}
	return SingleSlot
}

// BookingRecord is the canonical persisted form of one reservation. Records
// are append-only: the ledger is never edited or deleted from by this system.
//
// Fields:
//
//	Date      – delivery date, YYYY-MM-DD.
//	TimeField – one slot start, or two comma-separated contiguous starts.
//	Supplier  – supplier name.
//	Packages  – package count.
//	Orders    – purchase-order references joined with ", ".
type BookingRecord struct {
	Date      string
	TimeField string
	Supplier  string
	Packages  int
	Orders    string
}

// ComposeBookingRecord builds the canonical record for a request and the slot
// unit it is claiming.
func ComposeBookingRecord(req BookingRequest, unit SlotUnit) BookingRecord {
	return BookingRecord{
		Date:      req.Date,
		TimeField: unit.EncodeTime(),
		Supplier:  req.Supplier,
		Packages:  req.Packages,
		Orders:    strings.Join(req.PurchaseOrders, ", "),
	}
}

// Row encodes the record as a ledger row in BookingHeaders order.
func (b BookingRecord) Row() []string {
	return []string{b.Date, b.TimeField, b.Supplier, strconv.Itoa(b.Packages), b.Orders}
}

// BookingRecordFromRow decodes a ledger row. Rows that are too short or carry
// a non-numeric package count are reported as not ok and skipped by callers;
// a malformed row must never abort a whole snapshot scan.
func BookingRecordFromRow(row []string) (BookingRecord, bool) {
	if len(row) < 5 {
		return BookingRecord{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return BookingRecord{}, false
	}
	return BookingRecord{
		Date:      strings.TrimSpace(row[0]),
		TimeField: strings.TrimSpace(row[1]),
		Supplier:  strings.TrimSpace(row[2]),
		Packages:  n,
		Orders:    strings.TrimSpace(row[4]),
	}, true
}

// Matches reports whether two records agree on every persisted field. The
// verification probe uses this for its exact-match tail scan.
func (b BookingRecord) Matches(o BookingRecord) bool {
	return b.Date == o.Date &&
		b.TimeField == o.TimeField &&
		b.Supplier == o.Supplier &&
		b.Packages == o.Packages &&
		b.Orders == o.Orders
}
