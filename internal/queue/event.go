// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCommittedEvent is published when a reservation reaches its committed
// state. It carries enough for downstream consumers to format a confirmation
// message without touching the ledger.
type BookingCommittedEvent struct {
	Supplier    string   `json:"supplier"`
	Recipient   string   `json:"recipient"`
	CC          []string `json:"cc"`
	Date        string   `json:"date"`
	TimeField   string   `json:"time_slot"`
	Packages    int      `json:"packages"`
	Orders      string   `json:"purchase_orders"`
	RowIndex    int      `json:"row_index"`
	CommittedAt string   `json:"committed_at"`
}
