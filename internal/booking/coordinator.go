// Package booking implements the optimistic reserve-and-verify protocol at
// the heart of the system. The backing ledger offers only append and read —
// no transactions, no compare-and-swap, no read-your-writes — so exclusivity
// of a slot is a best-effort property earned through protocol discipline:
// re-read immediately before writing, write then poll rather than trusting
// the append ack, and bound every retry with an attempt budget and backoff.
package booking

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ljbyon/almacen-v3-g/internal/cache"
	"github.com/ljbyon/almacen-v3-g/internal/calendar"
	"github.com/ljbyon/almacen-v3-g/internal/ledger"
	"github.com/ljbyon/almacen-v3-g/internal/model"
)

// Config carries the protocol budgets. Every value is settable from the
// environment; the defaults mirror the production deployment (ten-second
// settle, ten verify attempts, ten save attempts, one-second backoff unit).
type Config struct {
	SettleInterval time.Duration // pause between append and first verify read
	VerifyAttempts int           // probe attempt budget per write cycle
	SaveAttempts   int           // full write→settle→verify cycle budget
	BackoffUnit    time.Duration // base unit for linear backoff between cycles
}

// DefaultConfig returns the production budget values.
func DefaultConfig() Config {
	return Config{
		SettleInterval: 10 * time.Second,
		VerifyAttempts: 10,
		SaveAttempts:   10,
		BackoffUnit:    time.Second,
	}
}

// Coordinator orchestrates one reservation attempt end to end. It is the only
// writer in the system; everything else reads. Multiple coordinators may run
// concurrently in separate processes against the same ledger, which is why no
// in-process lock appears here — one would promise nothing.
type Coordinator struct {
	store ledger.Store
	snap  *cache.Snapshot
	probe *Probe
	clock Clock
	cfg   Config
}

// NewCoordinator wires a coordinator. snap must be the same snapshot cache
// the read side serves availability from, so that invalidation here is
// visible there.
func NewCoordinator(store ledger.Store, snap *cache.Snapshot, probe *Probe, clock Clock, cfg Config) *Coordinator {
	if cfg.VerifyAttempts <= 0 {
		cfg.VerifyAttempts = 10
	}
	if cfg.SaveAttempts <= 0 {
		cfg.SaveAttempts = 10
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = time.Second
	}
	return &Coordinator{store: store, snap: snap, probe: probe, clock: clock, cfg: cfg}
}

// flowState names the stations of one reservation flow. The flow always runs
// to a terminal state once started; there is no cancellation path, because a
// supplier abandoning the page must not leave a half-claimed pair behind.
type flowState int

const (
	stateAvailabilityCheck flowState = iota
	stateCompose
	stateWrite
	stateSettle
	stateVerify
	stateRetryWrite
	stateCommitted
	stateFailed
)

// Reserve runs one reservation attempt to a terminal state.
//
// A nil error with Outcome.State == Committed means the row was appended and
// read back from the ledger. ErrSlotTaken means the fresh availability check
// found the unit occupied and nothing was written. Validation problems are
// returned as plain errors. Every other ending is a Failed outcome carrying
// one of the stable outcome codes.
//
// The exclusivity guarantee is soft: when reads reflect all prior writes by
// the time the availability check runs, at most one of two racing
// coordinators for the same unit commits. Without a conditional write in the
// substrate there is no hard guarantee, and none is claimed.
func (c *Coordinator) Reserve(ctx context.Context, req model.BookingRequest, unit model.SlotUnit) (Outcome, error) {
	if err := validate(req, unit); err != nil {
		return Outcome{}, err
	}

	var (
		rec      model.BookingRecord
		baseline int
		rows     [][]string
		writeErr error // append error of the current cycle, nil when accepted
		attempt  int
		found    bool
		rowIdx   int
	)

	for st := stateAvailabilityCheck; ; {
		switch st {
		case stateAvailabilityCheck:
			// Correctness, not performance: the memoized snapshot must not
			// satisfy this read, so drop it and fetch straight through.
			c.snap.Invalidate(ctx, model.BookingPartition)
			var err error
			rows, err = c.snap.GetOrFetch(ctx, model.BookingPartition)
			if err != nil {
				log.Printf("booking: snapshot load failed: %v", err)
				return failure(CodeConnection, "the booking calendar could not be loaded, please resubmit"), nil
			}
			units, err := calendar.Availability(req.Date, decodeRecords(rows), req.Packages)
			if err != nil {
				return Outcome{}, err
			}
			if !calendar.Contains(units, unit) {
				return Outcome{}, ErrSlotTaken
			}
			st = stateCompose

		case stateCompose:
			rec = model.ComposeBookingRecord(req, unit)
			// Diagnostic baseline only; no correctness decision reads it.
			baseline = len(rows)
			log.Printf("booking: %s reserving %s %s (baseline %d rows)",
				req.Supplier, req.Date, unit.EncodeTime(), baseline)
			attempt = 0
			st = stateWrite

		case stateWrite:
			attempt++
			writeErr = c.store.Append(ctx, model.BookingPartition, rec.Row())
			if writeErr != nil {
				// The row may have landed anyway; settle and verify before
				// deciding whether this cycle failed.
				log.Printf("booking: append attempt %d/%d failed: %v", attempt, c.cfg.SaveAttempts, writeErr)
			}
			st = stateSettle

		case stateSettle:
			// Give the store's read path time to converge with its write
			// path before the first verify read.
			c.clock.Sleep(c.cfg.SettleInterval)
			st = stateVerify

		case stateVerify:
			found, rowIdx = c.probe.Verify(ctx, rec, c.cfg.VerifyAttempts)
			if found {
				st = stateCommitted
			} else if writeErr == nil {
				// The append was accepted but the row never showed up. The
				// true ledger state is unknown; retrying could duplicate it.
				st = stateFailed
			} else {
				st = stateRetryWrite
			}

		case stateRetryWrite:
			if attempt >= c.cfg.SaveAttempts {
				st = stateFailed
				break
			}
			c.clock.Sleep(time.Duration(attempt) * c.cfg.BackoffUnit)
			st = stateWrite

		case stateCommitted:
			c.snap.Invalidate(ctx, model.BookingPartition)
			if rowIdx != baseline {
				// Reserved diagnostic: another writer landed between the
				// baseline read and the verify. Logged, never terminal.
				log.Printf("booking: diagnostic %d: row verified at index %d, baseline was %d",
					CodeRowCountMismatch, rowIdx, baseline)
			}
			log.Printf("booking: committed %s %s for %s at row %d (attempt %d)",
				rec.Date, rec.TimeField, rec.Supplier, rowIdx, attempt)
			return Outcome{State: Committed, RowIndex: rowIdx, Record: rec, Unit: unit}, nil

		case stateFailed:
			if writeErr == nil {
				log.Printf("booking: append accepted but unverified after %d probe attempts (record %s %s %s)",
					c.cfg.VerifyAttempts, rec.Date, rec.TimeField, rec.Supplier)
				return failure(CodeUnverified,
					"the reservation could not be confirmed; contact the warehouse before retrying"), nil
			}
			log.Printf("booking: write retries exhausted after %d attempts: %v", attempt, writeErr)
			return failure(CodeWriteFailed, "the reservation could not be saved, please resubmit"), nil
		}
	}
}

// validate rejects malformed requests before any ledger traffic.
func validate(req model.BookingRequest, unit model.SlotUnit) error {
	if strings.TrimSpace(req.Supplier) == "" {
		return fmt.Errorf("supplier is required")
	}
	if len(req.PurchaseOrders) == 0 {
		return fmt.Errorf("at least one purchase order is required")
	}
	if req.Packages <= 0 {
		return fmt.Errorf("package count must be positive")
	}
	if req.Unit() != unit.Kind {
		return fmt.Errorf("%d packages need a %s slot unit", req.Packages, req.Unit())
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return fmt.Errorf("invalid date %q", req.Date)
	}
	return nil
}

// decodeRecords maps raw snapshot rows to booking records, dropping rows that
// do not decode. A corrupt row must never block availability computation.
func decodeRecords(rows [][]string) []model.BookingRecord {
	out := make([]model.BookingRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := model.BookingRecordFromRow(row); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Records exposes decodeRecords for the read-side handlers that list a
// supplier's committed bookings from a snapshot.
func Records(rows [][]string) []model.BookingRecord { return decodeRecords(rows) }
