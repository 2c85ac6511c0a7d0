package booking

import (
	"context"
	"log"
	"time"

	"github.com/ljbyon/almacen-v3-g/internal/ledger"
	"github.com/ljbyon/almacen-v3-g/internal/model"
)

// Probe confirms that a specific booking row has become observable on the
// ledger. It is a pure observer: it only ever reads, always straight from the
// store and never through the snapshot cache, and it bounds its own patience
// with an attempt budget and linear backoff.
type Probe struct {
	store       ledger.Store
	clock       Clock
	backoffUnit time.Duration // attempt i sleeps i × backoffUnit after a miss
	tailWindow  int           // how many of the most recent rows to scan
}

// NewProbe builds a probe over the given store. backoffUnit defaults to one
// second and tailWindow to 5 when non-positive values are passed.
func NewProbe(store ledger.Store, clock Clock, backoffUnit time.Duration, tailWindow int) *Probe {
	if backoffUnit <= 0 {
		backoffUnit = time.Second
	}
	if tailWindow <= 0 {
		tailWindow = 5
	}
	return &Probe{store: store, clock: clock, backoffUnit: backoffUnit, tailWindow: tailWindow}
}

// Verify re-reads the bookings partition up to maxAttempts times looking for
// an exact field match of rec among the most recent rows. It returns whether
// the row was found and, when found, its zero-based index in the partition;
// -1 otherwise. A failed read counts as a miss: the next attempt may succeed,
// and the budget keeps the whole call bounded either way.
func (p *Probe) Verify(ctx context.Context, rec model.BookingRecord, maxAttempts int) (bool, int) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		rows, err := p.store.ReadAll(ctx, model.BookingPartition)
		if err != nil {
			log.Printf("probe: attempt %d/%d read failed: %v", attempt, maxAttempts, err)
		} else {
			from := len(rows) - p.tailWindow
			if from < 0 {
				from = 0
			}
			for i := len(rows) - 1; i >= from; i-- {
				got, ok := model.BookingRecordFromRow(rows[i])
				if ok && got.Matches(rec) {
					return true, i
				}
			}
		}
		if attempt < maxAttempts {
			p.clock.Sleep(time.Duration(attempt) * p.backoffUnit)
		}
	}
	return false, -1
}
