package booking

import (
	"context"
	"sync"
	"time"

	"github.com/ljbyon/almacen-v3-g/internal/ledger"
	"github.com/ljbyon/almacen-v3-g/internal/model"
)

// fakeLedger is an in-memory Store with controllable visibility: appended
// rows can be held back for a number of reads before readers see them, and
// append calls can be scripted to fail (with or without the row landing
// anyway, mimicking a call that throws mid-flight after the write stuck).
type fakeLedger struct {
	mu      sync.Mutex
	visible [][]string
	pending []pendingRow
	reads   int
	appends int
	script  []appendResult // behavior per append call, in order; default: land immediately
	readErr error
}

type pendingRow struct {
	row          []string
	revealAtRead int // the ReadAll call number at which the row first appears
}

type appendResult struct {
	err       error
	landed    bool
	hiddenFor int // extra reads before the row becomes visible
}

func (f *fakeLedger) ReadAll(_ context.Context, partition string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	f.reads++
	kept := f.pending[:0]
	for _, p := range f.pending {
		if p.revealAtRead <= f.reads {
			f.visible = append(f.visible, p.row)
		} else {
			kept = append(kept, p)
		}
	}
	f.pending = kept
	out := make([][]string, len(f.visible))
	copy(out, f.visible)
	return out, nil
}

func (f *fakeLedger) Append(_ context.Context, partition string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	res := appendResult{landed: true}
	if f.appends <= len(f.script) {
		res = f.script[f.appends-1]
	}
	if res.landed {
		f.pending = append(f.pending, pendingRow{
			row:          append([]string(nil), row...),
			revealAtRead: f.reads + 1 + res.hiddenFor,
		})
	}
	return res.err
}

func (f *fakeLedger) EnsurePartition(context.Context, string, []string) error { return nil }

func (f *fakeLedger) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakeLedger) appendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appends
}

func (f *fakeLedger) seed(rec model.BookingRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = append(f.visible, rec.Row())
}

var _ ledger.Store = (*fakeLedger)(nil)

// gatedLedger delays every read until the gate channel is closed. It stands
// in for network latency in the race test: the wrapped coordinator cannot
// complete its availability check until the other one is done.
type gatedLedger struct {
	ledger.Store
	gate <-chan struct{}
}

func (g *gatedLedger) ReadAll(ctx context.Context, partition string) ([][]string, error) {
	<-g.gate
	return g.Store.ReadAll(ctx, partition)
}

// fakeClock records sleeps instead of performing them, so protocol budgets
// run instantly under test.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
}

func (c *fakeClock) slept() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)
	return out
}
