// Package ledger defines the narrow contract the booking core has against its
// system of record. The store is append-mostly: rows are appended and read
// back in insertion order, nothing is ever edited or deleted. The contract
// deliberately exposes no transaction or conditional-write primitive — the
// coordinator's write/verify/retry protocol is built on exactly these three
// calls and nothing more.
package ledger

import (
	"context"
	"errors"
)

// ErrUnknownPartition is returned when a partition was never registered via
// EnsurePartition.
var ErrUnknownPartition = errors.New("unknown ledger partition")

// Store is the append/read contract over the remote ledger.
//
// ReadAll returns every row of a partition since its creation, in insertion
// order. Reads are allowed to be stale relative to concurrent writers.
//
// Append adds one row. A nil error acknowledges the call was accepted, not
// that the row is already visible to readers — callers that need proof of
// durability must read it back.
//
// EnsurePartition creates a partition with the given column headers if it
// does not exist yet; it is idempotent.
type Store interface {
	ReadAll(ctx context.Context, partition string) ([][]string, error)
	Append(ctx context.Context, partition string, row []string) error
	EnsurePartition(ctx context.Context, partition string, headers []string) error
}
