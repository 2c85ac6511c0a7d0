package booking

import (
	"errors"

	"github.com/ljbyon/almacen-v3-g/internal/model"
)

// Outcome codes surfaced to callers. These values are a stable contract with
// existing clients and must not be renumbered.
const (
	// CodeConnection: the ledger was unreachable or the snapshot failed to
	// load. The flow never started writing; the supplier must resubmit.
	CodeConnection = 1
	// CodeWriteFailed: the append call itself failed and retries exhausted
	// for infrastructure reasons.
	CodeWriteFailed = 2
	// CodeRowCountMismatch is reserved for row-count diagnostics. It is
	// logged server-side and never terminal.
	CodeRowCountMismatch = 3
	// CodeUnverified: the append was accepted but the row was never observed
	// within budget. The most ambiguous outcome — the record may or may not
	// exist on the ledger.
	CodeUnverified = 4
)

// ErrSlotTaken is returned when the fresh availability check shows the
// requested unit already occupied. No write is attempted in that case.
var ErrSlotTaken = errors.New("slot unit no longer available")

// State is the terminal state of one reservation flow.
type State string

const (
	Committed State = "COMMITTED"
	Failed    State = "FAILED"
)

// Outcome reports how a reservation flow ended. For a committed flow,
// RowIndex is the zero-based position of the verified row in the partition
// (the evidence the verification probe found it at). For a failed flow, Code
// carries one of the outcome codes above and Reason a single caller-safe
// message; attempt-level diagnostics stay in server logs only.
type Outcome struct {
	State    State
	Code     int
	Reason   string
	RowIndex int
	Record   model.BookingRecord
	Unit     model.SlotUnit
}

func failure(code int, reason string) Outcome {
	return Outcome{State: Failed, Code: code, Reason: reason, RowIndex: -1}
}
