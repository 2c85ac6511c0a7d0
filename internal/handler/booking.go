package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ljbyon/almacen-v3-g/internal/booking"
	"github.com/ljbyon/almacen-v3-g/internal/cache"
	"github.com/ljbyon/almacen-v3-g/internal/calendar"
	"github.com/ljbyon/almacen-v3-g/internal/model"
	"github.com/ljbyon/almacen-v3-g/internal/notifier"
	"github.com/ljbyon/almacen-v3-g/internal/queue"
)

// BookingHandler exposes availability browsing and slot reservation. All
// methods assume JWT authentication ran upstream; the supplier identity is
// read from the request context.
type BookingHandler struct {
	Coord *booking.Coordinator
	Snap  *cache.Snapshot
	Notif notifier.Notifier
	Clock booking.Clock
}

func NewBookingHandler(coord *booking.Coordinator, snap *cache.Snapshot, notif notifier.Notifier, clock booking.Clock) *BookingHandler {
	if coord == nil || snap == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Coord: coord, Snap: snap, Notif: notif, Clock: clock}
}

// slotUnitView is the wire shape of one available unit.
type slotUnitView struct {
	Kind     string `json:"kind"`
	TimeSlot string `json:"time_slot"`
}

// Availability handles GET /v1/availability?date=YYYY-MM-DD&packages=N. It
// serves from the memoized snapshot — a browsing supplier may see a slightly
// stale calendar; the reservation flow re-checks against a fresh read before
// writing anything.
func (h *BookingHandler) Availability(c echo.Context) error {
	if _, err := getSupplier(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	date := c.QueryParam("date")
	packages, err := strconv.Atoi(c.QueryParam("packages"))
	if err != nil || packages <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "packages must be a positive integer"})
	}

	rows, err := h.Snap.GetOrFetch(c.Request().Context(), model.BookingPartition)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error":        "the booking calendar could not be loaded",
			"outcome_code": booking.CodeConnection,
		})
	}
	units, err := calendar.Availability(date, booking.Records(rows), packages)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}

	views := make([]slotUnitView, 0, len(units))
	for _, u := range units {
		views = append(views, slotUnitView{Kind: string(u.Kind), TimeSlot: u.EncodeTime()})
	}
	return c.JSON(http.StatusOK, echo.Map{"date": date, "items": views})
}

type reserveReq struct {
	Date           string   `json:"date"`
	Start          string   `json:"start"` // slot start, e.g. "9:00"
	Packages       int      `json:"packages"`
	PurchaseOrders []string `json:"purchase_orders"`
}

// Reserve handles POST /v1/bookings. It runs one reservation flow to a
// terminal state and maps the outcome onto HTTP. The outcome code travels in
// the body unchanged — existing clients key on it. After a commit the
// confirmation event is published best-effort; a failed publish is reported
// as notified=false and never affects the committed reservation.
func (h *BookingHandler) Reserve(c echo.Context) error {
	supplier, err := getSupplier(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	hour, minute, ok := model.ParseClock(req.Start)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot start"})
	}
	first := model.TimeSlot{Date: req.Date, Hour: hour, Minute: minute}
	var unit model.SlotUnit
	if req.Packages >= model.PairThreshold {
		unit = model.Pair(first, calendar.Next(first))
	} else {
		unit = model.Single(first)
	}

	breq := model.BookingRequest{
		Supplier:       supplier,
		Date:           req.Date,
		Packages:       req.Packages,
		PurchaseOrders: req.PurchaseOrders,
	}

	out, err := h.Coord.Reserve(c.Request().Context(), breq, unit)
	if err != nil {
		if errors.Is(err, booking.ErrSlotTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "the requested slot is no longer available"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if out.State == booking.Failed {
		status := http.StatusInternalServerError
		switch out.Code {
		case booking.CodeConnection:
			status = http.StatusServiceUnavailable
		case booking.CodeWriteFailed:
			status = http.StatusBadGateway
		}
		return c.JSON(status, echo.Map{"error": out.Reason, "outcome_code": out.Code})
	}

	notified := false
	if h.Notif != nil {
		now := time.Now().UTC()
		if h.Clock != nil {
			now = h.Clock.Now()
		}
		notified = h.Notif.Send(c.Request().Context(), queue.BookingCommittedEvent{
			Supplier:    supplier,
			Recipient:   getEmail(c),
			CC:          getCC(c),
			Date:        out.Record.Date,
			TimeField:   out.Record.TimeField,
			Packages:    out.Record.Packages,
			Orders:      out.Record.Orders,
			RowIndex:    out.RowIndex,
			CommittedAt: now.Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"date":      out.Record.Date,
		"time_slot": out.Record.TimeField,
		"row_index": out.RowIndex,
		"notified":  notified,
	})
}

// MyBookings handles GET /v1/my-bookings. It lists the supplier's committed
// records from the (possibly cached) snapshot, newest last.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	supplier, err := getSupplier(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Snap.GetOrFetch(c.Request().Context(), model.BookingPartition)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error":        "the booking calendar could not be loaded",
			"outcome_code": booking.CodeConnection,
		})
	}
	items := make([]echo.Map, 0)
	for _, rec := range booking.Records(rows) {
		if rec.Supplier != supplier {
			continue
		}
		items = append(items, echo.Map{
			"date":            rec.Date,
			"time_slot":       rec.TimeField,
			"packages":        rec.Packages,
			"purchase_orders": rec.Orders,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
