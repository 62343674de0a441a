package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-pass/internal/model"
	"github.com/iliyamo/transit-pass/internal/queue"
	"github.com/iliyamo/transit-pass/internal/repository"
	queue_publisher "github.com/iliyamo/transit-pass/internal/service"
	"github.com/iliyamo/transit-pass/internal/tariff"
)

// rideHistoryLimit caps the ride history panel.
const rideHistoryLimit = 10

// TicketHandler serves ticket purchase, listing and ride redemption.
// Redemption touches the ledger and the ride log together, so it runs
// inside a transaction owned here.
type TicketHandler struct {
	Tickets *repository.TicketRepo
}

func NewTicketHandler(tickets *repository.TicketRepo) *TicketHandler {
	if tickets == nil {
		panic("nil repository passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets}
}

type buyTicketReq struct {
	TicketType string `json:"ticket_type"`
}

type ticketResp struct {
	ID             uint64    `json:"id"`
	Type           string    `json:"ticket_type"`
	Price          float64   `json:"price"`
	RidesRemaining int       `json:"rides_remaining"`
	Unlimited      bool      `json:"unlimited"`
	QRSerial       string    `json:"qr_serial"`
	ExpiresAt      time.Time `json:"expires_at"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toTicketResp(t model.Ticket) ticketResp {
	return ticketResp{
		ID:             t.ID,
		Type:           t.Type,
		Price:          t.Price,
		RidesRemaining: t.RidesRemaining,
		Unlimited:      t.RidesRemaining == model.UnlimitedRides,
		QRSerial:       t.QRSerial,
		ExpiresAt:      t.ExpiresAt,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
	}
}

// Buy handles POST /v1/tickets.  Issuance is immediate and
// unconditional; payment simulation lives entirely on the client side
// and is not consulted here.
func (h *TicketHandler) Buy(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req buyTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	tf, err := tariff.Lookup(strings.TrimSpace(req.TicketType))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown ticket type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	expiresAt := time.Now().UTC().Add(tf.Validity)
	ticket, err := h.Tickets.Issue(ctx, userID, tf.Type, tf.Price, tf.Rides, uuid.NewString(), expiresAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue ticket failed"})
	}

	// Event delivery is best-effort; the purchase already committed.
	if err := queue_publisher.PublishTicketPurchased(ctx, queue.TicketPurchasedEvent{
		TicketID:   ticket.ID,
		UserID:     ticket.UserID,
		TicketType: ticket.Type,
		Price:      ticket.Price,
		QRSerial:   ticket.QRSerial,
		ExpiresAt:  ticket.ExpiresAt.UTC().Format(time.RFC3339),
		IssuedAt:   ticket.CreatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("ticket-purchase: event publish failed for ticket %d: %v", ticket.ID, err)
	}

	return c.JSON(http.StatusCreated, toTicketResp(ticket))
}

// List handles GET /v1/tickets: the caller's usable tickets.
func (h *TicketHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	tickets, err := h.Tickets.ListActive(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load tickets failed"})
	}
	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": out})
}

type redeemReq struct {
	VehicleQR string `json:"vehicle_qr"`
}

// Redeem handles POST /v1/tickets/:id/ride.  The ticket row is locked,
// the ride logged and the balance debited inside one transaction:
// either both writes commit or neither does.
func (h *TicketHandler) Redeem(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ticketID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	var req redeemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.VehicleQR = strings.TrimSpace(req.VehicleQR)
	if req.VehicleQR == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_qr required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	tx, err := h.Tickets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ticket, err := h.Tickets.GetForRedeemTx(ctx, tx, ticketID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found or not active"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	unlimited := ticket.RidesRemaining == model.UnlimitedRides
	if !unlimited && ticket.RidesRemaining <= 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no rides remaining"})
	}

	ride := model.Ride{
		UserID:     userID,
		TicketID:   ticket.ID,
		VehicleQR:  req.VehicleQR,
		FareAmount: tariff.Fare(ticket.Type, ticket.Price),
	}
	if err := h.Tickets.InsertRideTx(ctx, tx, &ride); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record ride failed"})
	}

	remaining := ticket.RidesRemaining
	if !unlimited {
		if err := h.Tickets.DebitRideTx(ctx, tx, ticket.ID); err != nil {
			if errors.Is(err, repository.ErrExhausted) {
				return c.JSON(http.StatusConflict, echo.Map{"error": "no rides remaining"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "debit ride failed"})
		}
		remaining = ticket.RidesRemaining - 1
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	if err := queue_publisher.PublishRideRedeemed(ctx, queue.RideRedeemedEvent{
		RideID:         ride.ID,
		TicketID:       ticket.ID,
		UserID:         userID,
		TicketType:     ticket.Type,
		VehicleQR:      ride.VehicleQR,
		FareAmount:     ride.FareAmount,
		RidesRemaining: remaining,
		RedeemedAt:     ride.RideDate.UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("ride-redeem: event publish failed for ride %d: %v", ride.ID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "ride successfully debited",
		"ride": echo.Map{
			"id":          ride.ID,
			"ticket_id":   ride.TicketID,
			"vehicle_qr":  ride.VehicleQR,
			"fare_amount": ride.FareAmount,
			"ride_date":   ride.RideDate,
		},
		"rides_remaining": remaining,
		"unlimited":       unlimited,
	})
}

// Rides handles GET /v1/rides: the caller's recent redemptions.
func (h *TicketHandler) Rides(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	rides, err := h.Tickets.ListRides(ctx, userID, rideHistoryLimit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load rides failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"rides": rides})
}
