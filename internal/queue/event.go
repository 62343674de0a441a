// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names used by the publisher and the background consumer.
const (
    TicketPurchasedQueue = "ticket.purchased"
    RideRedeemedQueue    = "ride.redeemed"
)

// TicketPurchasedEvent is published after a ticket is issued.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type TicketPurchasedEvent struct {
    TicketID   uint64  `json:"ticket_id"`
    UserID     uint64  `json:"user_id"`
    TicketType string  `json:"ticket_type"`
    Price      float64 `json:"price"`
    QRSerial   string  `json:"qr_serial"`
    ExpiresAt  string  `json:"expires_at"`
    IssuedAt   string  `json:"issued_at"`
}

// RideRedeemedEvent is published after a ride is successfully debited
// from a ticket.
type RideRedeemedEvent struct {
    RideID         uint64  `json:"ride_id"`
    TicketID       uint64  `json:"ticket_id"`
    UserID         uint64  `json:"user_id"`
    TicketType     string  `json:"ticket_type"`
    VehicleQR      string  `json:"vehicle_qr"`
    FareAmount     float64 `json:"fare_amount"`
    RidesRemaining int     `json:"rides_remaining"`
    RedeemedAt     string  `json:"redeemed_at"`
}
