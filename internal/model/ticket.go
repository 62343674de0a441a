package model

import "time"

// UnlimitedRides is the sentinel stored in user_tickets.rides_remaining
// for pass-style tickets (day/week/month) that are not ride-counted.
const UnlimitedRides = 999

// Ticket statuses.  A ticket past its expires_at is treated as unusable
// at read time regardless of the stored status; the row is not rewritten
// when the clock passes the deadline.
const (
    TicketStatusActive = "active"
    TicketStatusUsed   = "used"
)

// Ticket is a purchased ticket from the `user_tickets` table.
//
// Fields:
//  ID             – primary key identifier.
//  UserID         – owner of the ticket.
//  Type           – tariff key (single|day|week|month).
//  Price          – price paid, in rubles.
//  RidesRemaining – rides left, or UnlimitedRides for passes.
//  QRSerial       – opaque serial encoded into the ticket's QR code.
//  ExpiresAt      – validity deadline.
//  Status         – active or used.
//  CreatedAt      – purchase timestamp.
type Ticket struct {
    ID             uint64    // user_tickets.id
    UserID         uint64    // user_tickets.user_id
    Type           string    // user_tickets.ticket_type
    Price          float64   // user_tickets.price
    RidesRemaining int       // user_tickets.rides_remaining
    QRSerial       string    // user_tickets.qr_serial
    ExpiresAt      time.Time // user_tickets.expires_at
    Status         string    // user_tickets.status
    CreatedAt      time.Time // user_tickets.created_at
}

// Ride is one redeemed ride from the `ride_history` table.  Rows are
// append-only: a ride is written exactly once per successful redemption.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – passenger who redeemed the ride.
//  TicketID   – ticket the ride was debited from.
//  VehicleQR  – scanned vehicle QR payload (e.g. "BUS-42").
//  FareAmount – amount debited; ticket price for single tickets, 0 for passes.
//  RideDate   – redemption timestamp.
type Ride struct {
    ID         uint64    // ride_history.id
    UserID     uint64    // ride_history.user_id
    TicketID   uint64    // ride_history.ticket_id
    VehicleQR  string    // ride_history.vehicle_qr
    FareAmount float64   // ride_history.fare_amount
    RideDate   time.Time // ride_history.ride_date
}
