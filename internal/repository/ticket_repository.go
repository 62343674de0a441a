package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/transit-pass/internal/model"
)

// TicketRepo is the ticket ledger: purchased tickets plus the
// append-only ride redemption log.  Redemption touches two tables and
// must be atomic, so those operations come in Tx variants executed
// inside a caller-owned transaction.  All timestamp fields are stored
// in UTC.
type TicketRepo struct {
    db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying handle so handlers can begin transactions.
func (r *TicketRepo) DB() *sql.DB { return r.db }

const ticketColumns = "id, user_id, ticket_type, price, rides_remaining, qr_serial, expires_at, status, created_at"

// Issue inserts a ticket priced by the tariff the caller resolved and
// returns the stored row.  expiresAt must already be now + validity.
func (r *TicketRepo) Issue(ctx context.Context, userID uint64, ticketType string, price float64, rides int, qrSerial string, expiresAt time.Time) (model.Ticket, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO user_tickets (user_id, ticket_type, price, rides_remaining, qr_serial, expires_at, status)
         VALUES (?,?,?,?,?,?, 'active')`,
        userID, ticketType, price, rides, qrSerial, expiresAt)
    if err != nil {
        return model.Ticket{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.Ticket{}, err
    }
    var t model.Ticket
    err = r.db.QueryRowContext(ctx,
        "SELECT "+ticketColumns+" FROM user_tickets WHERE id=?", id).
        Scan(&t.ID, &t.UserID, &t.Type, &t.Price, &t.RidesRemaining, &t.QRSerial, &t.ExpiresAt, &t.Status, &t.CreatedAt)
    return t, err
}

// ListActive returns the user's usable tickets newest first.  The
// expiry predicate runs at read time: a row whose status still says
// 'active' but whose deadline passed is never returned.
func (r *TicketRepo) ListActive(ctx context.Context, userID uint64) ([]model.Ticket, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT "+ticketColumns+` FROM user_tickets
         WHERE user_id = ? AND status = 'active' AND expires_at > NOW()
         ORDER BY created_at DESC`,
        userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]model.Ticket, 0)
    for rows.Next() {
        var t model.Ticket
        if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Price, &t.RidesRemaining, &t.QRSerial, &t.ExpiresAt, &t.Status, &t.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// GetForRedeemTx loads a ticket for redemption under a row lock.  Only
// a ticket owned by userID, still 'active' and not past its deadline
// qualifies; anything else is ErrNotFound, deliberately not revealing
// whether the id exists at all.
func (r *TicketRepo) GetForRedeemTx(ctx context.Context, tx *sql.Tx, ticketID, userID uint64) (model.Ticket, error) {
    var t model.Ticket
    err := tx.QueryRowContext(ctx,
        "SELECT "+ticketColumns+` FROM user_tickets
         WHERE id = ? AND user_id = ? AND status = 'active' AND expires_at > NOW()
         FOR UPDATE`,
        ticketID, userID).
        Scan(&t.ID, &t.UserID, &t.Type, &t.Price, &t.RidesRemaining, &t.QRSerial, &t.ExpiresAt, &t.Status, &t.CreatedAt)
    if err == sql.ErrNoRows {
        return t, ErrNotFound
    }
    return t, err
}

// InsertRideTx appends the redemption to the ride log and populates the
// generated ID and timestamp on the record.
func (r *TicketRepo) InsertRideTx(ctx context.Context, tx *sql.Tx, ride *model.Ride) error {
    res, err := tx.ExecContext(ctx,
        "INSERT INTO ride_history (user_id, ticket_id, vehicle_qr, fare_amount) VALUES (?,?,?,?)",
        ride.UserID, ride.TicketID, ride.VehicleQR, ride.FareAmount)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    ride.ID = uint64(id)
    return tx.QueryRowContext(ctx,
        "SELECT ride_date FROM ride_history WHERE id=?", ride.ID).Scan(&ride.RideDate)
}

// DebitRideTx decrements rides_remaining by one and flips the status to
// 'used' when the last ride is consumed.  The decrement is conditional
// on rides_remaining > 0 so two racing redemptions cannot both take the
// final ride: the loser matches zero rows and gets ErrExhausted.
func (r *TicketRepo) DebitRideTx(ctx context.Context, tx *sql.Tx, ticketID uint64) error {
    res, err := tx.ExecContext(ctx,
        `UPDATE user_tickets
         SET rides_remaining = rides_remaining - 1,
             status = CASE WHEN rides_remaining - 1 <= 0 THEN 'used' ELSE 'active' END
         WHERE id = ? AND rides_remaining > 0`,
        ticketID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrExhausted
    }
    return nil
}

// RideDetail is a ride log entry joined with its ticket, shaped for the
// ride history panel.
type RideDetail struct {
    ID         uint64    `json:"id"`
    TicketID   uint64    `json:"ticket_id"`
    TicketType string    `json:"ticket_type"`
    Price      float64   `json:"price"`
    VehicleQR  string    `json:"vehicle_qr"`
    FareAmount float64   `json:"fare_amount"`
    RideDate   time.Time `json:"ride_date"`
}

// ListRides returns the user's most recent rides joined with ticket
// type and price, newest first.
func (r *TicketRepo) ListRides(ctx context.Context, userID uint64, limit int) ([]RideDetail, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT rh.id, rh.ticket_id, ut.ticket_type, ut.price, rh.vehicle_qr, rh.fare_amount, rh.ride_date
         FROM ride_history rh
         JOIN user_tickets ut ON ut.id = rh.ticket_id
         WHERE rh.user_id = ?
         ORDER BY rh.ride_date DESC
         LIMIT ?`,
        userID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    out := make([]RideDetail, 0, limit)
    for rows.Next() {
        var d RideDetail
        if err := rows.Scan(&d.ID, &d.TicketID, &d.TicketType, &d.Price, &d.VehicleQR, &d.FareAmount, &d.RideDate); err != nil {
            return nil, err
        }
        out = append(out, d)
    }
    return out, rows.Err()
}
