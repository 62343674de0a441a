// Package tariff holds the fixed fare table tickets are issued from.
// Prices and validity windows are municipal policy, not user input, so
// the table is compiled in rather than stored in the database.
package tariff

import (
    "errors"
    "time"

    "github.com/iliyamo/transit-pass/internal/model"
)

// ErrUnknownType is returned when a purchase names a ticket type that is
// not part of the tariff table.
var ErrUnknownType = errors.New("unknown ticket type")

// Tariff is a (price, ride count, validity) tuple keyed by ticket type.
type Tariff struct {
    Type     string        // tariff key: single, day, week or month
    Price    float64       // price in rubles
    Rides    int           // ride count; model.UnlimitedRides for passes
    Validity time.Duration // how long the ticket stays usable after purchase
}

// Unlimited reports whether the tariff is a pass rather than ride-counted.
func (t Tariff) Unlimited() bool { return t.Rides == model.UnlimitedRides }

var table = map[string]Tariff{
    "single": {Type: "single", Price: 30.00, Rides: 1, Validity: time.Hour},
    "day":    {Type: "day", Price: 100.00, Rides: model.UnlimitedRides, Validity: 24 * time.Hour},
    "week":   {Type: "week", Price: 500.00, Rides: model.UnlimitedRides, Validity: 168 * time.Hour},
    "month":  {Type: "month", Price: 1500.00, Rides: model.UnlimitedRides, Validity: 720 * time.Hour},
}

// Lookup resolves a ticket type to its tariff.
func Lookup(ticketType string) (Tariff, error) {
    t, ok := table[ticketType]
    if !ok {
        return Tariff{}, ErrUnknownType
    }
    return t, nil
}

// Fare returns the amount debited for one ride on a ticket of the given
// type: the full price for single tickets, zero for passes.
func Fare(ticketType string, price float64) float64 {
    if ticketType == "single" {
        return price
    }
    return 0
}
