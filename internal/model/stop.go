package model

import "time"

// Stop is a transit stop from the `stops` table.  Static reference data
// with coordinates used by the map widget.
type Stop struct {
    ID        uint64    `json:"id"`           // stops.id
    Name      string    `json:"stop_name"`    // stops.stop_name
    Address   string    `json:"stop_address"` // stops.stop_address
    Latitude  *float64  `json:"latitude"`     // stops.latitude (nullable)
    Longitude *float64  `json:"longitude"`    // stops.longitude (nullable)
    CreatedAt time.Time `json:"created_at"`   // stops.created_at
}
