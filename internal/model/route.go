package model

import "time"

// Route is a transit route as stored in the `routes` table.  Routes are
// shared reference data: they are created either by an administrator or
// lazily when a passenger adds a previously unknown (number, name) pair
// to their favorites, and are never mutated afterwards.
//
// Fields:
//  ID              – primary key identifier.
//  Number          – route number shown on the vehicle (e.g. "4", "4к").
//  Name            – human readable route name.
//  Price           – fare hint for display, nullable.
//  IntervalMinutes – headway between vehicles in minutes, nullable.
//  CreatedAt       – timestamp of creation.
type Route struct {
    ID              uint64    `json:"id"`               // routes.id
    Number          string    `json:"route_number"`     // routes.route_number
    Name            string    `json:"route_name"`       // routes.route_name
    Price           *float64  `json:"price"`            // routes.price (nullable)
    IntervalMinutes *uint32   `json:"interval_minutes"` // routes.interval_minutes (nullable)
    CreatedAt       time.Time `json:"created_at"`       // routes.created_at
}

// Favorite links a user to a route they marked as favorite.  The pair
// (UserID, RouteID) is unique.
type Favorite struct {
    ID        uint64    // user_favorites.id
    UserID    uint64    // user_favorites.user_id
    RouteID   uint64    // user_favorites.route_id
    CreatedAt time.Time // user_favorites.created_at
}
