package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/transit-pass/internal/model"
)

// FavoriteRepo persists per-user favorite routes.  The (user, route)
// pair is unique; duplicates surface as ErrAlreadyFavorited.
type FavoriteRepo struct{ db *sql.DB }

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add inserts a favorite.  A duplicate pair returns ErrAlreadyFavorited;
// an unknown route id trips the foreign key and returns ErrNotFound.
func (r *FavoriteRepo) Add(ctx context.Context, userID, routeID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_favorites (user_id, route_id) VALUES (?,?)",
		userID, routeID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadyFavorited
		}
		// 1452: foreign key constraint fails -> route id does not exist
		if strings.Contains(err.Error(), "1452") {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Remove deletes a favorite by (user, route).  Removing a route that
// was never favorited is a no-op, not an error.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, routeID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_favorites WHERE user_id=? AND route_id=?",
		userID, routeID)
	return err
}

// FavoriteRoute is a favorite joined with its route for display.
type FavoriteRoute struct {
	Route   model.Route `json:"route"`
	AddedAt time.Time   `json:"added_at"`
}

// ListByUser returns the user's favorite routes newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]FavoriteRoute, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT r.id, r.route_number, r.route_name, r.price, r.interval_minutes, r.created_at, uf.created_at
		 FROM user_favorites uf
		 JOIN routes r ON r.id = uf.route_id
		 WHERE uf.user_id = ?
		 ORDER BY uf.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]FavoriteRoute, 0)
	for rows.Next() {
		var f FavoriteRoute
		var price sql.NullFloat64
		var interval sql.NullInt64
		if err := rows.Scan(&f.Route.ID, &f.Route.Number, &f.Route.Name, &price, &interval, &f.Route.CreatedAt, &f.AddedAt); err != nil {
			return nil, err
		}
		if price.Valid {
			p := price.Float64
			f.Route.Price = &p
		}
		if interval.Valid {
			iv := uint32(interval.Int64)
			f.Route.IntervalMinutes = &iv
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
