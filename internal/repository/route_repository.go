package repository

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/iliyamo/transit-pass/internal/model"
)

// RouteRepo provides persistence for transit routes, including the
// ranked substring search behind the cabinet's route search box.
type RouteRepo struct{ db *sql.DB }

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// searchLimit caps how many results a search returns to the client.
const searchLimit = 20

const routeColumns = "id, route_number, route_name, price, interval_minutes, created_at"

// Create inserts a route. Price and interval are optional display hints.
func (r *RouteRepo) Create(ctx context.Context, number, name string, price *float64, intervalMinutes *uint32) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO routes (route_number, route_name, price, interval_minutes) VALUES (?,?,?,?)",
		number, name, price, intervalMinutes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single route.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (model.Route, error) {
	var rt model.Route
	var price sql.NullFloat64
	var interval sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT "+routeColumns+" FROM routes WHERE id=? LIMIT 1", id).
		Scan(&rt.ID, &rt.Number, &rt.Name, &price, &interval, &rt.CreatedAt)
	if err != nil {
		return rt, err
	}
	if price.Valid {
		p := price.Float64
		rt.Price = &p
	}
	if interval.Valid {
		iv := uint32(interval.Int64)
		rt.IntervalMinutes = &iv
	}
	return rt, nil
}

// FindOrCreate resolves a route by exact (number, name) pair, inserting
// it when absent. Used when a passenger favorites a route the catalog
// does not know yet.
func (r *RouteRepo) FindOrCreate(ctx context.Context, number, name string) (uint64, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM routes WHERE route_number=? AND route_name=? LIMIT 1",
		number, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	return r.Create(ctx, number, name, nil, nil)
}

// Search returns up to 20 routes whose number or name contains the
// query, most relevant first: exact number matches, then number-prefix
// matches, then everything else, with number and name as tie breakers.
// The tier ordering runs inside the query so the LIMIT can never cut an
// exact match out of a large result set; rankRoutes re-applies the same
// ordering over the returned page so the final order does not depend on
// the collation MySQL sorted with.
func (r *RouteRepo) Search(ctx context.Context, query string) ([]model.Route, error) {
	like := "%" + query + "%"
	prefix := query + "%"
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+routeColumns+` FROM routes
		 WHERE route_number LIKE ? OR route_name LIKE ?
		 ORDER BY CASE WHEN route_number = ? THEN 1 WHEN route_number LIKE ? THEN 2 ELSE 3 END,
		          route_number, route_name
		 LIMIT ?`,
		like, like, query, prefix, searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Route, 0, searchLimit)
	for rows.Next() {
		var rt model.Route
		var price sql.NullFloat64
		var interval sql.NullInt64
		if err := rows.Scan(&rt.ID, &rt.Number, &rt.Name, &price, &interval, &rt.CreatedAt); err != nil {
			return nil, err
		}
		if price.Valid {
			p := price.Float64
			rt.Price = &p
		}
		if interval.Valid {
			iv := uint32(interval.Int64)
			rt.IntervalMinutes = &iv
		}
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rankRoutes(out, query)
	return out, nil
}

// routeMatchTier classifies how well a route number matches the query:
// 1 = exact number, 2 = number prefix, 3 = substring anywhere.
func routeMatchTier(number, query string) int {
	switch {
	case number == query:
		return 1
	case strings.HasPrefix(number, query):
		return 2
	default:
		return 3
	}
}

// rankRoutes sorts routes in place by (tier, number, name).
func rankRoutes(routes []model.Route, query string) {
	sort.SliceStable(routes, func(i, j int) bool {
		ti, tj := routeMatchTier(routes[i].Number, query), routeMatchTier(routes[j].Number, query)
		if ti != tj {
			return ti < tj
		}
		if routes[i].Number != routes[j].Number {
			return routes[i].Number < routes[j].Number
		}
		return routes[i].Name < routes[j].Name
	})
}
