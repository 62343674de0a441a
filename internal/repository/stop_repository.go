package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/transit-pass/internal/model"
)

// StopRepo provides persistence for transit stops.
type StopRepo struct{ db *sql.DB }

func NewStopRepo(db *sql.DB) *StopRepo { return &StopRepo{db: db} }

// Create inserts a stop. Coordinates are optional.
func (r *StopRepo) Create(ctx context.Context, name, address string, lat, lon *float64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO stops (stop_name, stop_address, latitude, longitude) VALUES (?,?,?,?)",
		name, address, lat, lon)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Search returns up to 20 stops whose name or address contains the
// query, ordered by name.
func (r *StopRepo) Search(ctx context.Context, query string) ([]model.Stop, error) {
	like := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, stop_name, COALESCE(stop_address,''), latitude, longitude, created_at
		 FROM stops
		 WHERE stop_name LIKE ? OR stop_address LIKE ?
		 ORDER BY stop_name
		 LIMIT ?`,
		like, like, searchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Stop, 0, searchLimit)
	for rows.Next() {
		var s model.Stop
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &lat, &lon, &s.CreatedAt); err != nil {
			return nil, err
		}
		if lat.Valid {
			v := lat.Float64
			s.Latitude = &v
		}
		if lon.Valid {
			v := lon.Float64
			s.Longitude = &v
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
