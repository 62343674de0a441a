package repository

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/iliyamo/transit-pass/internal/model"
)

// ScheduleRepo reads the timetable for a route. The write side lives in
// the admin catalog endpoints; passengers only ever query.
type ScheduleRepo struct{ db *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

// ScheduleStopRow is one timetable row joined with its stop, shaped for
// the schedule JSON payload.
type ScheduleStopRow struct {
	StopName    string `json:"stop_name"`
	StopAddress string `json:"stop_address"`
	ArrivalTime string `json:"arrival_time"`
	StopOrder   uint32 `json:"stop_order"`
	DayType     string `json:"day_type"`
}

// Departure is one upcoming arrival computed relative to the current
// wall-clock time.
type Departure struct {
	StopName     string `json:"stop_name"`
	ArrivalTime  string `json:"arrival_time"`
	MinutesUntil int    `json:"minutes_until"`
}

// GetRouteSchedule returns the route's timetable joined with stops,
// filtered to `day_type = ? OR day_type = 'both'` when a day type is
// given, ordered by (stop_order, arrival_time).
func (r *ScheduleRepo) GetRouteSchedule(ctx context.Context, routeID uint64, dayType string) ([]ScheduleStopRow, error) {
	q := `SELECT st.stop_name, COALESCE(st.stop_address,''), TIME_FORMAT(sch.arrival_time,'%H:%i:%s'), sch.stop_order, sch.day_type
	      FROM schedule sch
	      JOIN stops st ON st.id = sch.stop_id
	      WHERE sch.route_id = ?`
	args := []any{routeID}
	if dayType == model.DayTypeWeekday || dayType == model.DayTypeWeekend {
		q += " AND (sch.day_type = ? OR sch.day_type = 'both')"
		args = append(args, dayType)
	}
	q += " ORDER BY sch.stop_order, sch.arrival_time"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ScheduleStopRow, 0)
	for rows.Next() {
		var row ScheduleStopRow
		if err := rows.Scan(&row.StopName, &row.StopAddress, &row.ArrivalTime, &row.StopOrder, &row.DayType); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// NextDepartures loads today's applicable timetable rows for the route
// and ranks the upcoming arrivals relative to now.
func (r *ScheduleRepo) NextDepartures(ctx context.Context, routeID uint64, now time.Time, limit int) ([]Departure, error) {
	rows, err := r.GetRouteSchedule(ctx, routeID, CurrentDayType(now))
	if err != nil {
		return nil, err
	}
	return UpcomingDepartures(rows, now, limit), nil
}

// CurrentDayType maps a date to its schedule day-type tag: Monday
// through Friday are weekdays, the rest weekend.
func CurrentDayType(now time.Time) string {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return model.DayTypeWeekend
	default:
		return model.DayTypeWeekday
	}
}

// UpcomingDepartures computes how far away each scheduled arrival is
// from now, treating arrival times earlier than the current time of day
// as tomorrow's occurrence (wrap across midnight). Entries with a
// non-positive wait are dropped; the rest come back ascending by wait
// time at seconds resolution, capped at limit. MinutesUntil is the
// displayed rounding, not the sort key.
func UpcomingDepartures(rows []ScheduleStopRow, now time.Time, limit int) []Departure {
	nowOfDay := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second

	type upcoming struct {
		dep   Departure
		until time.Duration
	}
	list := make([]upcoming, 0, len(rows))
	for _, row := range rows {
		arrival, err := parseTimeOfDay(row.ArrivalTime)
		if err != nil {
			continue // malformed TIME value, skip the row
		}
		until := arrival - nowOfDay
		if arrival < nowOfDay {
			until += 24 * time.Hour
		}
		if until <= 0 {
			continue
		}
		list = append(list, upcoming{
			dep: Departure{
				StopName:     row.StopName,
				ArrivalTime:  row.ArrivalTime,
				MinutesUntil: int(until / time.Minute),
			},
			until: until,
		})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].until < list[j].until })
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]Departure, 0, len(list))
	for _, u := range list {
		out = append(out, u.dep)
	}
	return out
}

// parseTimeOfDay parses an "HH:MM:SS" wall-clock value into an offset
// from midnight.
func parseTimeOfDay(s string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// CreateEntry inserts a timetable row (admin only).
func (r *ScheduleRepo) CreateEntry(ctx context.Context, e model.ScheduleEntry) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO schedule (route_id, stop_id, arrival_time, stop_order, day_type) VALUES (?,?,?,?,?)",
		e.RouteID, e.StopID, e.ArrivalTime, e.StopOrder, e.DayType)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
