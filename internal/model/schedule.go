package model

// Day-type tags restricting a schedule entry to certain days of the week.
// DayTypeBoth entries apply every day.
const (
    DayTypeWeekday = "weekday"
    DayTypeWeekend = "weekend"
    DayTypeBoth    = "both"
)

// ScheduleEntry is one scheduled arrival of a route at a stop, from the
// `schedule` table.  ArrivalTime is a wall-clock time of day in
// "HH:MM:SS" form, not a timestamp.  StopOrder is monotonic per route
// within a day-type grouping.
type ScheduleEntry struct {
    ID          uint64 // schedule.id
    RouteID     uint64 // schedule.route_id
    StopID      uint64 // schedule.stop_id
    ArrivalTime string // schedule.arrival_time (TIME column)
    StopOrder   uint32 // schedule.stop_order
    DayType     string // schedule.day_type (weekday|weekend|both)
}
