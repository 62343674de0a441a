package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-pass/internal/model"
	"github.com/iliyamo/transit-pass/internal/repository"
)

// nextDeparturesLimit caps the "next departures" strip on the schedule
// screen.
const nextDeparturesLimit = 5

// ScheduleHandler serves route timetables and upcoming departures.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
}

func NewScheduleHandler(schedules *repository.ScheduleRepo) *ScheduleHandler {
	if schedules == nil {
		panic("nil repository passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Schedules: schedules}
}

// RouteSchedule handles GET /v1/routes/:id/schedule.  Lookup failures
// degrade to empty lists with success=true rather than an error status:
// the schedule screen renders an empty timetable, not a failure page.
func (h *ScheduleHandler) RouteSchedule(c echo.Context) error {
	routeID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	dayType := c.QueryParam("day_type")
	if dayType != model.DayTypeWeekday && dayType != model.DayTypeWeekend {
		dayType = "" // unset or unknown: return all day types
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	schedule, err := h.Schedules.GetRouteSchedule(ctx, routeID, dayType)
	if err != nil {
		log.Printf("schedule: load timetable for route %d: %v", routeID, err)
		schedule = []repository.ScheduleStopRow{}
	}
	departures, err := h.Schedules.NextDepartures(ctx, routeID, time.Now(), nextDeparturesLimit)
	if err != nil {
		log.Printf("schedule: next departures for route %d: %v", routeID, err)
		departures = []repository.Departure{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":         true,
		"schedule":        schedule,
		"next_departures": departures,
	})
}
