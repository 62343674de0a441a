package handler

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-pass/internal/model"
	"github.com/iliyamo/transit-pass/internal/repository"
)

// arrivalTimeRe accepts "HH:MM" or "HH:MM:SS" wall-clock values.
var arrivalTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// CatalogHandler serves the admin-only catalog write endpoints: routes,
// stops and timetable rows.  Passengers never reach these; the router
// gates the group on the ADMIN role.
type CatalogHandler struct {
	Routes    *repository.RouteRepo
	Stops     *repository.StopRepo
	Schedules *repository.ScheduleRepo
}

func NewCatalogHandler(routes *repository.RouteRepo, stops *repository.StopRepo, schedules *repository.ScheduleRepo) *CatalogHandler {
	if routes == nil || stops == nil || schedules == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Routes: routes, Stops: stops, Schedules: schedules}
}

type createRouteReq struct {
	Number          string   `json:"route_number"`
	Name            string   `json:"route_name"`
	Price           *float64 `json:"price"`
	IntervalMinutes *uint32  `json:"interval_minutes"`
}

// CreateRoute handles POST /v1/admin/routes.
func (h *CatalogHandler) CreateRoute(c echo.Context) error {
	var req createRouteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	req.Name = strings.TrimSpace(req.Name)
	if req.Number == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_number and route_name required"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	id, err := h.Routes.Create(ctx, req.Number, req.Name, req.Price, req.IntervalMinutes)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create route failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

type createStopReq struct {
	Name      string   `json:"stop_name"`
	Address   string   `json:"stop_address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateStop handles POST /v1/admin/stops.
func (h *CatalogHandler) CreateStop(c echo.Context) error {
	var req createStopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stop_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	id, err := h.Stops.Create(ctx, req.Name, strings.TrimSpace(req.Address), req.Latitude, req.Longitude)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create stop failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

type createScheduleReq struct {
	RouteID     uint64 `json:"route_id"`
	StopID      uint64 `json:"stop_id"`
	ArrivalTime string `json:"arrival_time"`
	StopOrder   uint32 `json:"stop_order"`
	DayType     string `json:"day_type"`
}

// CreateScheduleEntry handles POST /v1/admin/schedule.
func (h *CatalogHandler) CreateScheduleEntry(c echo.Context) error {
	var req createScheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.RouteID == 0 || req.StopID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_id and stop_id required"})
	}
	if !arrivalTimeRe.MatchString(req.ArrivalTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be HH:MM or HH:MM:SS"})
	}
	if req.StopOrder == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "stop_order must be positive"})
	}
	switch req.DayType {
	case model.DayTypeWeekday, model.DayTypeWeekend, model.DayTypeBoth:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day_type must be weekday, weekend or both"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	id, err := h.Schedules.CreateEntry(ctx, model.ScheduleEntry{
		RouteID:     req.RouteID,
		StopID:      req.StopID,
		ArrivalTime: req.ArrivalTime,
		StopOrder:   req.StopOrder,
		DayType:     req.DayType,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule entry failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
