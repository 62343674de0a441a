package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-pass/internal/model"
	"github.com/iliyamo/transit-pass/internal/repository"
)

// Search type discriminators accepted by POST /v1/search.
const (
	SearchTypeRoute = "route"
	SearchTypeStop  = "stop"
)

// searchHistoryLimit caps the recent-searches list.
const searchHistoryLimit = 10

// SearchHandler serves route and stop lookup plus the caller's search
// history.
type SearchHandler struct {
	Routes  *repository.RouteRepo
	Stops   *repository.StopRepo
	History *repository.HistoryRepo
}

func NewSearchHandler(routes *repository.RouteRepo, stops *repository.StopRepo, history *repository.HistoryRepo) *SearchHandler {
	if routes == nil || stops == nil || history == nil {
		panic("nil repository passed to NewSearchHandler")
	}
	return &SearchHandler{Routes: routes, Stops: stops, History: history}
}

type searchReq struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
	Type       string `json:"type"` // older clients send "type"
}

// Search handles POST /v1/search.  The query is recorded in the
// caller's history before the lookup runs, so abandoned and failed
// searches still show up in recents.
func (h *SearchHandler) Search(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req searchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query required"})
	}
	if req.SearchType == "" {
		req.SearchType = req.Type
	}
	if req.SearchType != SearchTypeRoute && req.SearchType != SearchTypeStop {
		req.SearchType = SearchTypeRoute
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.History.Record(ctx, userID, req.Query, req.SearchType); err != nil {
		// history is decoration, the search itself still runs
		log.Printf("search: record history for user %d: %v", userID, err)
	}

	switch req.SearchType {
	case SearchTypeStop:
		stops, err := h.Stops.Search(ctx, req.Query)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"search_type": SearchTypeStop, "stops": stops})
	default:
		routes, err := h.Routes.Search(ctx, req.Query)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"search_type": SearchTypeRoute, "routes": routes})
	}
}

// RouteByID handles GET /v1/routes/:id: the route header shown above
// the schedule.
func (h *SearchHandler) RouteByID(c echo.Context) error {
	routeID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	route, err := h.Routes.GetByID(ctx, routeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load route failed"})
	}
	return c.JSON(http.StatusOK, route)
}

// RecentSearches handles GET /v1/search/history.
func (h *SearchHandler) RecentSearches(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	entries, err := h.History.Recent(ctx, userID, searchHistoryLimit)
	if err != nil {
		// the recents panel renders empty rather than erroring out
		log.Printf("search: load history for user %d: %v", userID, err)
		entries = []model.SearchHistoryEntry{}
	}
	return c.JSON(http.StatusOK, echo.Map{"history": entries})
}
