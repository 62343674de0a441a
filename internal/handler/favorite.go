package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-pass/internal/repository"
)

// FavoriteHandler serves the caller's favorite routes.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Routes    *repository.RouteRepo
}

func NewFavoriteHandler(favorites *repository.FavoriteRepo, routes *repository.RouteRepo) *FavoriteHandler {
	if favorites == nil || routes == nil {
		panic("nil repository passed to NewFavoriteHandler")
	}
	return &FavoriteHandler{Favorites: favorites, Routes: routes}
}

type addFavoriteReq struct {
	RouteNumber string `json:"route_number"`
	RouteName   string `json:"route_name"`
}

// Add handles POST /v1/favorites.  The route is identified by
// (number, name) and created in the catalog if it does not exist yet,
// so favoriting works directly from search results.
func (h *FavoriteHandler) Add(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addFavoriteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RouteNumber = strings.TrimSpace(req.RouteNumber)
	req.RouteName = strings.TrimSpace(req.RouteName)
	if req.RouteNumber == "" || req.RouteName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_number and route_name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	routeID, err := h.Routes.FindOrCreate(ctx, req.RouteNumber, req.RouteName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve route failed"})
	}
	if err := h.Favorites.Add(ctx, userID, routeID); err != nil {
		if errors.Is(err, repository.ErrAlreadyFavorited) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route already in favorites"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add favorite failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "added to favorites", "route_id": routeID})
}

// AddByID handles POST /v1/favorites/:route_id for callers that already
// hold a catalog route id.
func (h *FavoriteHandler) AddByID(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	routeID, err := pathID(c, "route_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Favorites.Add(ctx, userID, routeID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyFavorited):
			return c.JSON(http.StatusConflict, echo.Map{"error": "route already in favorites"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add favorite failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "added to favorites", "route_id": routeID})
}

// Remove handles DELETE /v1/favorites/:route_id.  Removing a route that
// is not favorited is a no-op, not an error.
func (h *FavoriteHandler) Remove(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	routeID, err := pathID(c, "route_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	if err := h.Favorites.Remove(ctx, userID, routeID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove favorite failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/favorites.
func (h *FavoriteHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeoutSeconds*time.Second)
	defer cancel()

	favorites, err := h.Favorites.ListByUser(ctx, userID)
	if err != nil {
		// the panel renders empty rather than erroring out
		log.Printf("favorites: load for user %d: %v", userID, err)
		favorites = []repository.FavoriteRoute{}
	}
	return c.JSON(http.StatusOK, echo.Map{"favorites": favorites})
}
