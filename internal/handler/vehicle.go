package handler

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Irkutsk city center; synthesized positions scatter around it.
const (
	irkutskLat = 52.2870
	irkutskLon = 104.3050
)

// VehiclePosition is one simulated vehicle on the live map.
type VehiclePosition struct {
	VehicleID   string  `json:"vehicle_id"`
	RouteNumber string  `json:"route_number"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	SpeedKmh    int     `json:"speed_kmh"`
	UpdatedAt   string  `json:"updated_at"`
}

// trackedRoutes are the routes the live map animates.  Real GPS feeds
// are out of scope; positions are synthesized per request.
var trackedRoutes = []string{"4", "4к", "8", "20", "64", "1", "3", "2"}

// VehicleHandler serves the simulated live vehicle feed.
type VehicleHandler struct{}

func NewVehicleHandler() *VehicleHandler { return &VehicleHandler{} }

// Positions handles GET /v1/vehicles: a snapshot of simulated vehicles
// scattered around the city center, two per tracked route.
func (h *VehicleHandler) Positions(c echo.Context) error {
	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(now.Unix()))

	vehicles := make([]VehiclePosition, 0, len(trackedRoutes)*2)
	for _, number := range trackedRoutes {
		for i := 1; i <= 2; i++ {
			vehicles = append(vehicles, VehiclePosition{
				VehicleID:   "BUS-" + number + "-" + string(rune('A'+i-1)),
				RouteNumber: number,
				// +/- ~0.025 degrees, a few kilometers either way
				Latitude:  irkutskLat + (rng.Float64()-0.5)*0.05,
				Longitude: irkutskLon + (rng.Float64()-0.5)*0.05,
				SpeedKmh:  10 + rng.Intn(50),
				UpdatedAt: now.Format(time.RFC3339),
			})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"vehicles": vehicles})
}
