package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/iliyamo/transit-pass/internal/handler"    // handlers implementing the business logic
	"github.com/iliyamo/transit-pass/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems probe this endpoint to verify
	// that the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected account endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh variants.  Each handler generates or exchanges
	// tokens on its own.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token while leaving the stored refresh token in place.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a bearer access token (revokes every session)
	// or a `refresh_token` JSON body (revokes one session), so it does not
	// sit behind the JWT middleware.
	g.POST("/logout", a.Logout)

	// Account endpoints require a valid access token.  Both roles may
	// read and update their own profile.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("PASSENGER", "ADMIN"))
	auth.GET("/me", a.Me)
	auth.PUT("/profile", a.UpdateProfile)
}

// RegisterPassenger registers the passenger-facing endpoints: tickets
// and rides, route schedules, search, favorites and the live vehicle
// feed.  All of them require a valid access token; the schedule lookup
// additionally sits behind the Redis response cache when one is
// configured.
func RegisterPassenger(
	e *echo.Echo,
	jwtSecret string,
	tickets *handler.TicketHandler,
	schedules *handler.ScheduleHandler,
	search *handler.SearchHandler,
	favorites *handler.FavoriteHandler,
	vehicles *handler.VehicleHandler,
	scheduleCache echo.MiddlewareFunc,
) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("PASSENGER", "ADMIN"))

	// Ticket ledger.
	g.POST("/tickets", tickets.Buy)
	g.GET("/tickets", tickets.List)
	g.POST("/tickets/:id/ride", tickets.Redeem)
	g.GET("/rides", tickets.Rides)

	// Route header shown above the schedule.
	g.GET("/routes/:id", search.RouteByID)

	// Timetables are reference data and change rarely, so the route
	// schedule is the one endpoint worth caching.
	if scheduleCache != nil {
		g.GET("/routes/:id/schedule", schedules.RouteSchedule, scheduleCache)
	} else {
		g.GET("/routes/:id/schedule", schedules.RouteSchedule)
	}

	// Search and history.
	g.POST("/search", search.Search)
	g.GET("/search/history", search.RecentSearches)

	// Favorites.
	g.POST("/favorites", favorites.Add)
	g.POST("/favorites/:route_id", favorites.AddByID)
	g.DELETE("/favorites/:route_id", favorites.Remove)
	g.GET("/favorites", favorites.List)

	// Simulated live vehicle positions.
	g.GET("/vehicles", vehicles.Positions)
}

// RegisterAdmin registers the catalog write endpoints under /v1/admin.
// Only the ADMIN role passes the gate.
func RegisterAdmin(e *echo.Echo, jwtSecret string, catalog *handler.CatalogHandler) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))

	g.POST("/routes", catalog.CreateRoute)
	g.POST("/stops", catalog.CreateStop)
	g.POST("/schedule", catalog.CreateScheduleEntry)
}
