package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files into the environment
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/transit-pass/internal/config"
	"github.com/iliyamo/transit-pass/internal/database"
	"github.com/iliyamo/transit-pass/internal/handler"
	"github.com/iliyamo/transit-pass/internal/middleware"
	"github.com/iliyamo/transit-pass/internal/queue"
	"github.com/iliyamo/transit-pass/internal/repository"
	"github.com/iliyamo/transit-pass/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseURL(), cfg.MigrationsPath); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// Redis backs the response cache and the rate limiter.  A nil client
	// disables both; the API itself keeps working.
	rdb := config.NewRedisClient()

	// Repositories share the single connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tickets := repository.NewTicketRepo(db)
	routes := repository.NewRouteRepo(db)
	stops := repository.NewStopRepo(db)
	schedules := repository.NewScheduleRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	history := repository.NewHistoryRepo(db)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	ticketH := handler.NewTicketHandler(tickets)
	scheduleH := handler.NewScheduleHandler(schedules)
	searchH := handler.NewSearchHandler(routes, stops, history)
	favoriteH := handler.NewFavoriteHandler(favorites, routes)
	catalogH := handler.NewCatalogHandler(routes, stops, schedules)
	vehicleH := handler.NewVehicleHandler()

	e := echo.New()

	// Global token bucket; per-route response cache is attached where the
	// router registers the schedule endpoint.
	rlCfg := config.LoadRateLimitConfig()
	if rlCfg.Enabled && rdb != nil {
		e.Use(middleware.NewTokenBucket(rlCfg, rdb))
	}
	var scheduleCache echo.MiddlewareFunc
	cacheCfg := config.LoadCacheConfig()
	if cacheCfg.Enabled && rdb != nil {
		scheduleCache = middleware.NewRedisCache(cacheCfg, rdb)
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPassenger(e, cfg.JWTSecret, ticketH, scheduleH, searchH, favoriteH, vehicleH, scheduleCache)
	router.RegisterAdmin(e, cfg.JWTSecret, catalogH)

	// Background consumer appending redeemed rides to the audit log.  It
	// reconnects on its own; a broker outage never blocks the API.
	go func() {
		if err := queue.StartRideConsumer(); err != nil {
			log.Printf("ride consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
