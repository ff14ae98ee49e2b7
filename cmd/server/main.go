package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/smart-parking/internal/config"
	"github.com/iliyamo/smart-parking/internal/fee"
	"github.com/iliyamo/smart-parking/internal/handler"
	"github.com/iliyamo/smart-parking/internal/middleware"
	"github.com/iliyamo/smart-parking/internal/queue"
	"github.com/iliyamo/smart-parking/internal/repository"
	"github.com/iliyamo/smart-parking/internal/router"
	"github.com/iliyamo/smart-parking/internal/service"
)

func main() {
	_ = godotenv.Load() // load .env when present; real env vars win
	cfg := config.Load()

	// Core engine state: fixed spot pool, session store, fee policy.
	registry := repository.NewSpotRegistry(cfg.LotLayout)
	store := repository.NewSessionStore()
	policy := fee.NewPolicy(cfg.HourlyRates)
	engine := service.NewAllocationEngine(registry, store, policy)
	queries := service.NewQueryService(registry, store)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())  // request log per call
	e.Use(echomw.Recover()) // a panicking handler must not kill the server
	e.Use(echomw.CORS())    // the dashboard is served from the browser

	// Redis backs rate limiting and the short-TTL response cache.  Both
	// are disabled when Redis is unreachable.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response cache disabled")
	}
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewResponseCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e,
		handler.NewParkingHandler(engine),
		handler.NewSessionQueryHandler(queries),
		handler.NewReportHandler(queries),
	)

	// Background consumer mirroring closed sessions to logs/parking.log.
	go func() {
		if err := queue.StartSessionLogConsumer(); err != nil {
			log.Printf("session consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, spots=%d)", addr, cfg.Env, registry.Size())

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}
