package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/okanse/tablemates/internal/cache"
	"github.com/okanse/tablemates/internal/config"
	"github.com/okanse/tablemates/internal/database"
	"github.com/okanse/tablemates/internal/handler"
	"github.com/okanse/tablemates/internal/places"
	"github.com/okanse/tablemates/internal/queue"
	"github.com/okanse/tablemates/internal/repository"
	"github.com/okanse/tablemates/internal/router"
	"github.com/okanse/tablemates/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment

	cfg := config.Load()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is preferred so cache entries are shared across instances;
	// without it each process keeps its own copy and the rate limiter
	// is disabled.
	rdb := config.NewRedisClient()
	var store cache.Store
	if rdb != nil {
		store = cache.NewRedisStore(rdb)
	} else {
		log.Printf("redis unavailable, using in-process cache")
		store = cache.NewMemoryStore()
	}

	client, err := places.NewClient(cfg.PlacesAPIKey, cfg.PlacesBaseURL, cfg.PlacesTimeout, cacheCfg.DetailConcurrency)
	if err != nil {
		log.Fatalf("places: %v", err)
	}

	venues := repository.NewVenueRepo(db)
	members := repository.NewStore(db)

	shared := cache.New(store)
	venueCache := service.NewVenueCache(shared, client, venues, cacheCfg.VenueTTL, cacheCfg.Prefix)
	directory := service.NewDirectoryCache(shared, venues, cacheCfg.DirectoryTTL, cacheCfg.Prefix)
	membership := service.NewMembershipService(members, directory, queue.NewPublisher())
	aggregation := service.NewAggregationService(venueCache, directory, members)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterVenues(e,
		handler.NewVenueHandler(aggregation),
		handler.NewMembershipHandler(membership),
		cfg.JWTSecret, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
