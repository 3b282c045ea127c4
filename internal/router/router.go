package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/okanse/tablemates/internal/config"
    "github.com/okanse/tablemates/internal/handler"
    "github.com/okanse/tablemates/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check used by load balancers and
// monitoring.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterVenues wires the venue listing and membership endpoints.
// The listing is public: guests browse without a token, and a valid
// token adds the membership flag to the response. It is rate limited
// because it can fan out to the directory provider. Join and leave
// mutate membership state and require an authenticated user.
func RegisterVenues(e *echo.Echo, vh *handler.VenueHandler, mh *handler.MembershipHandler,
    jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {

    // OptionalJWT runs first so the limiter can key on the
    // authenticated user instead of collapsing everyone to "anon".
    e.GET("/v1/venues", vh.ListVenues,
        middleware.OptionalJWT(jwtSecret),
        middleware.NewTokenBucket(rlCfg, rdb))

    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.POST("/venues/:id/join", mh.Join)
    auth.POST("/leave", mh.Leave)
}
