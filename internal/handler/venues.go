package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/okanse/tablemates/internal/places"
    "github.com/okanse/tablemates/internal/service"
)

// metersPerMile converts the distance query parameter into the search
// radius handed to the directory provider.
const metersPerMile = 1609.34

// defaultRadiusMiles is the search radius used when the caller does
// not pass a distance parameter.
const defaultRadiusMiles = 5

// venueAggregator is the aggregation service as seen by the handler.
type venueAggregator interface {
    ListVenues(ctx context.Context, q service.VenueQuery) (*service.VenueListing, error)
}

// VenueHandler serves the venue listing endpoint.
type VenueHandler struct {
    Agg venueAggregator
}

// NewVenueHandler constructs a VenueHandler.
func NewVenueHandler(agg venueAggregator) *VenueHandler {
    if agg == nil {
        panic("nil aggregation service passed to NewVenueHandler")
    }
    return &VenueHandler{Agg: agg}
}

// ListVenues handles GET /v1/venues. Required query parameters are
// lat and lng; distance (miles), rating (integer minimum) and price
// (exact tier) are optional filters. The distance value doubles as
// the provider search radius, matching the clients this API replaced.
// Anonymous callers get the listing without membership flags.
func (h *VenueHandler) ListVenues(c echo.Context) error {
    lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lat"})
    }
    lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lng"})
    }
    if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "coordinates out of range"})
    }

    q := service.VenueQuery{Lat: lat, Lng: lng, RadiusMeters: defaultRadiusMiles * metersPerMile}
    if s := c.QueryParam("distance"); s != "" {
        miles, err := strconv.ParseFloat(s, 64)
        if err != nil || miles <= 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid distance"})
        }
        q.RadiusMeters = miles * metersPerMile
        q.Filters.MaxDistance = &miles
    }
    if s := c.QueryParam("rating"); s != "" {
        rating, err := strconv.Atoi(s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rating"})
        }
        q.Filters.MinRating = &rating
    }
    if s := c.QueryParam("price"); s != "" {
        price, err := strconv.Atoi(s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price"})
        }
        q.Filters.PriceLevel = &price
    }
    if uid, err := getUserID(c); err == nil {
        q.UserID = uid
    }

    listing, err := h.Agg.ListVenues(c.Request().Context(), q)
    if err != nil {
        var pe *places.ProviderError
        if errors.As(err, &pe) {
            return c.JSON(http.StatusBadGateway, echo.Map{"error": "directory provider error"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, listing)
}
