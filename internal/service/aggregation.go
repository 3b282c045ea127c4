package service

import (
    "context"
    "database/sql"
    "errors"
    "sort"

    "github.com/okanse/tablemates/internal/geo"
    "github.com/okanse/tablemates/internal/model"
)

// nearbyLimit caps the no-attendance partition of a listing. The cap
// and the ordering are part of the service contract, not presentation
// choices.
const nearbyLimit = 15

// venueSource populates and serves the provider-backed search cache.
type venueSource interface {
    GetVenues(ctx context.Context, lat, lng, radiusMeters float64) ([]model.Venue, error)
}

// directorySource serves the cached full venue listing.
type directorySource interface {
    AllVenues(ctx context.Context) ([]model.Venue, error)
}

// groupReader reads live membership state. VenueByUser returns
// sql.ErrNoRows when the user is not in any group.
type groupReader interface {
    ListGroupsWithAttendeeCounts(ctx context.Context) ([]model.GroupCount, error)
    VenueByUser(ctx context.Context, userID string) (string, error)
}

// Filters are the optional, independently combinable predicates
// applied to the no-attendance partition. A venue with no rating
// counts as rating 0; a venue with no price tier is excluded whenever
// a price filter is active.
type Filters struct {
    MaxDistance *float64 // miles, inclusive
    MinRating   *int     // inclusive
    PriceLevel  *int     // exact tier
}

// VenueQuery is the ephemeral per-request context for a listing.
// UserID is empty for anonymous queries, which skip the membership
// flag.
type VenueQuery struct {
    Lat          float64
    Lng          float64
    RadiusMeters float64
    UserID       string
    Filters      Filters
}

// VenueListing is the two-partition result of a query. WithAttendance
// holds every venue with at least one attendee, ordered by attendee
// count descending, unfiltered and uncapped. Nearby holds the rest,
// filtered, ordered by rating descending with distance ascending as
// the tie-break, and capped at nearbyLimit.
type VenueListing struct {
    WithAttendance []model.AggregatedVenue `json:"with_attendance"`
    Nearby         []model.AggregatedVenue `json:"nearby"`
}

// AggregationService composes the caches and the membership store
// into the final per-user venue list.
type AggregationService struct {
    search    venueSource
    directory directorySource
    groups    groupReader
}

// NewAggregationService constructs an AggregationService.
func NewAggregationService(search venueSource, directory directorySource, groups groupReader) *AggregationService {
    return &AggregationService{search: search, directory: directory, groups: groups}
}

// ListVenues runs one aggregation query. The search cache call exists
// for its population side effect (fetch-and-persist on miss); the
// listing itself is built from the directory cache plus membership
// state read fresh from the store.
func (s *AggregationService) ListVenues(ctx context.Context, q VenueQuery) (*VenueListing, error) {
    if _, err := s.search.GetVenues(ctx, q.Lat, q.Lng, q.RadiusMeters); err != nil {
        return nil, err
    }
    venues, err := s.directory.AllVenues(ctx)
    if err != nil {
        return nil, err
    }
    counts, err := s.groups.ListGroupsWithAttendeeCounts(ctx)
    if err != nil {
        return nil, err
    }
    countByVenue := make(map[string]int, len(counts))
    for _, gc := range counts {
        countByVenue[gc.VenueID] = gc.AttendeeCount
    }

    userVenue := ""
    if q.UserID != "" {
        userVenue, err = s.groups.VenueByUser(ctx, q.UserID)
        if err != nil && !errors.Is(err, sql.ErrNoRows) {
            return nil, err
        }
    }

    listing := &VenueListing{
        WithAttendance: make([]model.AggregatedVenue, 0),
        Nearby:         make([]model.AggregatedVenue, 0, nearbyLimit),
    }
    for _, v := range venues {
        av := model.AggregatedVenue{
            PlaceID:       v.PlaceID,
            Name:          v.Name,
            PriceLevel:    v.PriceLevel,
            Rating:        v.Rating,
            Latitude:      v.Latitude,
            Longitude:     v.Longitude,
            PhotoRef:      v.PhotoRef,
            MapURL:        v.MapURL,
            DistanceMiles: geo.DistanceMiles(q.Lat, q.Lng, v.Latitude, v.Longitude),
            AttendeeCount: countByVenue[v.PlaceID],
            IsMember:      userVenue != "" && v.PlaceID == userVenue,
        }
        if av.AttendeeCount > 0 {
            listing.WithAttendance = append(listing.WithAttendance, av)
        } else if q.Filters.match(av) {
            listing.Nearby = append(listing.Nearby, av)
        }
    }

    sort.SliceStable(listing.WithAttendance, func(i, j int) bool {
        return listing.WithAttendance[i].AttendeeCount > listing.WithAttendance[j].AttendeeCount
    })
    sort.SliceStable(listing.Nearby, func(i, j int) bool {
        ri, rj := ratingOf(listing.Nearby[i]), ratingOf(listing.Nearby[j])
        if ri != rj {
            return ri > rj
        }
        return listing.Nearby[i].DistanceMiles < listing.Nearby[j].DistanceMiles
    })
    if len(listing.Nearby) > nearbyLimit {
        listing.Nearby = listing.Nearby[:nearbyLimit]
    }
    return listing, nil
}

// match applies the active predicates to a zero-attendance venue.
func (f Filters) match(v model.AggregatedVenue) bool {
    if f.MaxDistance != nil && v.DistanceMiles > *f.MaxDistance {
        return false
    }
    if f.MinRating != nil && ratingOf(v) < float64(*f.MinRating) {
        return false
    }
    if f.PriceLevel != nil && (v.PriceLevel == nil || *v.PriceLevel != *f.PriceLevel) {
        return false
    }
    return true
}

func ratingOf(v model.AggregatedVenue) float64 {
    if v.Rating == nil {
        return 0
    }
    return *v.Rating
}
