package service

import (
    "context"
    "database/sql"
    "fmt"
    "testing"

    "github.com/okanse/tablemates/internal/model"
)

type fakeVenueSource struct{}

func (fakeVenueSource) GetVenues(context.Context, float64, float64, float64) ([]model.Venue, error) {
    return nil, nil // population side effect only
}

type fakeDirectory struct{ venues []model.Venue }

func (f fakeDirectory) AllVenues(context.Context) ([]model.Venue, error) { return f.venues, nil }

type fakeGroups struct {
    counts    []model.GroupCount
    userVenue string
}

func (f fakeGroups) ListGroupsWithAttendeeCounts(context.Context) ([]model.GroupCount, error) {
    return f.counts, nil
}

func (f fakeGroups) VenueByUser(_ context.Context, _ string) (string, error) {
    if f.userVenue == "" {
        return "", sql.ErrNoRows
    }
    return f.userVenue, nil
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

// venueAt builds a venue offset north of the query point so that its
// distance from origin is roughly miles.
func venueAt(id string, rating *float64, price *int, miles float64) model.Venue {
    return model.Venue{
        PlaceID:    id,
        Name:       id,
        Rating:     rating,
        PriceLevel: price,
        Latitude:   miles / 69.0, // ~69 miles per degree of latitude
        Longitude:  0,
    }
}

func newAggregation(venues []model.Venue, groups fakeGroups) *AggregationService {
    return NewAggregationService(fakeVenueSource{}, fakeDirectory{venues: venues}, groups)
}

// TestNearbyRanking checks the contract ordering of the no-attendance
// partition: rating descending, distance ascending as tie-break.
func TestNearbyRanking(t *testing.T) {
    venues := []model.Venue{
        venueAt("A", fptr(4), nil, 2),
        venueAt("B", fptr(4), nil, 1),
        venueAt("C", fptr(3), nil, 0.5),
    }
    svc := newAggregation(venues, fakeGroups{})
    listing, err := svc.ListVenues(context.Background(), VenueQuery{})
    if err != nil {
        t.Fatal(err)
    }
    if len(listing.Nearby) != 3 {
        t.Fatalf("expected 3 nearby venues, got %d", len(listing.Nearby))
    }
    got := []string{listing.Nearby[0].PlaceID, listing.Nearby[1].PlaceID, listing.Nearby[2].PlaceID}
    want := []string{"B", "A", "C"}
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("expected order %v, got %v", want, got)
        }
    }
}

// TestNearbyMinRatingFilter checks that the minimum rating predicate
// is inclusive and drops lower-rated venues.
func TestNearbyMinRatingFilter(t *testing.T) {
    venues := []model.Venue{
        venueAt("A", fptr(4), nil, 2),
        venueAt("B", fptr(4), nil, 1),
        venueAt("C", fptr(3), nil, 0.5),
    }
    svc := newAggregation(venues, fakeGroups{})
    listing, err := svc.ListVenues(context.Background(), VenueQuery{
        Filters: Filters{MinRating: iptr(4)},
    })
    if err != nil {
        t.Fatal(err)
    }
    if len(listing.Nearby) != 2 {
        t.Fatalf("expected {A,B}, got %d venues", len(listing.Nearby))
    }
    for _, v := range listing.Nearby {
        if v.PlaceID == "C" {
            t.Fatal("C must be filtered out by min rating 4")
        }
    }
}

// TestNearbyMaxDistanceFilter checks the inclusive distance cut-off.
func TestNearbyMaxDistanceFilter(t *testing.T) {
    venues := []model.Venue{
        venueAt("near", fptr(3), nil, 1),
        venueAt("far", fptr(5), nil, 10),
    }
    svc := newAggregation(venues, fakeGroups{})
    listing, err := svc.ListVenues(context.Background(), VenueQuery{
        Filters: Filters{MaxDistance: fptr(2)},
    })
    if err != nil {
        t.Fatal(err)
    }
    if len(listing.Nearby) != 1 || listing.Nearby[0].PlaceID != "near" {
        t.Fatalf("expected only the near venue, got %+v", listing.Nearby)
    }
}

// TestNearbyPriceFilter checks that an active price filter excludes
// venues without a price tier and keeps exact matches only.
func TestNearbyPriceFilter(t *testing.T) {
    venues := []model.Venue{
        venueAt("cheap", fptr(4), iptr(1), 1),
        venueAt("mid", fptr(4), iptr(2), 1),
        venueAt("unknown", fptr(4), nil, 1),
    }
    svc := newAggregation(venues, fakeGroups{})
    listing, err := svc.ListVenues(context.Background(), VenueQuery{
        Filters: Filters{PriceLevel: iptr(2)},
    })
    if err != nil {
        t.Fatal(err)
    }
    if len(listing.Nearby) != 1 || listing.Nearby[0].PlaceID != "mid" {
        t.Fatalf("expected only the exact price match, got %+v", listing.Nearby)
    }
}

// TestNearbyMissingRatingTreatedAsZero checks both the filter and the
// sort treat an absent rating as 0.
func TestNearbyMissingRatingTreatedAsZero(t *testing.T) {
    venues := []model.Venue{
        venueAt("rated", fptr(2), nil, 5),
        venueAt("unrated", nil, nil, 1),
    }
    svc := newAggregation(venues, fakeGroups{})
    listing, err := svc.ListVenues(context.Background(), VenueQuery{})
    if err != nil {
        t.Fatal(err)
    }
    if listing.Nearby[0].PlaceID != "rated" {
        t.Fatalf("rated venue must sort above unrated, got %+v", listing.Nearby)
    }
    listing, err = svc.ListVenues(context.Background(), VenueQuery{
        Filters: Filters{MinRating: iptr(1)},
    })
    if err != nil {
        t.Fatal(err)
    }
    if len(listing.Nearby) != 1 || listing.Nearby[0].PlaceID != "rated" {
        t.Fatalf("unrated venue counts as rating 0 for the filter, got %+v", listing.Nearby)
    }
}

// TestAttendancePartitionOrdering checks that venues with attendees
// land in the attendance partition ordered by count descending,
// regardless of rating or distance, unfiltered.
func TestAttendancePartitionOrdering(t *testing.T) {
    venues := []model.Venue{
        venueAt("D", fptr(1), nil, 20),
        venueAt("E", fptr(5), nil, 0.5),
        venueAt("F", fptr(5), nil, 1),
    }
    groups := fakeGroups{counts: []model.GroupCount{
        {GroupID: 1, VenueID: "D", AttendeeCount: 3},
        {GroupID: 2, VenueID: "E", AttendeeCount: 1},
    }}
    svc := newAggregation(venues, groups)
    listing, err := svc.ListVenues(context.Background(), VenueQuery{
        Filters: Filters{MaxDistance: fptr(2)}, // must not apply to the attendance partition
    })
    if err != nil {
        t.Fatal(err)
    }
    if len(listing.WithAttendance) != 2 {
        t.Fatalf("expected 2 attended venues, got %d", len(listing.WithAttendance))
    }
    if listing.WithAttendance[0].PlaceID != "D" || listing.WithAttendance[1].PlaceID != "E" {
        t.Fatalf("expected order D,E got %+v", listing.WithAttendance)
    }
    if listing.WithAttendance[0].AttendeeCount != 3 {
        t.Fatalf("expected count 3 on D, got %d", listing.WithAttendance[0].AttendeeCount)
    }
    if len(listing.Nearby) != 1 || listing.Nearby[0].PlaceID != "F" {
        t.Fatalf("expected F alone in nearby, got %+v", listing.Nearby)
    }
}

// TestMembershipFlag checks that the requesting user's venue is
// flagged and anonymous queries skip the flag.
func TestMembershipFlag(t *testing.T) {
    venues := []model.Venue{
        venueAt("D", fptr(4), nil, 1),
        venueAt("E", fptr(4), nil, 2),
    }
    groups := fakeGroups{
        counts:    []model.GroupCount{{GroupID: 1, VenueID: "D", AttendeeCount: 2}},
        userVenue: "D",
    }
    svc := newAggregation(venues, groups)

    listing, err := svc.ListVenues(context.Background(), VenueQuery{UserID: "alice"})
    if err != nil {
        t.Fatal(err)
    }
    if !listing.WithAttendance[0].IsMember {
        t.Fatal("expected membership flag on the user's venue")
    }

    anon, err := svc.ListVenues(context.Background(), VenueQuery{})
    if err != nil {
        t.Fatal(err)
    }
    if anon.WithAttendance[0].IsMember {
        t.Fatal("anonymous query must not set the membership flag")
    }
}

// TestNearbyTruncation checks the fixed top-N cut of the nearby
// partition.
func TestNearbyTruncation(t *testing.T) {
    venues := make([]model.Venue, 0, 20)
    for i := 0; i < 20; i++ {
        venues = append(venues, venueAt(fmt.Sprintf("v%02d", i), fptr(4), nil, float64(i+1)))
    }
    svc := newAggregation(venues, fakeGroups{})
    listing, err := svc.ListVenues(context.Background(), VenueQuery{})
    if err != nil {
        t.Fatal(err)
    }
    if len(listing.Nearby) != 15 {
        t.Fatalf("expected exactly 15 nearby venues, got %d", len(listing.Nearby))
    }
    // Equal ratings: closest first after the tie-break.
    if listing.Nearby[0].PlaceID != "v00" {
        t.Fatalf("expected closest venue first, got %s", listing.Nearby[0].PlaceID)
    }
}
