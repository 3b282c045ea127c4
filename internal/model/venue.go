package model

import "time"

// Venue represents a restaurant record mirrored from the external
// directory provider into the `venues` table. The PlaceID is the
// provider-issued identifier and acts as the upsert key: a venue is
// created on the first successful fetch and updated in place on every
// subsequent fetch that includes it. Rows are never deleted by the
// application.
//
// Fields:
//  PlaceID    – provider-issued identifier, globally unique and stable.
//  Name       – display name of the venue.
//  PriceLevel – optional provider price tier (small positive integer).
//  Rating     – optional provider rating.
//  Latitude   – venue latitude in degrees.
//  Longitude  – venue longitude in degrees.
//  PhotoRef   – optional opaque photo reference from the detail lookup.
//  MapURL     – optional canonical map URL from the detail lookup.
//  UpdatedAt  – last time the row was written by an upsert.
type Venue struct {
    PlaceID    string    // venues.place_id
    Name       string    // venues.name
    PriceLevel *int      // venues.price_level (nullable)
    Rating     *float64  // venues.rating (nullable)
    Latitude   float64   // venues.latitude
    Longitude  float64   // venues.longitude
    PhotoRef   *string   // venues.photo_ref (nullable)
    MapURL     *string   // venues.map_url (nullable)
    UpdatedAt  time.Time // venues.updated_at
}

// AggregatedVenue is the per-query view of a venue served to clients.
// It combines the mirrored venue record with the requesting user's
// distance from it, the number of attendees currently grouped there
// and whether the requesting user is one of them. It is never
// persisted.
type AggregatedVenue struct {
    PlaceID       string   `json:"place_id"`
    Name          string   `json:"name"`
    PriceLevel    *int     `json:"price_level,omitempty"`
    Rating        *float64 `json:"rating,omitempty"`
    Latitude      float64  `json:"latitude"`
    Longitude     float64  `json:"longitude"`
    PhotoRef      *string  `json:"photo_ref,omitempty"`
    MapURL        *string  `json:"map_url,omitempty"`
    DistanceMiles float64  `json:"distance_miles"`
    AttendeeCount int      `json:"attendee_count"`
    IsMember      bool     `json:"is_member"`
}
