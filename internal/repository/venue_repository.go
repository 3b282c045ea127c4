package repository

import (
    "context"
    "database/sql"

    "github.com/okanse/tablemates/internal/model"
)

// VenueRepo provides access to the `venues` table, which mirrors
// records fetched from the external directory provider. Venues are
// keyed by the provider-issued place ID and are only ever inserted or
// updated, never deleted.
type VenueRepo struct {
    db *sql.DB
}

// NewVenueRepo returns a new VenueRepo bound to the given database.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// Upsert inserts the venue or, when a row with the same place ID
// already exists, updates every mutable field and the last-modified
// timestamp. The place ID is the stable identity across provider
// refreshes.
func (r *VenueRepo) Upsert(ctx context.Context, v *model.Venue) error {
    const q = `INSERT INTO venues
                 (place_id, name, price_level, rating, latitude, longitude, photo_ref, map_url, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())
               ON DUPLICATE KEY UPDATE
                 name = VALUES(name),
                 price_level = VALUES(price_level),
                 rating = VALUES(rating),
                 latitude = VALUES(latitude),
                 longitude = VALUES(longitude),
                 photo_ref = VALUES(photo_ref),
                 map_url = VALUES(map_url),
                 updated_at = UTC_TIMESTAMP()`
    _, err := r.db.ExecContext(ctx, q,
        v.PlaceID, v.Name, v.PriceLevel, v.Rating, v.Latitude, v.Longitude, v.PhotoRef, v.MapURL)
    return err
}

// ListAll returns every venue currently mirrored in the local store.
// The result feeds the directory cache; ordering is by place ID so
// repeated scans are deterministic.
func (r *VenueRepo) ListAll(ctx context.Context) ([]model.Venue, error) {
    const q = `SELECT place_id, name, price_level, rating, latitude, longitude, photo_ref, map_url, updated_at
               FROM venues
               ORDER BY place_id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    venues := make([]model.Venue, 0)
    for rows.Next() {
        var v model.Venue
        var price sql.NullInt64
        var rating sql.NullFloat64
        var photo, mapURL sql.NullString
        if err := rows.Scan(&v.PlaceID, &v.Name, &price, &rating,
            &v.Latitude, &v.Longitude, &photo, &mapURL, &v.UpdatedAt); err != nil {
            return nil, err
        }
        if price.Valid {
            p := int(price.Int64)
            v.PriceLevel = &p
        }
        if rating.Valid {
            rt := rating.Float64
            v.Rating = &rt
        }
        if photo.Valid {
            ph := photo.String
            v.PhotoRef = &ph
        }
        if mapURL.Valid {
            mu := mapURL.String
            v.MapURL = &mu
        }
        venues = append(venues, v)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return venues, nil
}
