package model

import "time"

// Group represents a set of users dining together at one venue. At
// most one group exists per venue at any time (unique constraint on
// dinner_groups.venue_id). A group with zero attendees must not
// persist; that rule is enforced by the membership service, not by
// the database engine.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – place ID of the venue the group is dining at.
//  CreatedAt – timestamp of creation.
type Group struct {
    ID        uint64    // dinner_groups.id
    VenueID   string    // dinner_groups.venue_id
    CreatedAt time.Time // dinner_groups.created_at
}

// Attendee links exactly one user to exactly one group. A user may
// belong to at most one group at a time (unique constraint on
// attendees.user_id).
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who joined the group.
//  GroupID   – group the user belongs to.
//  CreatedAt – timestamp of creation.
type Attendee struct {
    ID        uint64    // attendees.id
    UserID    string    // attendees.user_id
    GroupID   uint64    // attendees.group_id
    CreatedAt time.Time // attendees.created_at
}

// GroupCount pairs a group's venue with its current attendee count.
// Counts are always read fresh from the store and are never cached.
type GroupCount struct {
    GroupID       uint64 // dinner_groups.id
    VenueID       string // dinner_groups.venue_id
    AttendeeCount int    // COUNT(attendees.id)
}
