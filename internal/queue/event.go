// Package queue defines message payloads exchanged over the message broker
// and the publisher that sends them.
package queue

// GroupJoinedEvent is published after a user's join transition
// commits. It carries enough information for downstream consumers to
// notify the rest of the group or feed analytics without querying the
// primary database.
type GroupJoinedEvent struct {
    UserID        string `json:"user_id"`
    VenueID       string `json:"venue_id"`
    GroupID       uint64 `json:"group_id"`
    AttendeeCount int    `json:"attendee_count"`
    JoinedAt      string `json:"joined_at"`
}

// GroupLeftEvent is published after a user's leave transition commits.
// GroupDeleted is true when the leaver was the last attendee and the
// group was removed with them.
type GroupLeftEvent struct {
    UserID        string `json:"user_id"`
    VenueID       string `json:"venue_id"`
    GroupID       uint64 `json:"group_id"`
    AttendeeCount int    `json:"attendee_count"`
    GroupDeleted  bool   `json:"group_deleted"`
    LeftAt        string `json:"left_at"`
}
