package service

import (
    "context"
    "database/sql"
    "errors"
    "log"
    "time"

    "github.com/okanse/tablemates/internal/queue"
    "github.com/okanse/tablemates/internal/repository"
)

// membershipStore is the transactional facade the membership state
// machine runs against. repository.Store implements it; tests supply
// an in-memory fake.
type membershipStore interface {
    WithinTx(ctx context.Context, fn func(repository.Tx) error) error
}

// directoryInvalidator drops the cached venue listing after a
// membership change.
type directoryInvalidator interface {
    Invalidate(ctx context.Context) error
}

// eventPublisher announces committed transitions. Implementations are
// best-effort and must not return errors.
type eventPublisher interface {
    GroupJoined(ctx context.Context, ev queue.GroupJoinedEvent)
    GroupLeft(ctx context.Context, ev queue.GroupLeftEvent)
}

// MembershipService owns the per-user state machine over groups and
// attendees: a user is either unattached or attached to exactly one
// group, and a group with zero attendees must not persist. Every
// transition runs in a single store transaction; the row locks taken
// by the lookups are the mutual exclusion, so transitions stay correct
// across a pool of server processes.
type MembershipService struct {
    store     membershipStore
    directory directoryInvalidator
    events    eventPublisher
}

// NewMembershipService constructs a MembershipService. events may be
// nil when no broker is configured.
func NewMembershipService(store membershipStore, directory directoryInvalidator, events eventPublisher) *MembershipService {
    return &MembershipService{store: store, directory: directory, events: events}
}

// Join attaches the user to the group at venueID. Joining the venue
// the user is already at is a no-op. Joining a different venue first
// applies leave semantics for the old group: the attendee row is
// deleted and the group goes with it when the user was its last
// member. The group for the target venue is found or created; losing
// a creation race to a concurrent join is recovered by re-reading the
// row that won.
func (s *MembershipService) Join(ctx context.Context, userID, venueID string) error {
    var ev queue.GroupJoinedEvent
    changed := false
    err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
        att, err := tx.AttendeeByUser(ctx, userID)
        switch {
        case err == nil:
            current, err := tx.GroupByID(ctx, att.GroupID)
            if err != nil {
                return err
            }
            if current.VenueID == venueID {
                return nil // already dining here
            }
            if err := s.detach(ctx, tx, userID, current.ID); err != nil {
                return err
            }
        case errors.Is(err, sql.ErrNoRows):
            // unattached, nothing to leave
        default:
            return err
        }

        group, err := tx.GroupByVenue(ctx, venueID)
        if errors.Is(err, sql.ErrNoRows) {
            group, err = tx.CreateGroup(ctx, venueID)
            if errors.Is(err, repository.ErrDuplicate) {
                // Lost the creation race; the group exists now.
                group, err = tx.GroupByVenue(ctx, venueID)
            }
        }
        if err != nil {
            return err
        }
        if err := tx.CreateAttendee(ctx, userID, group.ID); err != nil {
            return err
        }
        count, err := tx.CountAttendees(ctx, group.ID)
        if err != nil {
            return err
        }
        changed = true
        ev = queue.GroupJoinedEvent{
            UserID:        userID,
            VenueID:       venueID,
            GroupID:       group.ID,
            AttendeeCount: count,
            JoinedAt:      time.Now().UTC().Format(time.RFC3339),
        }
        return nil
    })
    if err != nil || !changed {
        return err
    }
    s.afterChange(ctx)
    if s.events != nil {
        s.events.GroupJoined(ctx, ev)
    }
    return nil
}

// Leave detaches the user from their current group, deleting the
// group when they were its last attendee. Leaving while unattached is
// a no-op.
func (s *MembershipService) Leave(ctx context.Context, userID string) error {
    var ev queue.GroupLeftEvent
    changed := false
    err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
        att, err := tx.AttendeeByUser(ctx, userID)
        if errors.Is(err, sql.ErrNoRows) {
            return nil // not in a group
        }
        if err != nil {
            return err
        }
        group, err := tx.GroupByID(ctx, att.GroupID)
        if err != nil {
            return err
        }
        if err := tx.DeleteAttendee(ctx, userID); err != nil {
            return err
        }
        count, err := tx.CountAttendees(ctx, group.ID)
        if err != nil {
            return err
        }
        deleted := false
        if count == 0 {
            if err := tx.DeleteGroup(ctx, group.ID); err != nil {
                return err
            }
            deleted = true
        }
        changed = true
        ev = queue.GroupLeftEvent{
            UserID:        userID,
            VenueID:       group.VenueID,
            GroupID:       group.ID,
            AttendeeCount: count,
            GroupDeleted:  deleted,
            LeftAt:        time.Now().UTC().Format(time.RFC3339),
        }
        return nil
    })
    if err != nil || !changed {
        return err
    }
    s.afterChange(ctx)
    if s.events != nil {
        s.events.GroupLeft(ctx, ev)
    }
    return nil
}

// detach applies leave semantics inside an already-open transaction,
// used when a join switches the user between venues.
func (s *MembershipService) detach(ctx context.Context, tx repository.Tx, userID string, groupID uint64) error {
    if err := tx.DeleteAttendee(ctx, userID); err != nil {
        return err
    }
    count, err := tx.CountAttendees(ctx, groupID)
    if err != nil {
        return err
    }
    if count == 0 {
        return tx.DeleteGroup(ctx, groupID)
    }
    return nil
}

// afterChange drops the directory listing cache so the next listing
// reflects the new membership state. Attendee counts themselves are
// never cached, so a failed invalidation only extends the listing's
// staleness window.
func (s *MembershipService) afterChange(ctx context.Context) {
    if err := s.directory.Invalidate(ctx); err != nil {
        log.Printf("membership: directory cache invalidation failed: %v", err)
    }
}
