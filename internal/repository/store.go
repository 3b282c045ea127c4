package repository

import (
    "context"
    "database/sql"

    "github.com/okanse/tablemates/internal/model"
)

// Tx is the set of membership operations available inside a single
// transaction. The membership service runs every join/leave transition
// through one Tx so the group and attendee tables can never disagree:
// either the whole transition commits or none of it does. Row-level
// locks taken by the lookups serialize conflicting transitions.
//
// Lookup methods return sql.ErrNoRows when no row matches; creation
// methods return ErrDuplicate when a unique constraint fires.
type Tx interface {
    AttendeeByUser(ctx context.Context, userID string) (*model.Attendee, error)
    GroupByID(ctx context.Context, id uint64) (*model.Group, error)
    GroupByVenue(ctx context.Context, venueID string) (*model.Group, error)
    CreateGroup(ctx context.Context, venueID string) (*model.Group, error)
    DeleteGroup(ctx context.Context, id uint64) error
    CreateAttendee(ctx context.Context, userID string, groupID uint64) error
    DeleteAttendee(ctx context.Context, userID string) error
    CountAttendees(ctx context.Context, groupID uint64) (int, error)
}

// Store bundles the group and attendee repositories behind a
// transactional facade. WithinTx is the only way to mutate membership
// state; read-only aggregation queries go through the plain methods.
type Store struct {
    db        *sql.DB
    groups    *GroupRepo
    attendees *AttendeeRepo
}

// NewStore returns a Store over the given database.
func NewStore(db *sql.DB) *Store {
    return &Store{
        db:        db,
        groups:    NewGroupRepo(db),
        attendees: NewAttendeeRepo(db),
    }
}

// WithinTx begins a transaction, runs fn against it and commits when
// fn returns nil. Any error from fn or from commit rolls the
// transaction back, so a failed multi-step transition leaves no
// partial state behind.
func (s *Store) WithinTx(ctx context.Context, fn func(Tx) error) error {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&storeTx{tx: tx, groups: s.groups, attendees: s.attendees}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ListGroupsWithAttendeeCounts returns every group with its live
// attendee count.
func (s *Store) ListGroupsWithAttendeeCounts(ctx context.Context) ([]model.GroupCount, error) {
    return s.groups.ListWithAttendeeCounts(ctx)
}

// VenueByUser resolves the venue of the user's current group, or
// sql.ErrNoRows when the user is unattached.
func (s *Store) VenueByUser(ctx context.Context, userID string) (string, error) {
    return s.attendees.VenueByUser(ctx, userID)
}

// storeTx adapts the repositories' Tx-variant methods to the Tx
// interface by binding them to one live transaction.
type storeTx struct {
    tx        *sql.Tx
    groups    *GroupRepo
    attendees *AttendeeRepo
}

func (t *storeTx) AttendeeByUser(ctx context.Context, userID string) (*model.Attendee, error) {
    return t.attendees.GetByUserTx(ctx, t.tx, userID)
}

func (t *storeTx) GroupByID(ctx context.Context, id uint64) (*model.Group, error) {
    return t.groups.GetByIDTx(ctx, t.tx, id)
}

func (t *storeTx) GroupByVenue(ctx context.Context, venueID string) (*model.Group, error) {
    return t.groups.GetByVenueTx(ctx, t.tx, venueID)
}

func (t *storeTx) CreateGroup(ctx context.Context, venueID string) (*model.Group, error) {
    return t.groups.CreateTx(ctx, t.tx, venueID)
}

func (t *storeTx) DeleteGroup(ctx context.Context, id uint64) error {
    return t.groups.DeleteTx(ctx, t.tx, id)
}

func (t *storeTx) CreateAttendee(ctx context.Context, userID string, groupID uint64) error {
    return t.attendees.CreateTx(ctx, t.tx, userID, groupID)
}

func (t *storeTx) DeleteAttendee(ctx context.Context, userID string) error {
    return t.attendees.DeleteByUserTx(ctx, t.tx, userID)
}

func (t *storeTx) CountAttendees(ctx context.Context, groupID uint64) (int, error) {
    return t.groups.CountAttendeesTx(ctx, t.tx, groupID)
}
