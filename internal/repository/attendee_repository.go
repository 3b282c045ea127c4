package repository

import (
    "context"
    "database/sql"

    "github.com/okanse/tablemates/internal/model"
)

// AttendeeRepo provides CRUD operations for attendee rows, the link
// between one user and one dinner group. The `attendees` table has a
// unique constraint on user_id so a user can belong to at most one
// group at a time.
type AttendeeRepo struct {
    db *sql.DB
}

// NewAttendeeRepo returns a new AttendeeRepo bound to the given database.
func NewAttendeeRepo(db *sql.DB) *AttendeeRepo { return &AttendeeRepo{db: db} }

// GetByUserTx loads the attendee row for a user inside a transaction,
// taking a row lock so concurrent transitions for the same user
// serialize on the row. Returns sql.ErrNoRows when the user is not
// attached to any group.
func (r *AttendeeRepo) GetByUserTx(ctx context.Context, tx *sql.Tx, userID string) (*model.Attendee, error) {
    const q = `SELECT id, user_id, group_id, created_at FROM attendees WHERE user_id = ? FOR UPDATE`
    var a model.Attendee
    if err := tx.QueryRowContext(ctx, q, userID).Scan(&a.ID, &a.UserID, &a.GroupID, &a.CreatedAt); err != nil {
        return nil, err
    }
    return &a, nil
}

// CreateTx inserts an attendee row linking the user to the group. A
// concurrent join by the same user trips the unique constraint on
// user_id, reported as ErrDuplicate.
func (r *AttendeeRepo) CreateTx(ctx context.Context, tx *sql.Tx, userID string, groupID uint64) error {
    const q = `INSERT INTO attendees (user_id, group_id) VALUES (?, ?)`
    if _, err := tx.ExecContext(ctx, q, userID, groupID); err != nil {
        if isDuplicateKey(err) {
            return ErrDuplicate
        }
        return err
    }
    return nil
}

// DeleteByUserTx removes the attendee row for a user, if any.
func (r *AttendeeRepo) DeleteByUserTx(ctx context.Context, tx *sql.Tx, userID string) error {
    const q = `DELETE FROM attendees WHERE user_id = ?`
    _, err := tx.ExecContext(ctx, q, userID)
    return err
}

// VenueByUser resolves the venue the user's current group is dining
// at. Runs outside any transaction; the aggregation layer reads it
// fresh on every query. Returns sql.ErrNoRows when the user is
// unattached.
func (r *AttendeeRepo) VenueByUser(ctx context.Context, userID string) (string, error) {
    const q = `SELECT g.venue_id
               FROM attendees a
               JOIN dinner_groups g ON g.id = a.group_id
               WHERE a.user_id = ?`
    var venueID string
    if err := r.db.QueryRowContext(ctx, q, userID).Scan(&venueID); err != nil {
        return "", err
    }
    return venueID, nil
}
