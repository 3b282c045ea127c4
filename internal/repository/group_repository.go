package repository

import (
    "context"
    "database/sql"

    "github.com/okanse/tablemates/internal/model"
)

// GroupRepo provides CRUD operations for dinner groups. A group links
// a set of attendees to one venue; the `dinner_groups` table carries a
// unique constraint on venue_id so at most one group exists per venue.
// All multi-step membership flows run through the Tx variants so the
// caller can wrap them in a single transaction.
type GroupRepo struct {
    db *sql.DB
}

// NewGroupRepo returns a new GroupRepo bound to the given database.
func NewGroupRepo(db *sql.DB) *GroupRepo { return &GroupRepo{db: db} }

// GetByIDTx loads a group by primary key inside a transaction, taking
// a row lock so concurrent membership transitions on the same group
// serialize. Returns sql.ErrNoRows when the group does not exist.
func (r *GroupRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Group, error) {
    const q = `SELECT id, venue_id, created_at FROM dinner_groups WHERE id = ? FOR UPDATE`
    var g model.Group
    if err := tx.QueryRowContext(ctx, q, id).Scan(&g.ID, &g.VenueID, &g.CreatedAt); err != nil {
        return nil, err
    }
    return &g, nil
}

// GetByVenueTx loads the group for a venue inside a transaction with a
// row lock. Returns sql.ErrNoRows when the venue has no group.
func (r *GroupRepo) GetByVenueTx(ctx context.Context, tx *sql.Tx, venueID string) (*model.Group, error) {
    const q = `SELECT id, venue_id, created_at FROM dinner_groups WHERE venue_id = ? FOR UPDATE`
    var g model.Group
    if err := tx.QueryRowContext(ctx, q, venueID).Scan(&g.ID, &g.VenueID, &g.CreatedAt); err != nil {
        return nil, err
    }
    return &g, nil
}

// CreateTx inserts a new group for the venue and populates the
// generated ID. A concurrent creation for the same venue trips the
// unique constraint; that case is reported as ErrDuplicate so the
// caller can re-read the row that won.
func (r *GroupRepo) CreateTx(ctx context.Context, tx *sql.Tx, venueID string) (*model.Group, error) {
    const q = `INSERT INTO dinner_groups (venue_id) VALUES (?)`
    result, err := tx.ExecContext(ctx, q, venueID)
    if err != nil {
        if isDuplicateKey(err) {
            return nil, ErrDuplicate
        }
        return nil, err
    }
    id, err := result.LastInsertId()
    if err != nil {
        return nil, err
    }
    // Query back the full row to populate timestamps and defaults
    const sel = `SELECT id, venue_id, created_at FROM dinner_groups WHERE id = ?`
    var g model.Group
    if err := tx.QueryRowContext(ctx, sel, id).Scan(&g.ID, &g.VenueID, &g.CreatedAt); err != nil {
        return nil, err
    }
    return &g, nil
}

// DeleteTx removes a group by primary key. Only the membership service
// calls this, and only after the last attendee has left.
func (r *GroupRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    const q = `DELETE FROM dinner_groups WHERE id = ?`
    _, err := tx.ExecContext(ctx, q, id)
    return err
}

// CountAttendeesTx returns the number of attendees currently linked to
// the group, evaluated inside the transaction so the count reflects
// deletes performed earlier in the same flow.
func (r *GroupRepo) CountAttendeesTx(ctx context.Context, tx *sql.Tx, groupID uint64) (int, error) {
    const q = `SELECT COUNT(*) FROM attendees WHERE group_id = ?`
    var n int
    if err := tx.QueryRowContext(ctx, q, groupID).Scan(&n); err != nil {
        return 0, err
    }
    return n, nil
}

// ListWithAttendeeCounts returns every group together with its current
// attendee count. Counts are always read fresh; this query is never
// cached. Groups with zero attendees should not exist, but the join
// would simply omit them if one ever leaked through.
func (r *GroupRepo) ListWithAttendeeCounts(ctx context.Context) ([]model.GroupCount, error) {
    const q = `SELECT g.id, g.venue_id, COUNT(a.id)
               FROM dinner_groups g
               JOIN attendees a ON a.group_id = g.id
               GROUP BY g.id, g.venue_id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    counts := make([]model.GroupCount, 0)
    for rows.Next() {
        var gc model.GroupCount
        if err := rows.Scan(&gc.GroupID, &gc.VenueID, &gc.AttendeeCount); err != nil {
            return nil, err
        }
        counts = append(counts, gc)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return counts, nil
}
