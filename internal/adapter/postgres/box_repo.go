package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boxtracker/internal/domain"

	"github.com/lib/pq"
)

// GetBoxes returns the user's completed-box record.
func (d *DB) GetBoxes(ctx context.Context, userID int64) (*domain.BoxRecord, error) {
	rec := &domain.BoxRecord{UserID: userID}
	var boxes pq.Int64Array
	var day sql.NullString

	err := d.sql.QueryRowContext(ctx,
		"SELECT boxes, last_update_day FROM users WHERE id = $1",
		userID,
	).Scan(&boxes, &day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get boxes: user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}

	rec.Boxes = fromArray(boxes)
	if day.Valid {
		rec.LastUpdateDay = &day.String
	}
	return rec, nil
}

// UpdateBoxes runs apply against the user's record inside a transaction that
// holds a row lock, so concurrent toggles for the same user serialize instead
// of overwriting each other. The row is written only when apply reports a
// change; on any error nothing is persisted.
func (d *DB) UpdateBoxes(ctx context.Context, userID int64, apply func(rec *domain.BoxRecord) bool) (*domain.BoxRecord, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rec := &domain.BoxRecord{UserID: userID}
	var boxes pq.Int64Array
	var day sql.NullString

	err = tx.QueryRowContext(ctx,
		"SELECT boxes, last_update_day FROM users WHERE id = $1 FOR UPDATE",
		userID,
	).Scan(&boxes, &day)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update boxes: user %d not found", userID)
	}
	if err != nil {
		return nil, err
	}

	rec.Boxes = fromArray(boxes)
	if day.Valid {
		rec.LastUpdateDay = &day.String
	}

	if !apply(rec) {
		return rec, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET boxes = $1, last_update_day = $2 WHERE id = $3",
		pq.Array(toArray(rec.Boxes)), rec.LastUpdateDay, userID,
	); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

func fromArray(a pq.Int64Array) []int {
	out := make([]int, len(a))
	for i, v := range a {
		out[i] = int(v)
	}
	return out
}

func toArray(boxes []int) []int64 {
	out := make([]int64, len(boxes))
	for i, v := range boxes {
		out[i] = int64(v)
	}
	return out
}
