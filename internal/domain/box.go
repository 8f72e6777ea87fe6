// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"sort"
)

// Box index bounds. Every tracked slot is one of 200 fixed-value boxes.
const (
	MinBoxIndex = 1
	MaxBoxIndex = 200
)

// BoxRecord is the server-authoritative completed-box state for one user.
type BoxRecord struct {
	UserID        int64   `json:"userId"`
	Boxes         []int   `json:"boxes"`
	LastUpdateDay *string `json:"lastUpdateDate"`
}

// Has reports whether the given box index is marked complete.
func (r *BoxRecord) Has(index int) bool {
	for _, b := range r.Boxes {
		if b == index {
			return true
		}
	}
	return false
}

// SetBox adds or removes index from the completed set and reports whether
// membership actually changed. The set stays sorted and duplicate-free.
func (r *BoxRecord) SetBox(index int, completed bool) bool {
	has := r.Has(index)
	if completed == has {
		return false
	}
	if completed {
		r.Boxes = append(r.Boxes, index)
		sort.Ints(r.Boxes)
		return true
	}
	for i, b := range r.Boxes {
		if b == index {
			r.Boxes = append(r.Boxes[:i], r.Boxes[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of the record.
func (r *BoxRecord) Clone() *BoxRecord {
	c := &BoxRecord{UserID: r.UserID, Boxes: make([]int, len(r.Boxes))}
	copy(c.Boxes, r.Boxes)
	if r.LastUpdateDay != nil {
		day := *r.LastUpdateDay
		c.LastUpdateDay = &day
	}
	return c
}

// BoxRepository is the port for completed-box persistence.
//
// UpdateBoxes must run apply against the user's current record as one atomic
// unit per user: no two concurrent updates for the same user may interleave
// their read-modify-write. The mutated record is persisted only when apply
// reports a change; either way the canonical record is returned.
type BoxRepository interface {
	GetBoxes(ctx context.Context, userID int64) (*BoxRecord, error)
	UpdateBoxes(ctx context.Context, userID int64, apply func(rec *BoxRecord) (changed bool)) (*BoxRecord, error)
}
