// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"time"

	"boxtracker/internal/domain"
)

// ErrInvalidIndex indicates a box index outside [1, 200].
var ErrInvalidIndex = errors.New("box index must be between 1 and 200")

// BoxService encapsulates the completed-box toggle use cases.
type BoxService struct {
	repo domain.BoxRepository
}

// NewBoxService creates a BoxService backed by the given repository.
func NewBoxService(repo domain.BoxRepository) *BoxService {
	return &BoxService{repo: repo}
}

// Get returns the user's canonical completed-box record.
func (s *BoxService) Get(ctx context.Context, userID int64) (*domain.BoxRecord, error) {
	return s.repo.GetBoxes(ctx, userID)
}

// SetBoxState marks a single box completed or not and returns the full
// canonical record after the mutation. The upsert is idempotent: setting an
// already-matching state leaves the set untouched. The last-update day is
// stamped only when membership actually changed, so a no-op request never
// moves the date.
func (s *BoxService) SetBoxState(ctx context.Context, userID int64, index int, completed bool) (*domain.BoxRecord, error) {
	if index < domain.MinBoxIndex || index > domain.MaxBoxIndex {
		return nil, ErrInvalidIndex
	}
	return s.repo.UpdateBoxes(ctx, userID, func(rec *domain.BoxRecord) bool {
		if !rec.SetBox(index, completed) {
			return false
		}
		day := domain.LocalDay(time.Now())
		rec.LastUpdateDay = &day
		return true
	})
}
