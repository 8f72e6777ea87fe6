// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"boxtracker/internal/domain"
)

// DB implements in-memory storage for users and their completed-box records.
type DB struct {
	mu      sync.Mutex
	users   []*domain.User
	records map[int64]*domain.BoxRecord

	userIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		records: make(map[int64]*domain.BoxRecord),
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.BoxRepository = (*DB)(nil)

// --- UserRepository ---

// GetByEmail retrieves a user by email.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

// Create creates a new user with an empty completed-box record.
func (db *DB) Create(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			return nil, errors.New("user already exists")
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	db.records[u.ID] = &domain.BoxRecord{UserID: u.ID, Boxes: []int{}}
	return u, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- BoxRepository ---

// GetBoxes returns a copy of the user's completed-box record.
func (db *DB) GetBoxes(ctx context.Context, userID int64) (*domain.BoxRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.records[userID]
	if !ok {
		return nil, fmt.Errorf("get boxes: user %d not found", userID)
	}
	return rec.Clone(), nil
}

// UpdateBoxes applies apply under the store mutex, so updates for a user
// never interleave. The stored record is replaced only when apply reports a
// change.
func (db *DB) UpdateBoxes(ctx context.Context, userID int64, apply func(rec *domain.BoxRecord) bool) (*domain.BoxRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.records[userID]
	if !ok {
		return nil, fmt.Errorf("update boxes: user %d not found", userID)
	}

	next := rec.Clone()
	if apply(next) {
		db.records[userID] = next
	}
	return next.Clone(), nil
}
