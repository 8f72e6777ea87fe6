// Package client holds the local optimistic mirror of the server's
// completed-box state.
package client

import (
	"context"
	"sort"
	"sync"
	"time"

	"boxtracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// UnitValue is the fixed amount each completed box represents, in LKR.
var UnitValue = decimal.NewFromInt(1500)

// State is the canonical server state as returned by the boxes endpoint.
type State struct {
	Boxes          []int   `json:"boxes"`
	LastUpdateDate *string `json:"lastUpdateDate"`
}

// Remote is the port to the server-side toggle service.
type Remote interface {
	Fetch(ctx context.Context) (*State, error)
	Toggle(ctx context.Context, index int, completed bool) (*State, error)
}

// Snapshot is an immutable view of the local state handed to observers.
type Snapshot struct {
	Boxes           []int
	CompletedCount  int
	TotalAmount     decimal.Decimal
	ProgressPercent float64
	LastUpdateDay   *string
}

// Engine mirrors the server's completed set, applies toggles optimistically,
// and reverts a toggle's own slot when its confirmation fails. Failed toggles
// are never retried; a new user action is required.
type Engine struct {
	remote  Remote
	log     *logrus.Entry
	timeout time.Duration

	onChange func(Snapshot)
	onError  func(index int, err error)

	mu            sync.Mutex
	local         map[int]bool
	gens          map[int]uint64
	lastUpdateDay *string

	inflight sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// OnChange registers the observer called after every local state change.
// Toggle delivers its optimistic snapshot synchronously. Snapshots produced
// by concurrent confirmations are delivered outside the engine lock, so two
// of them may arrive out of order relative to one another; each snapshot is
// internally consistent regardless.
func OnChange(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onChange = fn }
}

// OnError registers the hook called when a toggle confirmation fails, after
// the rollback has been applied.
func OnError(fn func(index int, err error)) Option {
	return func(e *Engine) { e.onError = fn }
}

// WithTimeout sets the per-request timeout for remote calls.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// NewEngine creates an Engine over the given remote.
func NewEngine(remote Remote, log *logrus.Entry, opts ...Option) *Engine {
	e := &Engine{
		remote:  remote,
		log:     log,
		timeout: 10 * time.Second,
		local:   make(map[int]bool),
		gens:    make(map[int]uint64),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load initializes the local mirror from the server and notifies observers.
func (e *Engine) Load(ctx context.Context) error {
	st, err := e.remote.Fetch(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.local = make(map[int]bool, len(st.Boxes))
	for _, b := range st.Boxes {
		e.local[b] = true
	}
	e.gens = make(map[int]uint64)
	e.lastUpdateDay = st.LastUpdateDate
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
	return nil
}

// Toggle flips the slot's local membership immediately and confirms the
// change with the server in the background. Rapid repeated calls each compute
// from the latest local state; they are not queued or batched.
func (e *Engine) Toggle(index int) {
	e.mu.Lock()
	was := e.local[index]
	e.setLocked(index, !was)
	e.gens[index]++
	gen := e.gens[index]
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)

	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		e.confirm(index, !was, gen)
	}()
}

func (e *Engine) confirm(index int, completed bool, gen uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	st, err := e.remote.Toggle(ctx, index, completed)
	if err != nil {
		// Roll back this toggle's own before/after pair. The generation check
		// keeps a stale failure from clobbering a later toggle on the slot.
		e.mu.Lock()
		reverted := false
		if e.gens[index] == gen {
			e.setLocked(index, !completed)
			reverted = true
		}
		snap := e.snapshotLocked()
		e.mu.Unlock()

		if reverted {
			e.notify(snap)
		}
		e.log.WithError(err).WithField("index", index).Warn("toggle confirmation failed")
		if e.onError != nil {
			e.onError(index, err)
		}
		return
	}

	// The request encoded the intended target state, so the set needs no
	// correction; adopt the server's last-update day for reminder checks.
	e.mu.Lock()
	changed := !equalDay(e.lastUpdateDay, st.LastUpdateDate)
	e.lastUpdateDay = st.LastUpdateDate
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if changed {
		e.notify(snap)
	}
}

// Wait blocks until all in-flight confirmations finish.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

// Has reports the local membership of a slot.
func (e *Engine) Has(index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.local[index]
}

// CompletedCount returns the local number of completed boxes.
func (e *Engine) CompletedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.local)
}

// TotalAmount returns the saved amount: completed count times the unit value.
func (e *Engine) TotalAmount() decimal.Decimal {
	return UnitValue.Mul(decimal.NewFromInt(int64(e.CompletedCount())))
}

// ProgressPercent returns completion as a percentage of all boxes.
func (e *Engine) ProgressPercent() float64 {
	return float64(e.CompletedCount()) * 100 / float64(domain.MaxBoxIndex)
}

// LastUpdateDay returns the last server-confirmed update day.
func (e *Engine) LastUpdateDay() *string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUpdateDay
}

// Snapshot returns the current local state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) setLocked(index int, completed bool) {
	if completed {
		e.local[index] = true
	} else {
		delete(e.local, index)
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	boxes := make([]int, 0, len(e.local))
	for b := range e.local {
		boxes = append(boxes, b)
	}
	sort.Ints(boxes)

	count := len(boxes)
	return Snapshot{
		Boxes:           boxes,
		CompletedCount:  count,
		TotalAmount:     UnitValue.Mul(decimal.NewFromInt(int64(count))),
		ProgressPercent: float64(count) * 100 / float64(domain.MaxBoxIndex),
		LastUpdateDay:   e.lastUpdateDay,
	}
}

func (e *Engine) notify(snap Snapshot) {
	if e.onChange != nil {
		e.onChange(snap)
	}
}

func equalDay(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
