package reminder_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"boxtracker/internal/domain"
	"boxtracker/internal/reminder"
)

type fakeNotifier struct {
	granted bool
	showErr error
	shown   int
}

func (n *fakeNotifier) PermissionGranted() bool { return n.granted }

func (n *fakeNotifier) Show(title, body string) error {
	if n.showErr != nil {
		return n.showErr
	}
	n.shown++
	return nil
}

var now = time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)

func day(t time.Time) *string {
	d := domain.LocalDay(t)
	return &d
}

func TestCheckDisabledDoesNothing(t *testing.T) {
	store := reminder.NewMemStore(reminder.Prefs{Enabled: false})
	n := &fakeNotifier{granted: true}

	shown, err := reminder.Check(store, n, nil, now)
	if err != nil || shown {
		t.Fatalf("got shown=%v err=%v, want false, nil", shown, err)
	}
	if n.shown != 0 {
		t.Error("notification shown while reminders disabled")
	}
}

func TestCheckShowsOncePerDay(t *testing.T) {
	store := reminder.NewMemStore(reminder.Prefs{Enabled: true})
	n := &fakeNotifier{granted: true}
	yesterday := day(now.AddDate(0, 0, -1))

	for i := 0; i < 2; i++ {
		if _, err := reminder.Check(store, n, yesterday, now); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	if n.shown != 1 {
		t.Fatalf("notifications shown = %d, want exactly 1 across both runs", n.shown)
	}

	prefs, _ := store.Load()
	if prefs.LastShownDay != domain.LocalDay(now) {
		t.Errorf("last shown day = %q, want today", prefs.LastShownDay)
	}
}

func TestCheckNilLastUpdateStillReminds(t *testing.T) {
	store := reminder.NewMemStore(reminder.Prefs{Enabled: true})
	n := &fakeNotifier{granted: true}

	shown, err := reminder.Check(store, n, nil, now)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !shown || n.shown != 1 {
		t.Error("user who never updated should be reminded")
	}
}

func TestCheckUserActedTodaySuppresses(t *testing.T) {
	store := reminder.NewMemStore(reminder.Prefs{Enabled: true})
	n := &fakeNotifier{granted: true}

	shown, err := reminder.Check(store, n, day(now), now)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if shown || n.shown != 0 {
		t.Error("no reminder expected when the user already acted today")
	}

	// The day is marked handled, so a later run stays quiet even after the
	// caller's view of lastUpdateDay goes stale.
	shown, err = reminder.Check(store, n, day(now.AddDate(0, 0, -3)), now)
	if err != nil || shown || n.shown != 0 {
		t.Errorf("suppressed day resurfaced: shown=%v err=%v", shown, err)
	}
}

func TestCheckWithoutPermissionShowsNothing(t *testing.T) {
	store := reminder.NewMemStore(reminder.Prefs{Enabled: true})
	n := &fakeNotifier{granted: false}

	shown, err := reminder.Check(store, n, nil, now)
	if err != nil || shown {
		t.Fatalf("got shown=%v err=%v, want false, nil", shown, err)
	}

	// Permission denial must not burn the day: once granted, the reminder
	// can still fire.
	n.granted = true
	shown, err = reminder.Check(store, n, nil, now)
	if err != nil || !shown {
		t.Errorf("after grant: shown=%v err=%v, want true, nil", shown, err)
	}
}

func TestCheckNextDayRemindsAgain(t *testing.T) {
	store := reminder.NewMemStore(reminder.Prefs{Enabled: true, LastShownDay: domain.LocalDay(now)})
	n := &fakeNotifier{granted: true}

	tomorrow := now.AddDate(0, 0, 1)
	shown, err := reminder.Check(store, n, day(now), tomorrow)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !shown {
		t.Error("new calendar day should allow a fresh reminder")
	}
}

func TestCheckShowFailureDoesNotMarkDay(t *testing.T) {
	store := reminder.NewMemStore(reminder.Prefs{Enabled: true})
	n := &fakeNotifier{granted: true, showErr: errors.New("platform error")}

	if _, err := reminder.Check(store, n, nil, now); err == nil {
		t.Fatal("expected show error to surface")
	}
	prefs, _ := store.Load()
	if prefs.LastShownDay != "" {
		t.Errorf("failed show marked the day: %q", prefs.LastShownDay)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs", "reminders.json")
	store := reminder.NewFileStore(path)

	// Missing file yields zero prefs.
	prefs, err := store.Load()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if prefs.Enabled || prefs.LastShownDay != "" {
		t.Errorf("missing file prefs = %+v, want zero value", prefs)
	}

	want := reminder.Prefs{Enabled: true, LastShownDay: "2026-08-31"}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestFileStoreBackedCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reminders.json")
	store := reminder.NewFileStore(path)
	if err := store.Save(reminder.Prefs{Enabled: true}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n := &fakeNotifier{granted: true}

	for i := 0; i < 3; i++ {
		if _, err := reminder.Check(store, n, nil, now); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	if n.shown != 1 {
		t.Fatalf("notifications shown = %d, want 1", n.shown)
	}
}
