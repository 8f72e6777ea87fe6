// Package reminder decides, once per calendar day, whether to nudge the user
// who has not marked a box today.
package reminder

import (
	"time"

	"boxtracker/internal/domain"
)

// Notification text surfaced to the user.
const (
	Title = "Don't forget your savings!"
	Body  = "You haven't added a 1500 box today — add one now!"
)

// Prefs is the device-local reminder preference state. Nothing here is ever
// synchronized to the server.
type Prefs struct {
	Enabled      bool   `json:"remindersEnabled"`
	LastShownDay string `json:"lastNotificationShownDate"`
}

// PrefStore persists Prefs on the device.
type PrefStore interface {
	Load() (Prefs, error)
	Save(Prefs) error
}

// Notifier is the platform notification surface. Requesting permission is
// not part of this package: the platform only allows the permission prompt
// inside a user gesture, never from a background check.
type Notifier interface {
	PermissionGranted() bool
	Show(title, body string) error
}

// Check runs the daily reminder decision. It may be called any number of
// times; at most one notification is shown per local calendar day. Returns
// whether a notification was shown on this run.
func Check(store PrefStore, n Notifier, lastUpdateDay *string, now time.Time) (bool, error) {
	prefs, err := store.Load()
	if err != nil {
		return false, err
	}
	if !prefs.Enabled {
		return false, nil
	}

	today := domain.LocalDay(now)
	if prefs.LastShownDay == today {
		return false, nil
	}

	if lastUpdateDay != nil && *lastUpdateDay == today {
		// User already acted today; mark handled so later runs stay quiet.
		prefs.LastShownDay = today
		return false, store.Save(prefs)
	}

	if !n.PermissionGranted() {
		return false, nil
	}
	if err := n.Show(Title, Body); err != nil {
		return false, err
	}
	prefs.LastShownDay = today
	return true, store.Save(prefs)
}
