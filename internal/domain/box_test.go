package domain_test

import (
	"reflect"
	"testing"
	"time"

	"boxtracker/internal/domain"
)

func TestSetBox(t *testing.T) {
	tests := []struct {
		name        string
		start       []int
		index       int
		completed   bool
		want        []int
		wantChanged bool
	}{
		{"add to empty", nil, 5, true, []int{5}, true},
		{"remove present", []int{5, 10}, 5, false, []int{10}, true},
		{"add new keeps sorted", []int{10}, 15, true, []int{10, 15}, true},
		{"add before existing", []int{10, 15}, 3, true, []int{3, 10, 15}, true},
		{"add already present is no-op", []int{5, 10}, 5, true, []int{5, 10}, false},
		{"remove absent is no-op", []int{5, 10}, 15, false, []int{5, 10}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &domain.BoxRecord{Boxes: append([]int(nil), tc.start...)}
			changed := rec.SetBox(tc.index, tc.completed)
			if changed != tc.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tc.wantChanged)
			}
			if len(rec.Boxes) != len(tc.want) || (len(tc.want) > 0 && !reflect.DeepEqual(rec.Boxes, tc.want)) {
				t.Errorf("boxes = %v, want %v", rec.Boxes, tc.want)
			}
		})
	}
}

func TestSetBoxDoubleToggleRestoresMembership(t *testing.T) {
	for _, start := range [][]int{{}, {42}, {1, 42, 200}} {
		rec := &domain.BoxRecord{Boxes: append([]int{}, start...)}
		before := append([]int{}, rec.Boxes...)

		had := rec.Has(42)
		rec.SetBox(42, !had)
		rec.SetBox(42, had)

		if !reflect.DeepEqual(rec.Boxes, before) {
			t.Errorf("double toggle from %v left %v", before, rec.Boxes)
		}
	}
}

func TestSetBoxNeverDuplicates(t *testing.T) {
	rec := &domain.BoxRecord{}
	ops := []struct {
		index     int
		completed bool
	}{
		{7, true}, {7, true}, {3, true}, {7, false}, {7, true}, {3, true},
	}
	for _, op := range ops {
		rec.SetBox(op.index, op.completed)
	}

	seen := make(map[int]bool)
	for _, b := range rec.Boxes {
		if b < domain.MinBoxIndex || b > domain.MaxBoxIndex {
			t.Errorf("box %d out of range", b)
		}
		if seen[b] {
			t.Errorf("duplicate box %d in %v", b, rec.Boxes)
		}
		seen[b] = true
	}
}

func TestCloneIsIndependent(t *testing.T) {
	day := "2026-08-31"
	rec := &domain.BoxRecord{UserID: 1, Boxes: []int{1, 2}, LastUpdateDay: &day}

	c := rec.Clone()
	c.SetBox(3, true)
	other := "2026-09-01"
	c.LastUpdateDay = &other

	if len(rec.Boxes) != 2 {
		t.Errorf("clone mutation leaked into original: %v", rec.Boxes)
	}
	if *rec.LastUpdateDay != day {
		t.Errorf("clone day mutation leaked: %s", *rec.LastUpdateDay)
	}
}

func TestLocalDay(t *testing.T) {
	got := domain.LocalDay(time.Date(2026, 8, 31, 23, 15, 0, 0, time.Local))
	if got != "2026-08-31" {
		t.Errorf("LocalDay = %q, want %q", got, "2026-08-31")
	}
}
