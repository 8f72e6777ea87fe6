package domain

import "time"

const dayLayout = "2006-01-02"

// LocalDay formats t as a calendar day in the local timezone.
func LocalDay(t time.Time) string {
	return t.In(time.Local).Format(dayLayout)
}
