// Package timeutil provides small timezone and timestamp helpers.
package timeutil

import "time"

// CompactLayout is the default timestamp layout, suitable for file names.
const CompactLayout = "20060102150405"

// Zone returns a fixed timezone at the given whole-hour UTC offset.
func Zone(offsetHours int, name string) *time.Location {
	return time.FixedZone(name, offsetHours*60*60)
}

// JST returns the Japan Standard Time zone (UTC+9).
func JST() *time.Location {
	return Zone(9, "JST")
}

// NowString formats the current time in loc using layout. An empty layout
// falls back to CompactLayout; a nil loc means local time.
func NowString(layout string, loc *time.Location) string {
	if layout == "" {
		layout = CompactLayout
	}
	now := time.Now()
	if loc != nil {
		now = now.In(loc)
	}
	return now.Format(layout)
}
