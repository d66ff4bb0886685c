package domain

import (
	"strings"
	"time"
)

// ApproachTimeLayout is the CNEOS "cd" field format: English month
// abbreviation, minute resolution, e.g. "2020-Dec-31 12:00".
const ApproachTimeLayout = "2006-Jan-02 15:04"

// DisplayTimeLayout is the unambiguous ISO-style output format. The source
// data carries no seconds, so neither does the output.
const DisplayTimeLayout = "2006-01-02 15:04"

// ParseApproachTime parses a CNEOS calendar date/time. Timestamps are naive
// UTC. Unparsable values coerce to the zero time rather than failing the load.
func ParseApproachTime(s string) time.Time {
	t, err := time.ParseInLocation(ApproachTimeLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatApproachTime renders a timestamp in DisplayTimeLayout.
func FormatApproachTime(t time.Time) string {
	return t.Format(DisplayTimeLayout)
}

// SameDate reports whether two timestamps fall on the same calendar date,
// ignoring time of day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateOnly truncates a timestamp to midnight on its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
