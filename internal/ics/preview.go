package ics

import "time"

// Preview parses a compiled document and expands the meetings that start in
// [from, from+days). Floating event times are read in loc.
func Preview(doc []byte, from time.Time, days int, loc *time.Location) (ExpandResult, error) {
	events, err := ParseICS(doc, loc)
	if err != nil {
		return ExpandResult{}, err
	}
	if days <= 0 {
		days = 7
	}
	return ExpandOccurrences(events, ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      from,
		RangeEnd:        from.AddDate(0, 0, days).Add(-time.Second),
	})
}
