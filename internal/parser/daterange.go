package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"schedcal/internal/model"
)

var dateRe = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)

// DateRange is the inclusive span a session meets over.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses "DD/MM/YYYY - DD/MM/YYYY" (day first).
func ParseDateRange(s string) (DateRange, bool) {
	parts := strings.Split(s, " - ")
	if len(parts) != 2 {
		return DateRange{}, false
	}
	start, ok := parseDate(strings.TrimSpace(parts[0]))
	if !ok {
		return DateRange{}, false
	}
	end, ok := parseDate(strings.TrimSpace(parts[1]))
	if !ok {
		return DateRange{}, false
	}
	return DateRange{Start: start, End: end}, true
}

func parseDate(s string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	d := model.Date(year, time.Month(month), day)
	// time.Date normalises 31/02 into March; reject instead.
	if d.Day() != day || int(d.Month()) != month || d.Year() != year {
		return time.Time{}, false
	}
	return d, true
}
