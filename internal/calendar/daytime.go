package calendar

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	errUnparseable = errors.New("could not parse days and times")
	errNoDays      = errors.New("no valid days")
)

// dayTokens maps the schedule's day abbreviations to weekdays. Two-letter
// tokens are tried before one-letter ones.
var dayTokens = map[string]time.Weekday{
	"M":  time.Monday,
	"T":  time.Tuesday,
	"W":  time.Wednesday,
	"Th": time.Thursday,
	"F":  time.Friday,
	"S":  time.Saturday,
	"Su": time.Sunday,
}

// "TTh 1:00PM - 2:20PM"
var daysTimesRe = regexp.MustCompile(`^([A-Za-z]+)\s+(\d{1,2}):(\d{2})\s*([AaPp][Mm])\s*-\s*(\d{1,2}):(\d{2})\s*([AaPp][Mm])$`)

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
}

// Meeting is a decoded "days and times" field.
type Meeting struct {
	// Days is sorted Monday..Sunday without duplicates.
	Days  []time.Weekday
	Start Clock
	End   Clock
}

// ParseDaysAndTimes decodes strings like "TTh 1:00PM - 2:20PM" or
// "MWF 9:30am - 10:20am". Unknown letters in the day part are skipped.
func ParseDaysAndTimes(s string) (Meeting, error) {
	m := daysTimesRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Meeting{}, errUnparseable
	}

	start, ok := parseClock(m[2], m[3], m[4])
	if !ok {
		return Meeting{}, errUnparseable
	}
	end, ok := parseClock(m[5], m[6], m[7])
	if !ok {
		return Meeting{}, errUnparseable
	}

	days := parseDays(m[1])
	if len(days) == 0 {
		return Meeting{}, errNoDays
	}
	return Meeting{Days: days, Start: start, End: end}, nil
}

func parseDays(s string) []time.Weekday {
	seen := make(map[time.Weekday]bool)
	for i := 0; i < len(s); {
		if i+2 <= len(s) {
			if wd, ok := dayTokens[s[i:i+2]]; ok {
				seen[wd] = true
				i += 2
				continue
			}
		}
		if wd, ok := dayTokens[s[i:i+1]]; ok {
			seen[wd] = true
		}
		i++
	}

	days := make([]time.Weekday, 0, len(seen))
	for wd := range seen {
		days = append(days, wd)
	}
	sort.Slice(days, func(a, b int) bool { return mondayFirst(days[a]) < mondayFirst(days[b]) })
	return days
}

func mondayFirst(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

// parseClock converts a 12-hour clock reading to 24-hour.
func parseClock(hh, mm, meridiem string) (Clock, bool) {
	h, err := strconv.Atoi(hh)
	if err != nil || h < 1 || h > 12 {
		return Clock{}, false
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || minute > 59 {
		return Clock{}, false
	}
	pm := strings.EqualFold(meridiem, "pm")
	switch {
	case h == 12 && !pm:
		h = 0
	case pm && h != 12:
		h += 12
	}
	return Clock{Hour: h, Minute: minute}, true
}

// firstOccurrence returns the earliest date on or after from whose weekday
// is in days. days must be non-empty.
func firstOccurrence(from time.Time, days []time.Weekday) time.Time {
	best := 7
	for _, wd := range days {
		off := (int(wd) - int(from.Weekday()) + 7) % 7
		if off < best {
			best = off
		}
	}
	return from.AddDate(0, 0, best)
}

// at places c on the calendar date of day in loc.
func at(day time.Time, c Clock, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, loc)
}
