// Package calendar compiles a parsed class schedule into an iCalendar
// document of weekly recurring events.
//
// Event times are floating: DTSTART, DTEND and the RRULE UNTIL carry no zone
// and mean the same wall-clock time wherever the calendar is opened, so a
// class stays at 1:00PM on its weekday across DST changes.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "schedcal/internal/log"
	"schedcal/internal/model"
)

// ProductID is written as the calendar's PRODID.
const ProductID = "-//schedcal//Class Schedule Export//EN"

// FloatingLayout formats a local date-time without a zone designator.
const FloatingLayout = "20060102T150405"

// uidNamespace scopes the name-based UUIDs used as event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://schedcal.invalid/session"))

// byDayCodes is indexed by time.Weekday.
var byDayCodes = [...]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// Result is a compiled calendar and the sessions that could not be exported.
type Result struct {
	Document []byte
	Warnings []string
	Events   int
}

// Compiler holds the knobs for Compile. The zero value stamps events with
// the wall clock.
type Compiler struct {
	// Now supplies DTSTAMP. Nil means time.Now.
	Now func() time.Time
}

// Compile compiles with a zero Compiler.
func Compile(s model.ParsedSchedule, summaryTpl, descriptionTpl string) Result {
	var c Compiler
	return c.Compile(s, summaryTpl, descriptionTpl)
}

// Compile never fails: sessions that cannot be exported are skipped with a
// warning and the document is always a valid, possibly empty, VCALENDAR.
func (c *Compiler) Compile(s model.ParsedSchedule, summaryTpl, descriptionTpl string) Result {
	now := c.Now
	if now == nil {
		now = time.Now
	}
	stamp := now()

	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetVersion("2.0")
	cal.SetMethod(ical.MethodPublish)

	var res Result
	for _, course := range s.Courses {
		for _, sess := range course.Sessions {
			ev, err := buildEvent(course, sess)
			if err != nil {
				w := fmt.Sprintf("Skipped %s (%s): %s", course.CourseCode, sess.Component, err.Error())
				appLog.Warn("calendar: session skipped", "course", course.CourseCode, "class_number", sess.ClassNumber, "reason", err.Error())
				res.Warnings = append(res.Warnings, w)
				continue
			}

			vev := cal.AddEvent(ev.uid)
			vev.SetDtStampTime(stamp)
			vev.SetProperty(ical.ComponentPropertyDtStart, ev.start.Format(FloatingLayout))
			vev.SetProperty(ical.ComponentPropertyDtEnd, ev.end.Format(FloatingLayout))
			vev.SetSummary(Expand(summaryTpl, course, sess))
			vev.SetDescription(Expand(descriptionTpl, course, sess))
			vev.SetLocation(sess.Room)
			vev.SetProperty(ical.ComponentPropertyRrule, ev.rrule)
			res.Events++
		}
	}

	res.Document = []byte(cal.Serialize())
	appLog.Info("calendar compiled",
		"term", s.Term.Season+" "+s.Term.Year,
		"events", res.Events,
		"warnings", len(res.Warnings),
	)
	return res
}

// skipReason is a warning reason; its text is user-facing.
type skipReason string

func (r skipReason) Error() string { return string(r) }

// event times are wall-clock values carried in time.UTC.
type event struct {
	uid   string
	start time.Time
	end   time.Time
	rrule string
}

func buildEvent(course model.Course, sess model.ClassSession) (event, error) {
	if sess.DaysAndTimes == "TBA" {
		return event{}, skipReason("Time is TBA")
	}

	m, err := ParseDaysAndTimes(sess.DaysAndTimes)
	switch {
	case errors.Is(err, errNoDays):
		return event{}, skipReason(fmt.Sprintf(`No valid days found in "%s"`, sess.DaysAndTimes))
	case err != nil:
		return event{}, skipReason(fmt.Sprintf(`Could not parse days and times "%s"`, sess.DaysAndTimes))
	}

	first := firstOccurrence(sess.StartDate, m.Days)
	start := at(first, m.Start, time.UTC)
	end := at(first, m.End, time.UTC)
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}

	return event{
		uid:   EventUID(course.CourseCode, sess.ClassNumber),
		start: start,
		end:   end,
		rrule: weeklyRule(m.Days, sess.EndDate),
	}, nil
}

// weeklyRule renders FREQ=WEEKLY;UNTIL=...;BYDAY=... with a floating UNTIL at
// the last second of endDate, so a meeting on endDate itself is included.
func weeklyRule(days []time.Weekday, endDate time.Time) string {
	codes := make([]string, 0, len(days))
	for _, wd := range days {
		codes = append(codes, byDayCodes[wd])
	}
	until := time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, time.UTC)
	return "FREQ=WEEKLY;UNTIL=" + until.Format(FloatingLayout) + ";BYDAY=" + strings.Join(codes, ",")
}

// EventUID is stable for a given course code and class number, so
// re-importing an updated export replaces events instead of duplicating them.
func EventUID(courseCode string, classNumber int) string {
	return uuid.NewSHA1(uidNamespace, []byte(courseCode+"#"+strconv.Itoa(classNumber))).String() + "@schedcal"
}
