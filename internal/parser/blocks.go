package parser

import (
	"fmt"
	"strconv"

	"schedcal/internal/model"
)

// statusPatch is what a "Status / Units / Grading" block contributes to the
// current course. Nil fields were not present (or failed their check).
type statusPatch struct {
	status   *model.Status
	units    *float64
	grading  *string
	consumed int
}

// extractStatusBlock reads the optional status, units and grading values
// that follow a status header. window holds the lines after the header.
// Each step only consumes its line when the value passes its check; a
// failed step leaves the next step looking at the same line.
func extractStatusBlock(window []string) statusPatch {
	var p statusPatch
	at := func() (string, bool) {
		if p.consumed < len(window) {
			return window[p.consumed], true
		}
		return "", false
	}

	if line, ok := at(); ok {
		if st, ok := model.ParseStatus(line); ok {
			p.status = &st
			p.consumed++
		}
	}
	if line, ok := at(); ok {
		if u, err := strconv.ParseFloat(line, 64); err == nil {
			p.units = &u
			p.consumed++
		}
	}
	if line, ok := at(); ok {
		g := line
		p.grading = &g
		p.consumed++
	}
	return p
}

func (p statusPatch) apply(c *model.Course) {
	if p.status != nil {
		c.Status = *p.status
	}
	if p.units != nil {
		c.Units = *p.units
	}
	if p.grading != nil {
		c.Grading = *p.grading
	}
}

// sessionRowLen is the class-number line plus six field lines.
const sessionRowLen = 7

type rowOutcome int

const (
	rowAccepted rowOutcome = iota
	rowRejected
	rowBadDates
)

// extractSession tries to read one session from row, which starts with the
// class-number line. On rowBadDates only ClassNumber and Component are set,
// for the diagnostic.
func extractSession(row []string) (model.ClassSession, rowOutcome) {
	if len(row) < sessionRowLen {
		return model.ClassSession{}, rowRejected
	}
	nbr, err := strconv.Atoi(row[0])
	if err != nil {
		return model.ClassSession{}, rowRejected
	}
	section, component := row[1], row[2]
	if len(section) > 5 || !componentRe.MatchString(component) {
		return model.ClassSession{}, rowRejected
	}
	dates, ok := ParseDateRange(row[6])
	if !ok {
		return model.ClassSession{ClassNumber: nbr, Component: component}, rowBadDates
	}
	return model.ClassSession{
		ClassNumber:  nbr,
		Section:      section,
		Component:    component,
		DaysAndTimes: row[3],
		Room:         row[4],
		Instructor:   row[5],
		StartDate:    dates.Start,
		EndDate:      dates.End,
	}, rowAccepted
}

// invalidDateRange uses the same "Skipped <code> (<component>): <reason>"
// shape as the calendar compiler's warnings.
func invalidDateRange(s model.ClassSession, code, raw string) string {
	return fmt.Sprintf("Skipped %s (%s): Invalid date range for session %d in course %s: %s",
		code, s.Component, s.ClassNumber, code, raw)
}
