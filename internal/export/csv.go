// Package export writes a parsed schedule as a flat CSV table, one row per
// session, for spreadsheets.
package export

import (
	"io"
	"strconv"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"schedcal/internal/model"
)

const dateLayout = "2006-01-02"

// SessionRow is one CSV row. Course columns repeat on every session of the
// course; a course with no sessions gets one row with empty session columns.
type SessionRow struct {
	Term         string `csv:"term"`
	CourseCode   string `csv:"course_code"`
	CourseName   string `csv:"course_name"`
	Status       string `csv:"status"`
	Units        string `csv:"units"`
	Grading      string `csv:"grading"`
	ClassNumber  string `csv:"class_number"`
	Section      string `csv:"section"`
	Component    string `csv:"component"`
	DaysAndTimes string `csv:"days_and_times"`
	Room         string `csv:"room"`
	Instructor   string `csv:"instructor"`
	StartDate    string `csv:"start_date"`
	EndDate      string `csv:"end_date"`
}

// Rows flattens s in schedule order.
func Rows(s model.ParsedSchedule) []*SessionRow {
	term := s.Term.Season + " " + s.Term.Year
	rows := make([]*SessionRow, 0, s.SessionCount())
	for _, c := range s.Courses {
		base := SessionRow{
			Term:       term,
			CourseCode: c.CourseCode,
			CourseName: c.CourseName,
			Status:     string(c.Status),
			Units:      strconv.FormatFloat(c.Units, 'f', 2, 64),
			Grading:    c.Grading,
		}
		if len(c.Sessions) == 0 {
			row := base
			rows = append(rows, &row)
			continue
		}
		for _, sess := range c.Sessions {
			row := base
			row.ClassNumber = strconv.Itoa(sess.ClassNumber)
			row.Section = sess.Section
			row.Component = sess.Component
			row.DaysAndTimes = sess.DaysAndTimes
			row.Room = sess.Room
			row.Instructor = sess.Instructor
			row.StartDate = sess.StartDate.Format(dateLayout)
			row.EndDate = sess.EndDate.Format(dateLayout)
			rows = append(rows, &row)
		}
	}
	return rows
}

// WriteSessionsCSV writes the header and one row per session to w.
func WriteSessionsCSV(w io.Writer, s model.ParsedSchedule) error {
	if err := gocsv.Marshal(Rows(s), w); err != nil {
		return errors.Wrap(err, "write sessions csv")
	}
	return nil
}
