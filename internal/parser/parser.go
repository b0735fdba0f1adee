// Package parser turns a copy-pasted class schedule list view into a
// model.ParsedSchedule.
//
// Only a missing term line is fatal. Anything else that does not fit its
// expected shape is skipped; skipped sessions with unreadable date ranges
// are reported as diagnostics.
package parser

import (
	appLog "schedcal/internal/log"
	"schedcal/internal/model"
)

// Result is the outcome of a successful parse.
type Result struct {
	Schedule    model.ParsedSchedule
	Diagnostics []string
}

// state is the walker's explicit state. course == nil is NoCourse;
// sessionBlock is only meaningful while a course is open.
type state struct {
	course       *model.Course
	sessionBlock bool
}

// step describes what handling one line did: how many lines were consumed
// and, optionally, a finished course and a diagnostic.
type step struct {
	next       state
	advance    int
	finished   *model.Course
	diagnostic string
}

// Parse parses raw pasted text. The returned schedule shares nothing with
// earlier results.
func Parse(raw string) (Result, error) {
	lines := preprocess(raw)

	term, termIdx, ok := findTerm(lines)
	if !ok {
		return Result{}, &ParseError{Msg: ErrMissingTermInfo.Error()}
	}

	res := Result{
		Schedule: model.ParsedSchedule{Term: term, Courses: []model.Course{}},
	}

	var st state
	for i := termIdx + 1; i < len(lines); {
		s := transition(st, lines, i)
		if s.finished != nil {
			res.Schedule.Courses = appendCourse(res.Schedule.Courses, *s.finished)
		}
		if s.diagnostic != "" {
			appLog.Warn("parser: skipped session", "detail", s.diagnostic)
			res.Diagnostics = append(res.Diagnostics, s.diagnostic)
		}
		st = s.next
		i += s.advance
	}
	if st.course != nil {
		res.Schedule.Courses = appendCourse(res.Schedule.Courses, *st.course)
	}

	appLog.Debug("parser: done",
		"term", term.Season+" "+term.Year,
		"courses", len(res.Schedule.Courses),
		"sessions", res.Schedule.SessionCount(),
		"diagnostics", len(res.Diagnostics),
	)
	return res, nil
}

func appendCourse(courses []model.Course, c model.Course) []model.Course {
	if c.CourseCode == "" {
		return courses
	}
	if len(c.Sessions) == 0 {
		appLog.Debug("parser: course has no sessions", "course", c.CourseCode)
	}
	return append(courses, c)
}

// transition handles the line at lines[i] given st. It never mutates st's
// course in place; a changed course is returned as a new value.
func transition(st state, lines []string, i int) step {
	line := lines[i]

	switch Classify(line) {
	case LineCourseHeader:
		code, name, _ := splitCourseHeader(line)
		c := model.NewCourse(code, name)
		return step{
			next:     state{course: &c},
			advance:  1,
			finished: st.course,
		}

	case LineStatusHeader:
		if st.course == nil {
			break
		}
		p := extractStatusBlock(lines[i+1:])
		c := *st.course
		p.apply(&c)
		return step{
			next:    state{course: &c, sessionBlock: st.sessionBlock},
			advance: 1 + p.consumed,
		}

	case LineSessionHeader:
		if st.course == nil {
			break
		}
		return step{next: state{course: st.course, sessionBlock: true}, advance: 1}

	case LineSessionStart:
		if st.course == nil || !st.sessionBlock {
			break
		}
		end := i + sessionRowLen
		if end > len(lines) {
			end = len(lines)
		}
		sess, outcome := extractSession(lines[i:end])
		switch outcome {
		case rowAccepted:
			c := *st.course
			c.Sessions = append(append(make([]model.ClassSession, 0, len(c.Sessions)+1), c.Sessions...), sess)
			return step{next: state{course: &c, sessionBlock: true}, advance: sessionRowLen}
		case rowBadDates:
			return step{
				next:       st,
				advance:    1,
				diagnostic: invalidDateRange(sess, st.course.CourseCode, lines[i+6]),
			}
		}
	}

	return step{next: st, advance: 1}
}
