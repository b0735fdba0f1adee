package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the enrollment state of a course.
type Status string

const (
	StatusEnrolled   Status = "Enrolled"
	StatusDropped    Status = "Dropped"
	StatusWaitlisted Status = "Waitlisted"
)

// ParseStatus reports whether s is exactly one of the known statuses.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusEnrolled, StatusDropped, StatusWaitlisted:
		return Status(s), true
	}
	return "", false
}

// TermInfo describes the academic term the whole schedule belongs to.
type TermInfo struct {
	Season      string `json:"season"`
	Year        string `json:"year"`
	Level       string `json:"level"`
	Institution string `json:"institution"`
}

// ClassSession is one weekly meeting pattern of a course, e.g. a lecture slot.
//
// StartDate and EndDate are calendar dates stored as midnight UTC; only their
// year/month/day are meaningful.
type ClassSession struct {
	ClassNumber  int       `json:"classNumber"`
	Section      string    `json:"section"`
	Component    string    `json:"component"`
	DaysAndTimes string    `json:"daysAndTimes"`
	Room         string    `json:"room"`
	Instructor   string    `json:"instructor"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
}

// Course is one registered course with its sessions in source order.
type Course struct {
	CourseCode string         `json:"courseCode"`
	CourseName string         `json:"courseName"`
	Status     Status         `json:"status"`
	Units      float64        `json:"units"`
	Grading    string         `json:"grading"`
	Sessions   []ClassSession `json:"sessions"`
}

// NewCourse returns a course with the defaults a fresh header line implies.
func NewCourse(code, name string) Course {
	return Course{
		CourseCode: code,
		CourseName: name,
		Status:     StatusEnrolled,
		Units:      0,
		Grading:    "Unknown",
		Sessions:   []ClassSession{},
	}
}

// ParsedSchedule is the root value produced by the parser.
type ParsedSchedule struct {
	Term    TermInfo `json:"term"`
	Courses []Course `json:"courses"`
}

// Date builds a calendar date in the representation used by ClassSession.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Filename is the conventional download name, e.g. schedule_winter_2026.ics.
func (p ParsedSchedule) Filename() string {
	return fmt.Sprintf("schedule_%s_%s.ics", strings.ToLower(p.Term.Season), p.Term.Year)
}

// Clone returns a deep copy that shares no slices with p.
func (p ParsedSchedule) Clone() ParsedSchedule {
	out := ParsedSchedule{Term: p.Term, Courses: make([]Course, len(p.Courses))}
	for i, c := range p.Courses {
		out.Courses[i] = c.clone()
	}
	return out
}

func (c Course) clone() Course {
	out := c
	out.Sessions = make([]ClassSession, len(c.Sessions))
	copy(out.Sessions, c.Sessions)
	return out
}

// WithCourse returns a copy of p with the course at index i replaced.
// p itself is left untouched.
func (p ParsedSchedule) WithCourse(i int, c Course) (ParsedSchedule, error) {
	if i < 0 || i >= len(p.Courses) {
		return p, fmt.Errorf("course index %d out of range [0,%d)", i, len(p.Courses))
	}
	out := p.Clone()
	out.Courses[i] = c.clone()
	return out, nil
}

// WithSession returns a copy of p with session si of course ci replaced.
func (p ParsedSchedule) WithSession(ci, si int, s ClassSession) (ParsedSchedule, error) {
	if ci < 0 || ci >= len(p.Courses) {
		return p, fmt.Errorf("course index %d out of range [0,%d)", ci, len(p.Courses))
	}
	if si < 0 || si >= len(p.Courses[ci].Sessions) {
		return p, fmt.Errorf("session index %d out of range [0,%d) for %s", si, len(p.Courses[ci].Sessions), p.Courses[ci].CourseCode)
	}
	out := p.Clone()
	out.Courses[ci].Sessions[si] = s
	return out, nil
}

// SessionCount is the total number of sessions across all courses.
func (p ParsedSchedule) SessionCount() int {
	n := 0
	for _, c := range p.Courses {
		n += len(c.Sessions)
	}
	return n
}

// Occurrence is a single concrete meeting of a recurring class event, as
// produced when a compiled calendar is expanded for preview.
type Occurrence struct {
	UID string `json:"uid"`

	// InstanceKey identifies this meeting within its series; it is the
	// local start time in RFC 3339.
	InstanceKey string `json:"instanceKey"`

	Summary     string `json:"summary"`
	Description string `json:"description"`
	Location    string `json:"location"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
