package model

import (
	"testing"
	"time"
)

func sample() ParsedSchedule {
	c := NewCourse("CS 484", "Computational Vision")
	c.Sessions = append(c.Sessions, ClassSession{
		ClassNumber:  5123,
		Section:      "001",
		Component:    "LEC",
		DaysAndTimes: "TTh 1:00PM - 2:20PM",
		Room:         "MC 4020",
		Instructor:   "Jane Doe",
		StartDate:    Date(2026, time.January, 5),
		EndDate:      Date(2026, time.April, 6),
	})
	return ParsedSchedule{
		Term:    TermInfo{Season: "Winter", Year: "2026", Level: "Undergraduate", Institution: "University of Waterloo"},
		Courses: []Course{c, NewCourse("MATH 239", "Combinatorics")},
	}
}

func TestFilename(t *testing.T) {
	if got := sample().Filename(); got != "schedule_winter_2026.ics" {
		t.Errorf("Filename() = %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Enrolled", "Dropped", "Waitlisted"} {
		if got, ok := ParseStatus(s); !ok || string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, %v", s, got, ok)
		}
	}
	for _, s := range []string{"enrolled", "Enrolled ", ""} {
		if _, ok := ParseStatus(s); ok {
			t.Errorf("ParseStatus(%q) accepted", s)
		}
	}
}

func TestNewCourseDefaults(t *testing.T) {
	c := NewCourse("CS 136L", "Tools")
	if c.Status != StatusEnrolled || c.Units != 0 || c.Grading != "Unknown" || c.Sessions == nil {
		t.Errorf("unexpected defaults: %+v", c)
	}
}

func TestWithSessionLeavesOriginalUntouched(t *testing.T) {
	orig := sample()

	edited := orig.Courses[0].Sessions[0]
	edited.Room = "DC 1350"
	next, err := orig.WithSession(0, 0, edited)
	if err != nil {
		t.Fatalf("WithSession: %v", err)
	}

	if orig.Courses[0].Sessions[0].Room != "MC 4020" {
		t.Errorf("original mutated: %q", orig.Courses[0].Sessions[0].Room)
	}
	if next.Courses[0].Sessions[0].Room != "DC 1350" {
		t.Errorf("edit not applied: %q", next.Courses[0].Sessions[0].Room)
	}
}

func TestWithCourse(t *testing.T) {
	orig := sample()

	c := orig.Courses[1]
	c.Status = StatusDropped
	next, err := orig.WithCourse(1, c)
	if err != nil {
		t.Fatalf("WithCourse: %v", err)
	}
	if orig.Courses[1].Status != StatusEnrolled || next.Courses[1].Status != StatusDropped {
		t.Errorf("orig=%v next=%v", orig.Courses[1].Status, next.Courses[1].Status)
	}

	// Appending to the replaced course must not leak into the caller's slice.
	next.Courses[0].Sessions = append(next.Courses[0].Sessions, ClassSession{})
	if len(orig.Courses[0].Sessions) != 1 {
		t.Errorf("sessions aliased with original")
	}
}

func TestIndexErrors(t *testing.T) {
	s := sample()
	if _, err := s.WithCourse(2, Course{}); err == nil {
		t.Error("WithCourse(2) should fail")
	}
	if _, err := s.WithSession(1, 0, ClassSession{}); err == nil {
		t.Error("WithSession on empty course should fail")
	}
	if _, err := s.WithSession(-1, 0, ClassSession{}); err == nil {
		t.Error("WithSession(-1) should fail")
	}
}

func TestSessionCount(t *testing.T) {
	if got := sample().SessionCount(); got != 1 {
		t.Errorf("SessionCount() = %d", got)
	}
}
