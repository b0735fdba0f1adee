package calendar

import (
	"testing"

	"schedcal/internal/model"
)

func TestExpand(t *testing.T) {
	c := model.Course{CourseCode: "CS 484", CourseName: "Computational Vision"}
	s := model.ClassSession{Section: "001", Component: "LEC", Room: "MC 4020", Instructor: "Jane Doe"}

	tests := []struct {
		tpl  string
		want string
	}{
		{"@code @type in @location", "CS 484 LEC in MC 4020"},
		{"@name (@section) - @prof", "Computational Vision (001) - Jane Doe"},
		{"@code/@code", "CS 484/CS 484"},
		{"@unknown @code", "@unknown CS 484"},
		{"no placeholders", "no placeholders"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Expand(tt.tpl, c, s); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.tpl, got, tt.want)
		}
	}
}

func TestExpandDoesNotRescanSubstitutions(t *testing.T) {
	c := model.Course{CourseCode: "@name", CourseName: "Vision"}
	if got := Expand("@code", c, model.ClassSession{}); got != "@name" {
		t.Errorf("Expand rescanned inserted text: %q", got)
	}
}
