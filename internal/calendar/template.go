package calendar

import (
	"strings"

	"schedcal/internal/model"
)

// Placeholders recognised in summary/description templates.
const (
	PlaceholderCode     = "@code"
	PlaceholderSection  = "@section"
	PlaceholderName     = "@name"
	PlaceholderType     = "@type"
	PlaceholderLocation = "@location"
	PlaceholderProf     = "@prof"
)

// Default templates used when the caller supplies none.
const (
	DefaultSummaryTemplate     = "@code @type"
	DefaultDescriptionTemplate = "@name (@section) with @prof"
)

// Expand substitutes every placeholder in tpl in a single left-to-right pass,
// so text inserted for one placeholder is never rescanned for another.
// Anything else, including unknown @words, is copied through.
func Expand(tpl string, c model.Course, s model.ClassSession) string {
	r := strings.NewReplacer(
		PlaceholderCode, c.CourseCode,
		PlaceholderSection, s.Section,
		PlaceholderName, c.CourseName,
		PlaceholderType, s.Component,
		PlaceholderLocation, s.Room,
		PlaceholderProf, s.Instructor,
	)
	return r.Replace(tpl)
}
