package parser

import (
	"regexp"
	"strings"
)

// LineKind is the class a single trimmed line falls into.
type LineKind int

const (
	LineOther LineKind = iota
	LineCourseHeader
	LineStatusHeader
	LineSessionHeader
	LineSessionStart
)

func (k LineKind) String() string {
	switch k {
	case LineCourseHeader:
		return "course-header"
	case LineStatusHeader:
		return "status-header"
	case LineSessionHeader:
		return "session-header"
	case LineSessionStart:
		return "session-start"
	default:
		return "other"
	}
}

var (
	// "CS 484 - Computational Vision", "ECE 100A - ..."
	courseHeaderRe = regexp.MustCompile(`^([A-Z]{2,10}) (\d{1,4}[A-Z]?) - (.*)$`)
	classNumberRe  = regexp.MustCompile(`^\d{4,5}$`)
	componentRe    = regexp.MustCompile(`^[A-Z]{3,4}$`)
	// "Winter 2026 | Undergraduate | University of Waterloo"
	termLineRe = regexp.MustCompile(`^[A-Za-z]+ \d{4} \| [^|]+ \| [^|]+$`)
)

// Classify assigns a line to exactly one kind, testing in priority order:
// course header, status header, session-table header, session row start.
// Whether a session row start is acted on depends on parser state, not on
// the line itself.
func Classify(line string) LineKind {
	switch {
	case courseHeaderRe.MatchString(line):
		return LineCourseHeader
	case strings.HasPrefix(line, "Status") && strings.Contains(line, "Units") && strings.Contains(line, "Grading"):
		return LineStatusHeader
	case strings.HasPrefix(line, "Class Nbr") && strings.Contains(line, "Section"):
		return LineSessionHeader
	case classNumberRe.MatchString(line):
		return LineSessionStart
	default:
		return LineOther
	}
}

// splitCourseHeader returns "CS 484" and the free-text title.
func splitCourseHeader(line string) (code, name string, ok bool) {
	m := courseHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1] + " " + m[2], strings.TrimSpace(m[3]), true
}

// preprocess normalises line endings, trims every line and drops blanks.
func preprocess(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	parts := strings.Split(raw, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}
