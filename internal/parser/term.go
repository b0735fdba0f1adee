package parser

import (
	"errors"
	"strings"

	"schedcal/internal/model"
)

// ErrMissingTermInfo is matched by every *ParseError the parser returns.
var ErrMissingTermInfo = errors.New("could not find term information (e.g. \"Winter 2026 | Undergraduate | University of Waterloo\"); make sure you copied the whole page")

// ParseError is the only fatal parser error.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "parse: " + e.Msg }

func (e *ParseError) Is(target error) bool { return target == ErrMissingTermInfo }

// findTerm locates the first term line and returns its index.
func findTerm(lines []string) (model.TermInfo, int, bool) {
	for i, line := range lines {
		if !termLineRe.MatchString(line) {
			continue
		}
		parts := strings.Split(line, " | ")
		if len(parts) != 3 {
			continue
		}
		seasonYear := strings.SplitN(parts[0], " ", 2)
		if len(seasonYear) != 2 {
			continue
		}
		return model.TermInfo{
			Season:      seasonYear[0],
			Year:        seasonYear[1],
			Level:       parts[1],
			Institution: parts[2],
		}, i, true
	}
	return model.TermInfo{}, -1, false
}
