// internal/bench/record.go
// Parsing a single "name,duration" line into a Record

package bench

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed matches every *ParseError via errors.Is.
var ErrMalformed = errors.New("malformed record")

var (
	ErrFieldCount = errors.New("expected exactly one comma")
	ErrEmptyName  = errors.New("empty name")
	ErrNotFinite  = errors.New("duration is not a finite number")
)

// Record is one parsed input line.
type Record struct {
	Name    string
	Seconds float64
	Source  string
	Line    int
}

// ParseError describes a line that could not be turned into a Record.
type ParseError struct {
	Source string
	Line   int
	Text   string
	Reason error
}

func (e *ParseError) Error() string {
	loc := e.Source
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	return fmt.Sprintf("%s: %s %q: %v", loc, ErrMalformed, e.Text, e.Reason)
}

func (e *ParseError) Unwrap() []error { return []error{ErrMalformed, e.Reason} }

// ParseLine splits line on its single comma and converts the duration.
// Surrounding whitespace, including a trailing newline, is ignored.
func ParseLine(line string) (Record, error) {
	text := strings.TrimRight(line, "\r\n")
	fields := strings.Split(text, ",")
	if len(fields) != 2 {
		return Record{}, &ParseError{Text: text, Reason: ErrFieldCount}
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return Record{}, &ParseError{Text: text, Reason: ErrEmptyName}
	}
	secs, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return Record{}, &ParseError{Text: text, Reason: err}
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return Record{}, &ParseError{Text: text, Reason: ErrNotFinite}
	}
	return Record{Name: name, Seconds: secs}, nil
}
