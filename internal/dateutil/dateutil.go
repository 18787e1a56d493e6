// Package dateutil formats the free-text dates of résumé entries.
//
// Entry dates are whatever the user typed. Values that look like ISO
// months ("2020-03", "2020-03-15") or numeric months ("03/2020") are
// reformatted with a template's date format; anything else, including
// bare years and words like "Present", passes through unchanged.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// tokens maps format tokens to Go layout components, longest first.
var tokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets are named date formats usable in template descriptors.
var Presets = map[string]string{
	"short":   "MMM YYYY",
	"long":    "MMMM YYYY",
	"numeric": "MM/YYYY",
	"iso":     "YYYY-MM",
	"year":    "YYYY",
}

// inputLayouts are the shapes recognized as reformattable dates.
var inputLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006/01",
	"01/2006",
	"1/2006",
	"Jan 2006",
	"January 2006",
}

// Layout converts a token format ("MMM YYYY") or preset name into a Go
// time layout. Bracketed text is copied literally: "[Since] YYYY".
func Layout(format string) (string, error) {
	if preset, ok := Presets[strings.ToLower(format)]; ok {
		format = preset
	}
	if format == "" {
		return "", fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return "", fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			b.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		matched := false
		for _, t := range tokens {
			if strings.HasPrefix(format[i:], t.token) {
				b.WriteString(t.layout)
				i += len(t.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String(), nil
}

// Formatter reformats entry dates with a compiled layout.
// The zero value passes every date through unchanged.
type Formatter struct {
	layout string
}

// NewFormatter compiles format. An empty format yields a passthrough
// formatter.
func NewFormatter(format string) (Formatter, error) {
	if format == "" {
		return Formatter{}, nil
	}
	layout, err := Layout(format)
	if err != nil {
		return Formatter{}, err
	}
	return Formatter{layout: layout}, nil
}

// Format rewrites a recognized date and returns other values trimmed.
func (f Formatter) Format(value string) string {
	value = strings.TrimSpace(value)
	if f.layout == "" || value == "" {
		return value
	}
	t, ok := parse(value)
	if !ok {
		return value
	}
	return t.Format(f.layout)
}

// Range formats both ends and joins them with " - ", skipping blanks.
func (f Formatter) Range(start, end string) string {
	start, end = f.Format(start), f.Format(end)
	switch {
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

func parse(value string) (time.Time, bool) {
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
