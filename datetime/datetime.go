// Package datetime parses the ISO-8601 date and time forms accepted by
// Internet Object: extended (2020-12-20, 18:20:30.999) and basic
// (20201220, 182030.999) notation, with partial dates and times allowed.
//
// Values without a zone designator are interpreted in UTC. Times parse onto
// 1900-01-01.
package datetime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is wrapped by every parse failure.
var ErrInvalid = errors.New("datetime: invalid value")

var (
	dateExtended = regexp.MustCompile(`^(\d{4})(?:-(\d{2})(?:-(\d{2}))?)?$`)
	dateBasic    = regexp.MustCompile(`^(\d{4})(?:(\d{2})(\d{2})?)?$`)

	timeExtended = regexp.MustCompile(`^(\d{2})(?::(\d{2})(?::(\d{2})(?:\.(\d{1,9}))?)?)?$`)
	timeBasic    = regexp.MustCompile(`^(\d{2})(?:(\d{2})(?:(\d{2})(?:\.(\d{1,9}))?)?)?$`)

	zonePattern = regexp.MustCompile(`^([+-])(\d{2}):?(\d{2})$`)
)

// timeBaseYear is the date every parsed time of day falls on.
const timeBaseYear = 1900

type dateParts struct {
	year, month, day int
}

type timeParts struct {
	hour, min, sec, nsec int
}

// IsDate reports whether s is a valid date.
func IsDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// IsTime reports whether s is a valid time of day.
func IsTime(s string) bool {
	_, err := ParseTime(s)
	return err == nil
}

// IsDateTime reports whether s is a valid date and time joined by 'T'.
func IsDateTime(s string) bool {
	_, err := ParseDateTime(s)
	return err == nil
}

// ParseDate parses YYYY-MM-DD, YYYY-MM, YYYY, YYYYMMDD or YYYYMM. Missing
// months and days default to 1.
func ParseDate(s string) (time.Time, error) {
	d, err := parseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.year, time.Month(d.month), d.day, 0, 0, 0, 0, time.UTC), nil
}

// ParseTime parses HH:MM:SS.sss, HH:MM:SS, HH:MM, HH or their basic forms
// without colons.
func ParseTime(s string) (time.Time, error) {
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(timeBaseYear, time.January, 1, t.hour, t.min, t.sec, t.nsec, time.UTC), nil
}

// ParseDateTime parses a date and a time joined by 'T', followed by an
// optional zone: Z, ±HH:MM or ±HHMM.
func ParseDateTime(s string) (time.Time, error) {
	datePart, rest, ok := strings.Cut(s, "T")
	if !ok {
		return time.Time{}, fmt.Errorf("%w: datetime %q has no time part", ErrInvalid, s)
	}

	d, err := parseDate(datePart)
	if err != nil {
		return time.Time{}, err
	}

	timePart, loc, err := splitZone(rest)
	if err != nil {
		return time.Time{}, err
	}
	t, err := parseTime(timePart)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(d.year, time.Month(d.month), d.day, t.hour, t.min, t.sec, t.nsec, loc), nil
}

func parseDate(s string) (dateParts, error) {
	m := dateExtended.FindStringSubmatch(s)
	if m == nil {
		m = dateBasic.FindStringSubmatch(s)
	}
	if m == nil {
		return dateParts{}, fmt.Errorf("%w: date %q", ErrInvalid, s)
	}

	d := dateParts{
		year:  atoi(m[1], 0),
		month: atoi(m[2], 1),
		day:   atoi(m[3], 1),
	}
	if d.month < 1 || d.month > 12 {
		return dateParts{}, fmt.Errorf("%w: month out of range in %q", ErrInvalid, s)
	}
	if d.day < 1 || d.day > daysIn(d.year, d.month) {
		return dateParts{}, fmt.Errorf("%w: day out of range in %q", ErrInvalid, s)
	}
	return d, nil
}

func parseTime(s string) (timeParts, error) {
	m := timeExtended.FindStringSubmatch(s)
	if m == nil {
		m = timeBasic.FindStringSubmatch(s)
	}
	if m == nil {
		return timeParts{}, fmt.Errorf("%w: time %q", ErrInvalid, s)
	}

	t := timeParts{
		hour: atoi(m[1], 0),
		min:  atoi(m[2], 0),
		sec:  atoi(m[3], 0),
	}
	if m[4] != "" {
		// Right-pad the fraction to nanoseconds: ".619" is 619000000ns.
		t.nsec = atoi(m[4]+strings.Repeat("0", 9-len(m[4])), 0)
	}
	if t.hour > 23 || t.min > 59 || t.sec > 59 {
		return timeParts{}, fmt.Errorf("%w: time out of range in %q", ErrInvalid, s)
	}
	return t, nil
}

// splitZone removes a trailing zone designator from a time.
func splitZone(s string) (string, *time.Location, error) {
	if strings.HasSuffix(s, "Z") {
		return strings.TrimSuffix(s, "Z"), time.UTC, nil
	}

	i := strings.LastIndexAny(s, "+-")
	if i < 0 {
		return s, time.UTC, nil
	}

	m := zonePattern.FindStringSubmatch(s[i:])
	if m == nil {
		return "", nil, fmt.Errorf("%w: zone in %q", ErrInvalid, s)
	}
	hours, mins := atoi(m[2], 0), atoi(m[3], 0)
	if hours > 23 || mins > 59 {
		return "", nil, fmt.Errorf("%w: zone out of range in %q", ErrInvalid, s)
	}
	offset := hours*3600 + mins*60
	if m[1] == "-" {
		offset = -offset
	}
	if offset == 0 {
		return s[:i], time.UTC, nil
	}
	return s[:i], time.FixedZone(s[i:], offset), nil
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func daysIn(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
