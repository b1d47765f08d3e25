package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const DateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// NormalizeDate parses a calendar date in any common notation and returns it as YYYY-MM-DD.
// The date is taken as written: a zone offset in the input never moves it to another day.
// Input without a year ("12:30", "9/9") is rejected.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidDateFormat
	}

	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}

	t, err := dateparse.ParseAny(s)
	if err != nil || t.Year() == 0 {
		return "", ErrInvalidDateFormat
	}

	return t.Format(DateLayout), nil
}

// NormalizeTime accepts H:MM or HH:MM on a 24h clock and returns zero-padded HH:MM.
func NormalizeTime(raw string) (string, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", ErrInvalidTimeFormat
	}

	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])

	if hours > 23 || minutes > 59 {
		return "", ErrInvalidTimeValues
	}

	return fmt.Sprintf("%02d:%02d", hours, minutes), nil
}
