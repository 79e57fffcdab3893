package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/devevents-app/devevents/internal/entity"
)

var (
	datePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

// Date validates a strict YYYY-MM-DD input and returns it in canonical
// form. The date is constructed in UTC and its components re-checked
// against the input, so calendar rollovers like 2024-02-30 are rejected
// instead of silently becoming 2024-03-01.
func Date(input string) (string, error) {
	parts := datePattern.FindStringSubmatch(input)
	if parts == nil {
		return "", entity.ErrInvalidDate
	}

	year, _ := strconv.Atoi(parts[1])
	month, _ := strconv.Atoi(parts[2])
	day, _ := strconv.Atoi(parts[3])

	parsed := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if parsed.Year() != year || parsed.Month() != time.Month(month) || parsed.Day() != day {
		return "", entity.ErrInvalidDate
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// Time validates an H:MM or HH:MM 24-hour input. Valid input is returned
// unchanged; the pattern is already canonical.
func Time(input string) (string, error) {
	if !timePattern.MatchString(input) {
		return "", entity.ErrInvalidTime
	}
	return input, nil
}
