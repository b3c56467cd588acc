package appointment

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/spa-scheduler/internal/httperr"
)

// Times of day travel as "HH:MM" strings and are compared lexically by the
// stores, so every stored value must be zero padded.

var errInvalidTime = httperr.ErrValidation("invalid_time", "invalid time")

// ParseClock returns the minutes since midnight of an "H:MM" or "HH:MM" value.
func ParseClock(raw string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return 0, errInvalidTime
	}

	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, errInvalidTime
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, errInvalidTime
	}

	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM". Values past 23:59
// keep counting hours ("24:30") instead of wrapping to the next day.
func FormatClock(totalMinutes int) string {
	return fmt.Sprintf("%02d:%02d", totalMinutes/60, totalMinutes%60)
}

// NormalizeClock validates raw and returns its zero padded form.
func NormalizeClock(raw string) (string, error) {
	total, err := ParseClock(raw)
	if err != nil {
		return "", err
	}
	return FormatClock(total), nil
}

// ComputeEndTime adds durationMinutes to startTime. There is no day rollover:
// 23:30 + 60 is "24:30".
func ComputeEndTime(startTime string, durationMinutes int) (string, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return "", err
	}
	if durationMinutes <= 0 {
		return "", httperr.ErrValidation("invalid_duration", "invalid service duration")
	}
	return FormatClock(start + durationMinutes), nil
}
