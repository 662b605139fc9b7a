package commands

import (
	"fmt"
	"strings"
	"time"
)

// ParseWhen turns a command-line time expression into an absolute
// moment. Accepted forms:
//
//	+30m            relative to now
//	14:05           next occurrence of that wall-clock time
//	2026-09-04T14:05 or "2026-09-04 14:05"
//
// An HH:MM already past today rolls to tomorrow so `add 07:00 ...`
// typed in the evening does what the user means.
func ParseWhen(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "time is empty"}
	}

	if strings.HasPrefix(expr, "+") {
		d, err := time.ParseDuration(expr[1:])
		if err != nil || d <= 0 {
			return time.Time{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("bad duration: %s", expr)}
		}
		return now.Add(d), nil
	}

	if t, err := time.ParseInLocation("15:04", expr, now.Location()); err == nil {
		at := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
		if !at.After(now) {
			at = at.Add(24 * time.Hour)
		}
		return at, nil
	}

	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unrecognized time: %s", expr)}
}
