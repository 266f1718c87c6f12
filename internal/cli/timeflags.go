package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// changed returns &v when the named flag was given on the command line, so
// edit commands only patch the fields the user touched.
func changed[T any](flags *pflag.FlagSet, name string, v T) *T {
	if !flags.Changed(name) {
		return nil
	}
	return &v
}

// whenFlag parses the named time flag if it was given.
func whenFlag(flags *pflag.FlagSet, name, value string, now time.Time) (*int64, error) {
	if !flags.Changed(name) {
		return nil, nil
	}
	ms, err := parseWhen(value, now)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &ms, nil
}

var clockLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

// parseWhen turns a --start/--end value into epoch millis. Accepted forms:
//   - "now"
//   - a signed duration relative to now, e.g. "-90m"
//   - "15:04", meaning today at that time
//   - "2006-01-02 15:04" or RFC 3339
func parseWhen(value string, now time.Time) (int64, error) {
	v := strings.TrimSpace(value)
	if v == "" || v == "now" {
		return now.UnixMilli(), nil
	}
	if strings.HasPrefix(v, "-") || strings.HasPrefix(v, "+") {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid relative time %q: %w", value, err)
		}
		return now.Add(d).UnixMilli(), nil
	}
	if t, err := time.ParseInLocation("15:04", v, now.Location()); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()).UnixMilli(), nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.ParseInLocation(layout, v, now.Location()); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("invalid time %q: use now, -90m, 15:04, or 2006-01-02 15:04", value)
}
