package timewindow

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWindow indicates that a window string does not conform to the
// window grammar. Use errors.Is to test for it.
var ErrInvalidWindow = errors.New("invalid time window")

// windowPattern is the window grammar: optional day, hour, minute and second
// segments in that fixed order, no whitespace. The pattern is anchored so a
// string with stray characters fails instead of matching a prefix.
var windowPattern = regexp.MustCompile(`^(?:(\d+)d)?(?:(\d+)hr)?(?:(\d+)m)?(?:(\d+)s)?$`)

// segmentUnits maps capture groups to their duration units, in grammar order.
var segmentUnits = []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}

// Parse converts a window string such as "30d", "1hr30m" or "45s" into a
// duration. The empty string is valid and yields a zero duration; callers
// that require a positive window must reject zero themselves. Inputs that do
// not match the grammar return ErrInvalidWindow.
func Parse(s string) (time.Duration, error) {
	match := windowPattern.FindStringSubmatch(s)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}

	var window time.Duration
	for i, unit := range segmentUnits {
		segment := match[i+1]
		if segment == "" {
			continue
		}
		n, err := strconv.ParseUint(segment, 10, 64)
		if err != nil || n > uint64(math.MaxInt64/unit) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
		}
		window += time.Duration(n) * unit
	}

	// Segments are individually bounded but their sum can still wrap.
	if window < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}

	return window, nil
}

// MustParse is like Parse but panics on invalid input. It is intended for
// package-level defaults and tests.
func MustParse(s string) time.Duration {
	window, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return window
}

// Format renders a duration in the window grammar, the inverse of Parse for
// whole-second durations. Zero and negative durations render as "0s", and
// sub-second remainders are truncated.
func Format(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	var b strings.Builder
	if days := d / (24 * time.Hour); days > 0 {
		fmt.Fprintf(&b, "%dd", days)
		d -= days * 24 * time.Hour
	}
	if hours := d / time.Hour; hours > 0 {
		fmt.Fprintf(&b, "%dhr", hours)
		d -= hours * time.Hour
	}
	if minutes := d / time.Minute; minutes > 0 {
		fmt.Fprintf(&b, "%dm", minutes)
		d -= minutes * time.Minute
	}
	if seconds := d / time.Second; seconds > 0 {
		fmt.Fprintf(&b, "%ds", seconds)
	}

	return b.String()
}
