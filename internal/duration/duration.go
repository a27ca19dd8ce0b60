// Package duration parses the retention periods accepted by vacuum
// --older-than: "12h" (hours), "7d" (days), "4w" (weeks), "3m" (months of
// 30 days).
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const day = 24 * time.Hour

var (
	rePeriod = regexp.MustCompile(`^(\d+)([hdwm])$`)
	units    = map[string]time.Duration{
		"h": time.Hour,
		"d": day,
		"w": 7 * day,
		"m": 30 * day,
	}
)

// Parse parses a period such as "7d" into a time.Duration.
func Parse(s string) (time.Duration, error) {
	m := rePeriod.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration format: %s (use 12h, 7d, 4w, or 3m)", s)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid number: %w", err)
	}
	return time.Duration(n) * units[m[2]], nil
}
