package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var reRateLimit = regexp.MustCompile(`^(([0-9]\.|[1-9][0-9]*\.?)[0-9]*)/([smh])$`)

var rateLimitUnits = map[string]float64{
	"s": 1,
	"m": 60,
	"h": 3600,
}

// ParseRateLimit parses the `--limit-rate=R/(s|m|h)` descriptor into the
// minimum interval between queries, translating map.py's
// `_query_interval`/`_compute_query_interval`.
func ParseRateLimit(s string) (time.Duration, error) {
	m := reRateLimit.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid rate limit %q, want R/(s|m|h)", s)
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid rate limit %q: bad numerator", s)
	}

	seconds := rateLimitUnits[m[3]] / n

	return time.Duration(seconds * float64(time.Second)), nil
}
