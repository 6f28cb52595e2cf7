package analytics

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ageNumRe = regexp.MustCompile(`\d+(\.\d+)?`)

// ParseAge converts a raw age token into years. Hospital exports mix plain
// numerics ("49"), year suffixes ("6Y", "3.3Y") and month suffixes ("6M").
// The first numeric substring is taken; an "M" marker without a "Y" means
// the value is in months. Tokens carrying both markers ("1Y6M") parse as
// years only — the month part is dropped. Returns ok=false when the token is
// empty or has no numeric part.
func ParseAge(token string) (float64, bool) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if token == "" {
		return 0, false
	}
	m := ageNumRe.FindString(token)
	if m == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	if strings.Contains(token, "M") && !strings.Contains(token, "Y") {
		val /= 12
	}
	return val, true
}

// ParseAmount coerces a currency/numeric token to a float. Thousands
// separators and currency symbols are stripped. Unparsable or missing
// values coerce to 0; negative values are kept as-is.
func ParseAmount(token string) float64 {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	token = strings.ReplaceAll(token, ",", "")
	token = strings.TrimPrefix(token, "$")
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return f
}

// Day-first layouts, most specific first. The export writes
// "DD-MM-YY HH:MM" (e.g. "02-12-25 17:46"); older exports use four-digit
// years, slashes, or date-only cells. ISO timestamps are accepted last.
var dateTimeLayouts = []string{
	"02-01-06 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/06 15:04",
	"02-01-2006",
	"02/01/2006",
	"02-01-06",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateTime parses a timestamp using the day-first convention.
// Unparsable values report ok=false; the caller records the field as absent
// rather than substituting a sentinel date.
func ParseDateTime(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
