package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	integerPattern = regexp.MustCompile(`^\d+$`)
	floatPattern   = regexp.MustCompile(`^\d*\.\d+$`)
)

// Date layouts tried in order; the first strict match wins, so an ambiguous
// value like 01/02/2024 always resolves as month/day.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
}

var (
	truthyWords = map[string]struct{}{"true": {}, "yes": {}, "1": {}, "y": {}}
	falsyWords  = map[string]struct{}{"false": {}, "no": {}, "0": {}, "n": {}}
)

// Normalize converts one raw CSV cell into its typed form: nil, int64,
// float64, an RFC 3339 timestamp string, bool, or the trimmed string itself.
// It is total: every input has a defined output and nothing is ever raised.
// Note the rule order: "1" and "0" are all-digit strings and therefore
// normalize to integers, not booleans.
func Normalize(raw string) any {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	if integerPattern.MatchString(v) {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		// Digit runs beyond int64 range keep their textual form.
		return v
	}
	if floatPattern.MatchString(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return v
	}
	if ts, ok := normalizeDate(v); ok {
		return ts
	}
	lower := strings.ToLower(v)
	if _, ok := truthyWords[lower]; ok {
		return true
	}
	if _, ok := falsyWords[lower]; ok {
		return false
	}
	return v
}

// normalizeDate matches v against the known layouts. time.Parse tolerates
// missing leading zeros, so a re-format round trip enforces the exact form.
func normalizeDate(v string) (string, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil || t.Format(layout) != v {
			continue
		}
		return t.UTC().Format(time.RFC3339), true
	}
	return "", false
}
