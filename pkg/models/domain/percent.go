package domain

import "strconv"

// FormatPercent renders part/whole as a percentage string with one decimal
// place. A zero denominator yields the literal "0" rather than dividing.
func FormatPercent(part, whole float64) string {
	if whole == 0 {
		return "0"
	}
	return strconv.FormatFloat(part/whole*100, 'f', 1, 64)
}
