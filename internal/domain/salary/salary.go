// Package salary interprets the free-text expected-salary column.
package salary

import (
	"strconv"
	"strings"
)

const unitSuffix = " LPA"

// ParseLPA converts an expected-salary string into a single number of lakhs
// per annum. "6-15 LPA" yields the midpoint 10.5, "30+ LPA" yields 30 and
// "12 LPA" yields 12. Missing or unrecognized text yields ok == false.
//
// Only parts made entirely of ASCII digits count: "6 - 15 LPA" has no such
// part and so has no value.
func ParseLPA(s string) (value float64, ok bool) {
	if strings.TrimSpace(s) == "" {
		return 0, false
	}

	amount, _, _ := strings.Cut(s, unitSuffix)
	amount = strings.ReplaceAll(amount, "+", "")

	var values []float64
	for _, part := range strings.Split(amount, "-") {
		if !isDigits(part) {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		values = append(values, float64(v))
	}

	switch len(values) {
	case 1:
		return values[0], true
	case 2:
		return (values[0] + values[1]) / 2, true
	default:
		return 0, false
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
