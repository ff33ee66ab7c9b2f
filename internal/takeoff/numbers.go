package takeoff

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reNumericRun = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	reFraction   = regexp.MustCompile(`^(?:(\d+)[\s-]+)?(\d+)/(\d+)$`)
	reFtIn       = regexp.MustCompile(`(\d+(?:\.\d+)?)'\s*-?\s*(\d+(?:\.\d+)?)?(?:\s*(\d+)/(\d+))?\s*(?:"|”)?`)
)

// ParseNumber extracts the first numeric run from free text, after stripping
// thousands separators. Returns false on total failure; callers must treat
// that as "value unknown", not zero.
func ParseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	run := reNumericRun.FindString(s)
	if run == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(run, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInches parses a decimal ("2.5") or mixed-fraction ("1-1/2", "3/4")
// inch value.
func ParseInches(s string) (float64, bool) {
	s = strings.TrimSpace(strings.Trim(s, `"”`))
	if m := reFraction.FindStringSubmatch(s); m != nil {
		whole := 0.0
		if m[1] != "" {
			whole, _ = strconv.ParseFloat(m[1], 64)
		}
		num, _ := strconv.ParseFloat(m[2], 64)
		den, _ := strconv.ParseFloat(m[3], 64)
		if den == 0 {
			return 0, false
		}
		return whole + num/den, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFeetInches converts foot-and-inch notation (12'-6", 8' 0 1/2") to
// decimal feet. Falls back to a bare numeric run when no tick marks are
// present (covers "24 lf" style lengths).
func ParseFeetInches(s string) (float64, bool) {
	if m := reFtIn.FindStringSubmatch(s); m != nil {
		feet, _ := strconv.ParseFloat(m[1], 64)
		inches := 0.0
		if m[2] != "" {
			inches, _ = strconv.ParseFloat(m[2], 64)
		}
		if m[3] != "" && m[4] != "" {
			num, _ := strconv.ParseFloat(m[3], 64)
			den, _ := strconv.ParseFloat(m[4], 64)
			if den != 0 {
				inches += num / den
			}
		}
		return feet + inches/12.0, true
	}
	return ParseNumber(s)
}
