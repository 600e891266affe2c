package engine

import (
	"regexp"
	"strconv"
	"strings"
)

// timeToEffectPattern matches "<min>-<max> <unit>" with a French duration
// unit: jour(s), semaine(s) or mois.
var timeToEffectPattern = regexp.MustCompile(`^\s*(\d+)\s*-\s*(\d+)\s+(jours?|semaines?|mois)\s*$`)

// defaultEffectWeeks is used when a time-to-effect string cannot be
// parsed, so the entry sorts behind anything with a real estimate but
// ahead of multi-month ones.
const defaultEffectWeeks = 4.0

// AverageEffectWeeks converts a time-to-effect string into the average of
// its min/max bounds expressed in weeks. Days divide by 7, months
// multiply by 4, unparseable input yields defaultEffectWeeks.
func AverageEffectWeeks(s string) float64 {
	m := timeToEffectPattern.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return defaultEffectWeeks
	}

	min, err1 := strconv.Atoi(m[1])
	max, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return defaultEffectWeeks
	}
	avg := (float64(min) + float64(max)) / 2

	switch {
	case strings.HasPrefix(m[3], "jour"):
		return avg / 7
	case strings.HasPrefix(m[3], "semaine"):
		return avg
	case m[3] == "mois":
		return avg * 4
	default:
		return defaultEffectWeeks
	}
}
