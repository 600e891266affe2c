package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAverageEffectWeeks(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"days", "2-3 jours", 2.5 / 7},
		{"single day unit", "5-9 jour", 7.0 / 7},
		{"weeks", "1-2 semaines", 1.5},
		{"weeks singular", "2-3 semaine", 2.5},
		{"months", "3-4 mois", 14},
		{"upper case", "1-2 SEMAINES", 1.5},
		{"extra spacing", "  1 - 2   semaines  ", 1.5},
		{"empty", "", defaultEffectWeeks},
		{"no unit", "1-2", defaultEffectWeeks},
		{"unknown unit", "1-2 ans", defaultEffectWeeks},
		{"no range", "2 semaines", defaultEffectWeeks},
		{"prose", "variable selon les individus", defaultEffectWeeks},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AverageEffectWeeks(tt.input), 1e-9)
		})
	}
}

func TestAverageEffectWeeksOrdering(t *testing.T) {
	days := AverageEffectWeeks("2-3 jours")
	weeks := AverageEffectWeeks("1-2 semaines")
	months := AverageEffectWeeks("3-4 mois")

	assert.Less(t, days, weeks)
	assert.Less(t, weeks, months)
}
