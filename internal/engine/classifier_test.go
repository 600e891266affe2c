package engine

import (
	"testing"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func engagementConfig() config.EngagementConfig {
	return config.EngagementConfig{
		EngagedReadPercent:   30,
		EngagedActiveSeconds: 60,
		PrimeReadPercent:     60,
		PrimeScrollDepth:     70,
		PrimeActiveSeconds:   90,
		ExpandReadPercent:    70,
		WordsPerMinute:       250,
	}
}

func TestReadTimeTarget(t *testing.T) {
	c := NewClassifier(engagementConfig())

	tests := []struct {
		name    string
		content model.ContentParams
		want    float64
	}{
		{"estimate wins when shorter", model.ContentParams{WordCount: 1000, AverageReadingMinutes: 3}, 180},
		{"words win when shorter", model.ContentParams{WordCount: 500, AverageReadingMinutes: 5}, 120},
		{"estimate only", model.ContentParams{AverageReadingMinutes: 2}, 120},
		{"words only", model.ContentParams{WordCount: 500}, 120},
		{"no signal", model.ContentParams{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, c.ReadTimeTarget(tt.content), 1e-9)
		})
	}
}

func TestReadPercent(t *testing.T) {
	c := NewClassifier(engagementConfig())
	content := model.ContentParams{WordCount: 1000, AverageReadingMinutes: 3}

	assert.InDelta(t, 50, c.ReadPercent(model.BehavioralMetrics{ActiveSeconds: 90}, content), 1e-9)
	assert.InDelta(t, 100, c.ReadPercent(model.BehavioralMetrics{ActiveSeconds: 900}, content), 1e-9)
	assert.InDelta(t, 0, c.ReadPercent(model.BehavioralMetrics{ActiveSeconds: 90}, model.ContentParams{}), 1e-9)
}

func TestIsEngaged(t *testing.T) {
	c := NewClassifier(engagementConfig())
	content := model.ContentParams{WordCount: 1000, AverageReadingMinutes: 3}

	tests := []struct {
		name    string
		metrics model.BehavioralMetrics
		want    bool
	}{
		{"cold visitor", model.BehavioralMetrics{ActiveSeconds: 10}, false},
		{"at the read threshold", model.BehavioralMetrics{ActiveSeconds: 54}, false},
		{"past the read threshold", model.BehavioralMetrics{ActiveSeconds: 55}, true},
		{"long dwell", model.BehavioralMetrics{ActiveSeconds: 61}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsEngaged(tt.metrics, content))
		})
	}
}

func TestIsPrimeForConversion(t *testing.T) {
	c := NewClassifier(engagementConfig())
	content := model.ContentParams{WordCount: 1000, AverageReadingMinutes: 3}

	tests := []struct {
		name    string
		metrics model.BehavioralMetrics
		want    bool
	}{
		{
			"deep read plus interaction",
			model.BehavioralMetrics{ActiveSeconds: 130, MaxScrollDepth: 75, InteractionCount: 1},
			true,
		},
		{
			"deep scroll plus long dwell",
			model.BehavioralMetrics{ActiveSeconds: 95, MaxScrollDepth: 80},
			true,
		},
		{
			"attentive but not invested",
			model.BehavioralMetrics{ActiveSeconds: 85, MaxScrollDepth: 80},
			false,
		},
		{
			"invested but not attentive",
			model.BehavioralMetrics{ActiveSeconds: 30, MaxScrollDepth: 20, InteractionCount: 5},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsPrimeForConversion(tt.metrics, content))
		})
	}
}

func TestShouldExpand(t *testing.T) {
	c := NewClassifier(engagementConfig())
	content := model.ContentParams{WordCount: 1000, AverageReadingMinutes: 3}

	assert.False(t, c.ShouldExpand(model.BehavioralMetrics{ActiveSeconds: 120}, content))
	assert.True(t, c.ShouldExpand(model.BehavioralMetrics{ActiveSeconds: 130}, content))
}

func TestClassifierReconfigure(t *testing.T) {
	c := NewClassifier(engagementConfig())
	m := model.BehavioralMetrics{ActiveSeconds: 65}

	assert.True(t, c.IsEngaged(m, model.ContentParams{}))

	cfg := engagementConfig()
	cfg.EngagedActiveSeconds = 120
	c.Reconfigure(cfg)

	assert.False(t, c.IsEngaged(m, model.ContentParams{}))
}
