package contentpipeline

import (
	"testing"

	"socialforge/shared/config"
)

func TestContentAgentName(t *testing.T) {
	agent := NewContentAgent(&config.Config{})
	expected := "Content Pipeline"
	if name := agent.Name(); name != expected {
		t.Errorf("Agent.Name() = %s, want %s", name, expected)
	}
}

func TestRunMetricsGetSummary(t *testing.T) {
	tests := []struct {
		name     string
		metrics  runMetrics
		expected string
	}{
		{
			name:     "all zeros",
			metrics:  runMetrics{},
			expected: "0 products, 0 items generated (0 degraded, 0 stage errors, $0.0000 media cost)",
		},
		{
			name: "clean run",
			metrics: runMetrics{
				products: 2,
				items:    6,
			},
			expected: "2 products, 6 items generated (0 degraded, 0 stage errors, $0.0000 media cost)",
		},
		{
			name: "run with failures and cost",
			metrics: runMetrics{
				products: 1,
				items:    4,
				degraded: 1,
				errors:   2,
				cost:     0.0615,
			},
			expected: "1 products, 4 items generated (1 degraded, 2 stage errors, $0.0615 media cost)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.metrics.GetSummary()
			if result != tt.expected {
				t.Errorf("GetSummary() = %s, want %s", result, tt.expected)
			}
		})
	}
}
