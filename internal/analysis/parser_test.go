package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certwise/coiguard/internal/model"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "plain object",
			input: `{"severity": "minor"}`,
			want:  `{"severity": "minor"}`,
		},
		{
			name:  "object with surrounding prose",
			input: "Here is my assessment:\n{\"severity\": \"minor\"}\nLet me know if you need more.",
			want:  `{"severity": "minor"}`,
		},
		{
			name:  "markdown fenced",
			input: "```json\n{\"severity\": \"major\"}\n```",
			want:  `{"severity": "major"}`,
		},
		{
			name:  "array",
			input: `[1, 2, 3]`,
			want:  `[1, 2, 3]`,
		},
		{
			name:    "no json at all",
			input:   "I could not produce an assessment.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNarrative(t *testing.T) {
	content := "```json\n" + `{
		"summary": "Coverage is adequate with one advisory note.",
		"severity": "high",
		"compliance_score": 72,
		"strengths": ["current policy periods"],
		"additional_findings": [
			{
				"severity": "low",
				"description": "carrier rating not stated",
				"requirement": "AM Best A- or better",
				"actual": "not stated"
			}
		]
	}` + "\n```"

	n, err := parseNarrative(content)
	require.NoError(t, err)

	assert.Equal(t, "Coverage is adequate with one advisory note.", n.Summary)
	assert.Equal(t, model.SeverityCritical, n.Severity, "high maps to critical")
	assert.Equal(t, 72, n.ComplianceScore)
	require.Len(t, n.Findings, 1)
	assert.Equal(t, model.SeverityMinor, n.Findings[0].Severity)
	assert.Equal(t, model.CategoryOther, n.Findings[0].Category)
	assert.True(t, n.Findings[0].Overridable)
	assert.NotEmpty(t, n.Findings[0].Detail)
}

func TestParseNarrativeInvalid(t *testing.T) {
	_, err := parseNarrative("not json")
	require.Error(t, err)

	_, err = parseNarrative(`{"severity": `)
	require.Error(t, err)
}

func TestNormalizeSeverity(t *testing.T) {
	assert.Equal(t, model.SeverityCritical, normalizeSeverity("Critical"))
	assert.Equal(t, model.SeverityCritical, normalizeSeverity("HIGH"))
	assert.Equal(t, model.SeverityMajor, normalizeSeverity("medium"))
	assert.Equal(t, model.SeverityMinor, normalizeSeverity(" low "))
	assert.Equal(t, model.Severity(""), normalizeSeverity("catastrophic"))
}

func TestNewAnalyzerFactory(t *testing.T) {
	a, err := NewAnalyzer(Config{Provider: "mock"})
	require.NoError(t, err)
	assert.NotNil(t, a)

	a, err = NewAnalyzer(Config{})
	require.NoError(t, err)
	assert.Nil(t, a, "no provider and no key disables analysis")

	_, err = NewAnalyzer(Config{Provider: "crystal-ball"})
	require.Error(t, err)
}
