package analysis

import (
	"context"
	"sync"
)

// MockAnalyzer is a configurable Analyzer for development and tests.
type MockAnalyzer struct {
	mu        sync.Mutex
	narrative Narrative
	err       error
	delay     func(ctx context.Context) error
	calls     int
}

// NewMockAnalyzer returns a mock with a generic positive assessment.
func NewMockAnalyzer() *MockAnalyzer {
	return &MockAnalyzer{
		narrative: Narrative{
			Summary:         "The certificate is generally consistent with program expectations.",
			ComplianceScore: 85,
			Strengths: []string{
				"All required coverage types present",
				"Policy periods are current",
			},
		},
	}
}

// SetNarrative sets the narrative returned by AnalyzeCompliance.
func (m *MockAnalyzer) SetNarrative(n Narrative) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.narrative = n
}

// SetError makes AnalyzeCompliance fail with the given error.
func (m *MockAnalyzer) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetBlocking makes AnalyzeCompliance block until the context is done,
// simulating a hung service.
func (m *MockAnalyzer) SetBlocking() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
}

// Calls returns how many times AnalyzeCompliance was invoked.
func (m *MockAnalyzer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// AnalyzeCompliance implements Analyzer.
func (m *MockAnalyzer) AnalyzeCompliance(ctx context.Context, _ Request) (Narrative, error) {
	m.mu.Lock()
	m.calls++
	narrative := m.narrative
	err := m.err
	delay := m.delay
	m.mu.Unlock()

	if delay != nil {
		if derr := delay(ctx); derr != nil {
			return Narrative{}, derr
		}
	}
	if err != nil {
		return Narrative{}, err
	}
	return narrative, nil
}

var _ Analyzer = (*MockAnalyzer)(nil)
