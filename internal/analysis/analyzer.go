// Package analysis integrates the external narrative analysis service and
// merges its opinion with the deterministic compliance verdict. The
// deterministic verdict is always authoritative; the narrative only adds
// explanatory detail.
package analysis

import (
	"context"

	"github.com/certwise/coiguard/internal/model"
)

// Analyzer is the external narrative analysis service.
type Analyzer interface {
	AnalyzeCompliance(ctx context.Context, req Request) (Narrative, error)
}

// Request carries the data the narrative service sees: the certificate and
// the deterministic findings already computed for it.
type Request struct {
	Coverage model.CoverageRecord
	Project  model.ProjectContext
	Findings []model.Deficiency
}

// Narrative is the external service's advisory assessment.
type Narrative struct {
	Summary         string
	Severity        model.Severity
	ComplianceScore int
	Findings        []model.Deficiency
	Strengths       []string
}

// Config holds analyzer configuration.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}
