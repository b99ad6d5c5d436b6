package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/certwise/coiguard/internal/model"
)

// DefaultTimeout bounds the external analysis call; merge never blocks the
// approval workflow indefinitely.
const DefaultTimeout = 30 * time.Second

// Merge combines the deterministic compliance result with the external
// narrative assessment. The deterministic verdict is authoritative: a
// non-compliant result is forced to the most severe status tier no matter
// what the narrative concludes. The narrative may add a summary and
// additional non-authoritative findings only when the deterministic
// result is compliant. On analyzer error or timeout the merge degrades to
// the deterministic result with a warning appended; re-running it is
// always safe since nothing here mutates engine state.
func Merge(ctx context.Context, det model.ComplianceResult, analyzer Analyzer, req Request, timeout time.Duration) model.ComplianceResult {
	merged := det
	merged.OverallStatus = deterministicStatus(&det)

	if analyzer == nil {
		if merged.Summary == "" {
			merged.Summary = defaultSummary(&merged)
		}
		return merged
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	narrative, err := analyzer.AnalyzeCompliance(callCtx, req)
	if err != nil {
		slog.Warn("Narrative analysis unavailable, using deterministic result only",
			"coi_id", det.COIID,
			"error", err)
		merged.Warnings = append(merged.Warnings,
			fmt.Sprintf("narrative analysis unavailable: %v", err))
		if merged.Summary == "" {
			merged.Summary = defaultSummary(&merged)
		}
		return merged
	}

	if narrative.Summary != "" {
		merged.Summary = narrative.Summary
	} else if merged.Summary == "" {
		merged.Summary = defaultSummary(&merged)
	}

	if !det.Compliant {
		// Deterministic engine wins on conflict.
		merged.OverallStatus = model.StatusCriticalIssues
		return merged
	}

	// Deterministic result is compliant: the narrative may add advisory
	// findings and set the status tier.
	merged.Issues = append(merged.Issues, narrative.Findings...)
	if narrative.Severity != "" {
		merged.OverallStatus = model.StatusForSeverity(narrative.Severity)
	} else if len(narrative.Findings) > 0 {
		worst := narrative.Findings[0].Severity
		for _, f := range narrative.Findings[1:] {
			if f.Severity.WorseThan(worst) {
				worst = f.Severity
			}
		}
		merged.OverallStatus = model.StatusForSeverity(worst)
	}

	return merged
}

// deterministicStatus derives the status tier from the engine's findings
// alone. A non-compliant result always maps to the most severe tier.
func deterministicStatus(det *model.ComplianceResult) model.OverallStatus {
	if det.Compliant {
		return model.StatusCompliant
	}
	return model.StatusCriticalIssues
}

func defaultSummary(r *model.ComplianceResult) string {
	if r.Compliant {
		return "Certificate meets all program requirements."
	}
	return fmt.Sprintf("Certificate has %d deficiency finding(s) and %d excluded trade(s) requiring review.",
		len(r.Issues), len(r.ExcludedTrades))
}
