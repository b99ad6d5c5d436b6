package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/certwise/coiguard/internal/common"
	"github.com/certwise/coiguard/internal/model"
)

// openAIAnalyzer implements Analyzer against the OpenAI chat completions
// API.
type openAIAnalyzer struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

// newOpenAIAnalyzer creates a new OpenAI-backed analyzer.
func newOpenAIAnalyzer(cfg Config) (Analyzer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", common.ErrMissingConfig)
	}

	mdl := cfg.Model
	if mdl == "" {
		mdl = "gpt-4-turbo-preview"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1500
	}

	return &openAIAnalyzer{
		apiKey:      cfg.APIKey,
		model:       mdl,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// AnalyzeCompliance sends the certificate and findings for narrative
// review. Rate-limited calls are retried with backoff inside the caller's
// deadline.
func (a *openAIAnalyzer) AnalyzeCompliance(ctx context.Context, req Request) (Narrative, error) {
	var narrative Narrative
	err := common.WithRetry(ctx, func() error {
		var callErr error
		narrative, callErr = a.analyzeOnce(ctx, req)
		return callErr
	}, common.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
	})
	return narrative, err
}

func (a *openAIAnalyzer) analyzeOnce(ctx context.Context, req Request) (Narrative, error) {
	prompt, err := buildCompliancePrompt(req)
	if err != nil {
		return Narrative{}, err
	}

	requestBody := map[string]any{
		"model": a.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are an expert insurance compliance analyst. You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, markdown formatting, or commentary before or after the JSON.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": a.temperature,
		"max_tokens":  a.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return Narrative{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.openai.com/v1/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return Narrative{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return Narrative{}, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Narrative{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return Narrative{}, common.ErrRateLimit
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return Narrative{}, fmt.Errorf("%w: status %d", common.ErrAnalysisUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return Narrative{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return Narrative{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return Narrative{}, fmt.Errorf("no response choices returned")
	}

	return parseNarrative(apiResp.Choices[0].Message.Content)
}

// buildCompliancePrompt renders the analysis prompt the service answers.
func buildCompliancePrompt(req Request) (string, error) {
	coverage, err := json.MarshalIndent(req.Coverage, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal coverage: %w", err)
	}
	findings, err := json.MarshalIndent(req.Findings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal findings: %w", err)
	}

	return fmt.Sprintf(`Review this Certificate of Insurance and the deficiencies already identified by the compliance engine.

COI Information:
%s

Project type: %s

Identified Deficiencies:
%s

Provide your assessment in this JSON format:
{
  "severity": "critical|major|minor|none",
  "compliance_score": 0-100,
  "summary": "brief overall assessment",
  "strengths": ["things done correctly"],
  "additional_findings": [
    {
      "severity": "critical|major|minor",
      "category": "other",
      "description": "detailed description",
      "requirement": "what was required",
      "actual": "what was provided"
    }
  ]
}`, coverage, req.Project.ProjectType, findings), nil
}

// narrativeResponse is the JSON shape the service returns.
type narrativeResponse struct {
	Severity           string   `json:"severity"`
	Summary            string   `json:"summary"`
	Strengths          []string `json:"strengths"`
	ComplianceScore    int      `json:"compliance_score"`
	AdditionalFindings []struct {
		Severity    string `json:"severity"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Requirement string `json:"requirement"`
		Actual      string `json:"actual"`
	} `json:"additional_findings"`
}

func parseNarrative(content string) (Narrative, error) {
	payload, err := extractJSON(content)
	if err != nil {
		return Narrative{}, err
	}

	var resp narrativeResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return Narrative{}, fmt.Errorf("failed to parse narrative response: %w", err)
	}

	n := Narrative{
		Summary:         resp.Summary,
		Severity:        normalizeSeverity(resp.Severity),
		ComplianceScore: resp.ComplianceScore,
		Strengths:       resp.Strengths,
	}
	for _, f := range resp.AdditionalFindings {
		n.Findings = append(n.Findings, model.Deficiency{
			Category:      model.CategoryOther,
			Severity:      normalizeSeverity(f.Severity),
			Description:   f.Description,
			RequiredValue: f.Requirement,
			ActualValue:   f.Actual,
			Detail:        keyifyDescription(f.Description),
			Overridable:   true,
		})
	}
	return n, nil
}

// normalizeSeverity maps the service's severity labels onto the engine's.
func normalizeSeverity(s string) model.Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "high":
		return model.SeverityCritical
	case "major", "medium":
		return model.SeverityMajor
	case "minor", "low":
		return model.SeverityMinor
	default:
		return ""
	}
}

// keyifyDescription derives a stable key fragment from a description.
func keyifyDescription(desc string) string {
	desc = strings.ToLower(strings.TrimSpace(desc))
	desc = strings.ReplaceAll(desc, " ", "_")
	if len(desc) > 64 {
		desc = desc[:64]
	}
	return desc
}
