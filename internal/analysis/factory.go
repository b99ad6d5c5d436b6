package analysis

import (
	"fmt"
	"log/slog"
	"strings"
)

// NewAnalyzer creates a narrative analyzer based on the provided
// configuration. An unset provider with no API key disables external
// analysis: the merge step then returns the deterministic result alone.
func NewAnalyzer(cfg Config) (Analyzer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return newOpenAIAnalyzer(cfg)
	case "mock":
		return NewMockAnalyzer(), nil
	case "":
		if cfg.APIKey != "" {
			return newOpenAIAnalyzer(cfg)
		}
		slog.Warn("Narrative analysis disabled; set analysis.api_key to enable")
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported analysis provider: %s", cfg.Provider)
	}
}
