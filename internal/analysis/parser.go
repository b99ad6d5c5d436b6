package analysis

import (
	"fmt"
	"strings"
)

// extractJSON pulls the first JSON object or array out of a model
// response, tolerating prose or markdown fences around it.
func extractJSON(content string) (string, error) {
	content = strings.TrimSpace(content)

	// Strip markdown code fences if present
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
		content = strings.TrimSpace(content)
	}

	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			return content[start : end+1], nil
		}
	}

	if start := strings.Index(content, "["); start >= 0 {
		if end := strings.LastIndex(content, "]"); end > start {
			return content[start : end+1], nil
		}
	}

	return "", fmt.Errorf("no JSON found in response")
}
