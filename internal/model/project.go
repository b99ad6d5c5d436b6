package model

import "strings"

// ProjectContext carries the project attributes a validation run needs.
// It is immutable for the duration of a run.
type ProjectContext struct {
	HeightStories *int   `json:"height_stories,omitempty"`
	UnitCount     *int   `json:"unit_count,omitempty"`
	ProjectID     string `json:"project_id"`
	ProjectType   string `json:"project_type,omitempty"`
	ProgramID     string `json:"program_id"`
}

// condoTypes are the project type spellings that count as condominium work.
var condoTypes = map[string]struct{}{
	"condo":        {},
	"condos":       {},
	"condominium":  {},
	"condominiums": {},
}

// IsCondo reports whether the project type identifies a condominium project.
func (p ProjectContext) IsCondo() bool {
	_, ok := condoTypes[strings.ToLower(strings.TrimSpace(p.ProjectType))]
	return ok
}
