// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package survey

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/referee/pkg/types"
)

// LoadFile reads a survey definition from a YAML file:
//
//	questions:
//	  - name: full_review
//	    template: "Review this paper: {{scenario.paper}}"
//	  - name: response_to_review
//	    template: "Respond to the review: {{full_review.answer}}"
//
// The file is parsed only; callers run Validate once the scenario is bound.
func LoadFile(path string) (types.Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Survey{}, fmt.Errorf("reading survey file %s: %w", path, err)
	}

	var s types.Survey
	if err := yaml.Unmarshal(data, &s); err != nil {
		return types.Survey{}, fmt.Errorf("parsing survey file %s: %w", path, err)
	}
	if len(s.Questions) == 0 {
		return types.Survey{}, fmt.Errorf("survey file %s defines no questions", path)
	}
	return s, nil
}
