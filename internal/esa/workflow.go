package esa

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var nonKebab = regexp.MustCompile(`[^a-z0-9]+`)

// Kebab lower-cases s and collapses every run of non-alphanumerics to "-".
func Kebab(s string) string {
	return strings.Trim(nonKebab.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

type workflowDoc struct {
	Jobs map[string]struct {
		Name  string `yaml:"name"`
		Steps []struct {
			Name string `yaml:"name"`
		} `yaml:"steps"`
	} `yaml:"jobs"`
}

// WorkflowGates returns the sorted, de-duplicated gate names of a GitHub
// Actions workflow: job IDs, job names and step names in kebab case.
func WorkflowGates(data []byte) ([]string, error) {
	var doc workflowDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode workflow: %w", err)
	}

	seen := make(map[string]struct{})
	add := func(s string) {
		if k := Kebab(s); k != "" {
			seen[k] = struct{}{}
		}
	}
	for id, job := range doc.Jobs {
		add(id)
		add(job.Name)
		for _, step := range job.Steps {
			add(step.Name)
		}
	}

	gates := make([]string, 0, len(seen))
	for g := range seen {
		gates = append(gates, g)
	}
	sort.Strings(gates)
	return gates, nil
}
