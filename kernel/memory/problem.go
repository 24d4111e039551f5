// Package memory is an in-memory stand-in for the external consistency
// kernel: it holds per-criterion scenario samples for every alternative
// and derives moment triples and hulls on demand. It backs the tests
// and the demo service; the production kernel lives outside this
// repository.
package memory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Problem is a decision problem: a set of alternatives scored under a
// weighted criteria tree, with one outcome sample per scenario.
type Problem struct {
	Alternatives int         `yaml:"alternatives"`
	Criteria     []Criterion `yaml:"criteria"`
}

// Criterion is one node of the criteria tree. Leaves carry samples
// indexed [alternative][scenario]; intermediate nodes aggregate their
// children by weight. Parent 0 is the root.
type Criterion struct {
	ID      int         `yaml:"id"`
	Parent  int         `yaml:"parent"`
	Weight  float64     `yaml:"weight"`
	Samples [][]float64 `yaml:"samples,omitempty"`
}

// LoadProblem reads a problem definition from a YAML file.
func LoadProblem(path string) (Problem, error) {
	var p Problem
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read problem file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse problem YAML: %w", err)
	}
	return p, nil
}

// validate checks identifiers, tree shape and sample dimensions.
func (p Problem) validate() error {
	if p.Alternatives < 1 {
		return fmt.Errorf("problem needs at least one alternative")
	}
	seen := make(map[int]bool, len(p.Criteria))
	scenarios := 0
	for _, c := range p.Criteria {
		if c.ID < 1 {
			return fmt.Errorf("criterion id %d: identifiers start at 1", c.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("criterion id %d: duplicate", c.ID)
		}
		seen[c.ID] = true
		if c.Weight <= 0 {
			return fmt.Errorf("criterion %d: weight must be positive", c.ID)
		}
	}
	for _, c := range p.Criteria {
		if c.Parent != 0 && !seen[c.Parent] {
			return fmt.Errorf("criterion %d: unknown parent %d", c.ID, c.Parent)
		}
		if len(c.Samples) == 0 {
			continue
		}
		if len(c.Samples) != p.Alternatives {
			return fmt.Errorf("criterion %d: %d sample rows for %d alternatives", c.ID, len(c.Samples), p.Alternatives)
		}
		for alt, row := range c.Samples {
			if scenarios == 0 {
				scenarios = len(row)
			}
			if len(row) == 0 || len(row) != scenarios {
				return fmt.Errorf("criterion %d alternative %d: uneven scenario count", c.ID, alt)
			}
		}
	}
	if scenarios == 0 {
		return fmt.Errorf("problem has no leaf samples")
	}
	return nil
}
