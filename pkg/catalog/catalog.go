// Package catalog holds the domains and problem statements users browse for
// project inspiration.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrUnknownDomain is returned when a problem references an undeclared domain.
var ErrUnknownDomain = errors.New("catalog: unknown domain")

// Problem is a community-voted problem statement.
type Problem struct {
	ID        int    `yaml:"id" json:"id"`
	Domain    string `yaml:"domain" json:"domain"`
	Statement string `yaml:"statement" json:"statement"`
	Votes     int    `yaml:"votes" json:"votes"`
}

// Catalog is an immutable set of domains and problems.
type Catalog struct {
	domains  []string
	problems []Problem
}

type document struct {
	Domains  []string  `yaml:"domains"`
	Problems []Problem `yaml:"problems"`
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	known := make(map[string]bool, len(doc.Domains))
	for _, d := range doc.Domains {
		known[d] = true
	}
	seen := make(map[int]bool, len(doc.Problems))
	for _, p := range doc.Problems {
		if !known[p.Domain] {
			return nil, fmt.Errorf("%w: problem %d uses %q", ErrUnknownDomain, p.ID, p.Domain)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("catalog: duplicate problem id %d", p.ID)
		}
		seen[p.ID] = true
	}
	return &Catalog{domains: doc.Domains, problems: doc.Problems}, nil
}

// Load reads a catalog file from fsys.
func Load(fsys fs.FS, name string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", name, err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

// Domains returns the domain names in declaration order.
func (c *Catalog) Domains() []string {
	return slices.Clone(c.domains)
}

// Filter returns the problems in domain (all domains when empty) whose
// statement contains search, ignoring case. Results are ordered by votes,
// highest first, then by id.
func (c *Catalog) Filter(domain, search string) []Problem {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]Problem, 0, len(c.problems))
	for _, p := range c.problems {
		if domain != "" && p.Domain != domain {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Statement), needle) {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b Problem) int {
		if a.Votes != b.Votes {
			return b.Votes - a.Votes
		}
		return a.ID - b.ID
	})
	return out
}
