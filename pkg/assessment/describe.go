package assessment

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownSection is returned for sections without a description.
var ErrUnknownSection = errors.New("assessment: unknown section")

// Section names one part of a project description.
type Section string

const (
	SectionOverview Section = "overview"
	SectionProblem  Section = "problem"
	SectionSolution Section = "solution"
	SectionImpact   Section = "impact"
)

// Sections lists the sections in display order.
func Sections() []Section {
	return []Section{SectionOverview, SectionProblem, SectionSolution, SectionImpact}
}

//go:embed sections.yaml
var defaultSections []byte

// Describer returns generated text for a project section.
type Describer struct {
	texts map[Section]string
}

// NewDescriber loads section texts from YAML. Nil data selects the built-in
// texts.
func NewDescriber(data []byte) (*Describer, error) {
	if data == nil {
		data = defaultSections
	}
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("assessment: parse sections: %w", err)
	}
	texts := make(map[Section]string, len(raw))
	for key, text := range raw {
		texts[Section(strings.ToLower(strings.TrimSpace(key)))] = strings.TrimSpace(text)
	}
	return &Describer{texts: texts}, nil
}

// DefaultDescriber returns a describer with the built-in texts.
func DefaultDescriber() *Describer {
	d, err := NewDescriber(nil)
	if err != nil {
		panic(err)
	}
	return d
}

// Describe returns the text for section.
func (d *Describer) Describe(ctx context.Context, section Section) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, ok := d.texts[Section(strings.ToLower(string(section)))]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	return text, nil
}

// ParseSection validates a section name.
func ParseSection(raw string) (Section, error) {
	name := Section(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range Sections() {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSection, raw)
}
