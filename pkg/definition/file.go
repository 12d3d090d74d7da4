package definition

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/stepper"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type documentFile struct {
	ID             string                `json:"id" yaml:"id"`
	Title          string                `json:"title" yaml:"title"`
	Description    string                `json:"description" yaml:"description"`
	PersistenceKey string                `json:"persistenceKey" yaml:"persistenceKey"`
	Progress       string                `json:"progress" yaml:"progress"`
	Fields         []fieldFile           `json:"fields" yaml:"fields"`
	Steps          []stepFile            `json:"steps" yaml:"steps"`
	Rules          []ruleFile            `json:"rules" yaml:"rules"`
	Entries        map[string][]ruleFile `json:"entries" yaml:"entries"`
}

type fieldFile struct {
	Name        string            `json:"name" yaml:"name"`
	Label       string            `json:"label" yaml:"label"`
	Kind        string            `json:"kind" yaml:"kind"`
	Help        string            `json:"help" yaml:"help"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Secret      bool              `json:"secret" yaml:"secret"`
	Multiline   bool              `json:"multiline" yaml:"multiline"`
	Default     string            `json:"default" yaml:"default"`
	MinEntries  int               `json:"minEntries" yaml:"minEntries"`
	EntryFields []wizard.SubField `json:"entryFields" yaml:"entryFields"`
}

type stepFile struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Fields      []string `json:"fields" yaml:"fields"`
	Summary     bool     `json:"summary" yaml:"summary"`
}

type ruleFile struct {
	Field   string `json:"field" yaml:"field"`
	Rule    string `json:"rule" yaml:"rule"`
	Min     int    `json:"min" yaml:"min"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

// Parse decodes a single definition document. JSON is tried first, then
// YAML.
func Parse(data []byte, source string) (wizard.Definition, error) {
	if strings.TrimSpace(string(data)) == "" {
		return wizard.Definition{}, fmt.Errorf("definition: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err != nil {
		doc = documentFile{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return wizard.Definition{}, fmt.Errorf("definition: parse %s: %w", source, err)
		}
	}

	def, err := normaliseDocument(doc, source)
	if err != nil {
		return wizard.Definition{}, err
	}
	if err := def.Validate(); err != nil {
		return wizard.Definition{}, fmt.Errorf("definition: %s: %w", source, err)
	}
	return def, nil
}

func normaliseDocument(doc documentFile, source string) (wizard.Definition, error) {
	progress, err := stepper.ParseProgressPolicy(doc.Progress)
	if err != nil {
		return wizard.Definition{}, fmt.Errorf("definition: %s: %w", source, err)
	}

	def := wizard.Definition{
		ID:             strings.TrimSpace(doc.ID),
		Title:          doc.Title,
		Description:    doc.Description,
		PersistenceKey: strings.TrimSpace(doc.PersistenceKey),
		Progress:       progress,
	}

	for _, raw := range doc.Fields {
		field, err := normaliseField(raw, source)
		if err != nil {
			return wizard.Definition{}, err
		}
		def.Fields = append(def.Fields, field)
	}
	for _, raw := range doc.Steps {
		def.Steps = append(def.Steps, wizard.Step{
			Title:       raw.Title,
			Description: raw.Description,
			Fields:      append([]string(nil), raw.Fields...),
			Summary:     raw.Summary,
		})
	}

	rules, err := buildRules(doc.Rules, source)
	if err != nil {
		return wizard.Definition{}, err
	}
	schema := validation.NewSchema(rules...)
	listFields := make([]string, 0, len(doc.Entries))
	for field := range doc.Entries {
		listFields = append(listFields, field)
	}
	sort.Strings(listFields)
	for _, field := range listFields {
		subRules, err := buildRules(doc.Entries[field], source)
		if err != nil {
			return wizard.Definition{}, err
		}
		schema = schema.WithEntries(field, validation.NewSchema(subRules...))
	}
	def.Schema = schema
	return def, nil
}

func normaliseField(raw fieldFile, source string) (wizard.Field, error) {
	kind := model.Kind(strings.ToLower(strings.TrimSpace(raw.Kind)))
	if kind == "" {
		kind = model.KindText
	}
	field := wizard.Field{
		Name:        strings.TrimSpace(raw.Name),
		Label:       raw.Label,
		Kind:        kind,
		Help:        raw.Help,
		Placeholder: raw.Placeholder,
		Secret:      raw.Secret,
		Multiline:   raw.Multiline,
		MinEntries:  raw.MinEntries,
		EntryFields: append([]wizard.SubField(nil), raw.EntryFields...),
	}
	if raw.Default == "" {
		return field, nil
	}

	switch kind {
	case model.KindText:
		field.Default = model.Text(raw.Default)
	case model.KindNumber:
		n, err := model.ParseNumber(raw.Default)
		if err != nil {
			return wizard.Field{}, fmt.Errorf("definition: %s: field %q default: %w", source, field.Name, err)
		}
		field.Default = model.Number(n)
	case model.KindDate:
		t, err := model.ParseDate(raw.Default)
		if err != nil {
			return wizard.Field{}, fmt.Errorf("definition: %s: field %q default: %w", source, field.Name, err)
		}
		field.Default = model.Date(t)
	default:
		return wizard.Field{}, fmt.Errorf("definition: %s: field %q of kind %s cannot declare a default", source, field.Name, kind)
	}
	return field, nil
}

func buildRules(raw []ruleFile, source string) ([]validation.FieldRule, error) {
	out := make([]validation.FieldRule, 0, len(raw))
	for _, r := range raw {
		field := strings.TrimSpace(r.Field)
		if field == "" {
			return nil, fmt.Errorf("definition: %s: rule without a field", source)
		}
		switch validation.ConstraintKind(strings.TrimSpace(r.Rule)) {
		case validation.KindMinLength:
			out = append(out, validation.MinLength(field, r.Min, r.Message))
		case validation.KindRequired:
			out = append(out, validation.Required(field, r.Message))
		case validation.KindPattern:
			rule, err := validation.CompilePattern(field, r.Pattern, r.Message)
			if err != nil {
				return nil, fmt.Errorf("definition: %s: %w", source, err)
			}
			out = append(out, rule)
		case validation.KindType:
			kind := model.Kind(strings.ToLower(strings.TrimSpace(r.Type)))
			if !kind.Valid() {
				return nil, fmt.Errorf("definition: %s: field %q: unknown type %q", source, field, r.Type)
			}
			out = append(out, validation.TypeOf(field, kind, r.Message))
		default:
			return nil, fmt.Errorf("definition: %s: field %q: unsupported rule %q", source, field, r.Rule)
		}
	}
	return out, nil
}
