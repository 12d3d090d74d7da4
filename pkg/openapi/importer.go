package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/stepper"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

const (
	orderExtensionKey   = "x-order"
	messageExtensionKey = "x-message"
	stepExtensionKey    = "x-step"
)

var (
	// ErrSchemaNotFound is returned when the component does not exist.
	ErrSchemaNotFound = errors.New("openapi: component schema not found")
	// ErrUnsupportedSchema is returned for components that are not objects.
	ErrUnsupportedSchema = errors.New("openapi: unsupported schema")
)

// Options tunes the generated definition.
type Options struct {
	ID             string
	Title          string
	PersistenceKey string
	Progress       stepper.ProgressPolicy
	FieldsPerStep  int
}

// Option mutates Options.
type Option func(*Options)

// WithID overrides the definition id (the component name by default).
func WithID(id string) Option {
	return func(o *Options) { o.ID = id }
}

// WithTitle overrides the definition title (the schema title by default).
func WithTitle(title string) Option {
	return func(o *Options) { o.Title = title }
}

// WithPersistenceKey sets the draft key.
func WithPersistenceKey(key string) Option {
	return func(o *Options) { o.PersistenceKey = key }
}

// WithProgress sets the progress policy.
func WithProgress(policy stepper.ProgressPolicy) Option {
	return func(o *Options) { o.Progress = policy }
}

// WithFieldsPerStep splits fields without an x-step extension into steps of
// n fields. Zero keeps them on a single step.
func WithFieldsPerStep(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.FieldsPerStep = n
		}
	}
}

// ImportFS reads an OpenAPI document from fsys and imports component.
func ImportFS(ctx context.Context, fsys fs.FS, name, component string, options ...Option) (wizard.Definition, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return wizard.Definition{}, fmt.Errorf("openapi: read %s: %w", name, err)
	}
	return Import(ctx, data, component, options...)
}

// Import builds a wizard definition from the named component schema of an
// OpenAPI document (JSON or YAML). Properties map to fields: strings to text
// (or date for date formats), numbers and integers to number, arrays of
// objects to list fields. minLength, minItems, required and pattern become
// validation rules.
func Import(ctx context.Context, data []byte, component string, options ...Option) (wizard.Definition, error) {
	if err := ctx.Err(); err != nil {
		return wizard.Definition{}, err
	}
	if len(data) == 0 {
		return wizard.Definition{}, errors.New("openapi: document payload is empty")
	}

	opts := Options{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return wizard.Definition{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil {
		return wizard.Definition{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, component)
	}
	ref, ok := doc.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return wizard.Definition{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, component)
	}
	schema := ref.Value
	if len(schema.Properties) == 0 {
		return wizard.Definition{}, fmt.Errorf("%w: %s has no properties", ErrUnsupportedSchema, component)
	}

	def := wizard.Definition{
		ID:             firstNonEmpty(opts.ID, component),
		Title:          firstNonEmpty(opts.Title, schema.Title, component),
		Description:    schema.Description,
		PersistenceKey: opts.PersistenceKey,
		Progress:       opts.Progress,
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	var (
		rules    []validation.FieldRule
		entries  = map[string]*validation.Schema{}
		steps    []wizard.Step
		stepIdx  = map[string]int{}
		unplaced []string
	)
	for _, name := range propertyOrder(schema) {
		prop := schema.Properties[name].Value
		if prop == nil {
			continue
		}
		field, err := convertField(name, prop)
		if err != nil {
			return wizard.Definition{}, err
		}
		def.Fields = append(def.Fields, field)

		fieldRules, err := convertRules(name, prop, required[name])
		if err != nil {
			return wizard.Definition{}, err
		}
		rules = append(rules, fieldRules...)

		if field.Kind == model.KindList {
			sub, err := entrySchema(name, prop.Items.Value)
			if err != nil {
				return wizard.Definition{}, err
			}
			entries[name] = sub
		}

		if title, ok := prop.Extensions[stepExtensionKey].(string); ok && strings.TrimSpace(title) != "" {
			idx, seen := stepIdx[title]
			if !seen {
				idx = len(steps)
				stepIdx[title] = idx
				steps = append(steps, wizard.Step{Title: title})
			}
			steps[idx].Fields = append(steps[idx].Fields, name)
			continue
		}
		unplaced = append(unplaced, name)
	}
	def.Steps = append(steps, chunkSteps(unplaced, opts.FieldsPerStep)...)

	out := validation.NewSchema(rules...)
	for _, name := range sortedKeys(entries) {
		out = out.WithEntries(name, entries[name])
	}
	def.Schema = out

	if err := def.Validate(); err != nil {
		return wizard.Definition{}, fmt.Errorf("openapi: %s: %w", component, err)
	}
	return def, nil
}

func convertField(name string, prop *openapi3.Schema) (wizard.Field, error) {
	field := wizard.Field{
		Name:  name,
		Label: firstNonEmpty(prop.Title, name),
		Help:  prop.Description,
	}

	switch schemaType(prop) {
	case "string", "":
		field.Kind = model.KindText
		switch prop.Format {
		case "date", "date-time":
			field.Kind = model.KindDate
		case "password":
			field.Secret = true
		case "textarea":
			field.Multiline = true
		}
		if prop.MaxLength != nil && *prop.MaxLength > 200 {
			field.Multiline = true
		}
	case "number", "integer":
		field.Kind = model.KindNumber
	case "array":
		if prop.Items == nil || prop.Items.Value == nil || len(prop.Items.Value.Properties) == 0 {
			return wizard.Field{}, fmt.Errorf("%w: array %q must hold objects", ErrUnsupportedSchema, name)
		}
		field.Kind = model.KindList
		field.MinEntries = int(prop.MinItems)
		for _, sub := range propertyOrder(prop.Items.Value) {
			subSchema := prop.Items.Value.Properties[sub].Value
			label := sub
			if subSchema != nil {
				label = firstNonEmpty(subSchema.Title, sub)
			}
			field.EntryFields = append(field.EntryFields, wizard.SubField{Name: sub, Label: label})
		}
	default:
		return wizard.Field{}, fmt.Errorf("%w: property %q has type %q", ErrUnsupportedSchema, name, schemaType(prop))
	}

	switch v := prop.Default.(type) {
	case string:
		if field.Kind == model.KindText {
			field.Default = model.Text(v)
		}
	case float64:
		if field.Kind == model.KindNumber {
			field.Default = model.Number(v)
		}
	}
	return field, nil
}

func convertRules(name string, prop *openapi3.Schema, required bool) ([]validation.FieldRule, error) {
	message, _ := prop.Extensions[messageExtensionKey].(string)
	var out []validation.FieldRule
	if required {
		out = append(out, validation.Required(name, message))
	}
	if prop.MinLength > 0 {
		out = append(out, validation.MinLength(name, int(prop.MinLength), message))
	}
	if prop.MinItems > 0 {
		out = append(out, validation.MinLength(name, int(prop.MinItems), message))
	}
	if prop.Pattern != "" {
		rule, err := validation.CompilePattern(name, prop.Pattern, message)
		if err != nil {
			return nil, fmt.Errorf("openapi: %w", err)
		}
		out = append(out, rule)
	}
	return out, nil
}

func entrySchema(field string, item *openapi3.Schema) (*validation.Schema, error) {
	required := make(map[string]bool, len(item.Required))
	for _, name := range item.Required {
		required[name] = true
	}
	var rules []validation.FieldRule
	for _, name := range propertyOrder(item) {
		prop := item.Properties[name].Value
		if prop == nil {
			continue
		}
		subRules, err := convertRules(name, prop, required[name])
		if err != nil {
			return nil, fmt.Errorf("openapi: %s: %w", field, err)
		}
		rules = append(rules, subRules...)
	}
	return validation.NewSchema(rules...), nil
}

// propertyOrder honours an x-order list, then appends the remaining
// properties alphabetically.
func propertyOrder(schema *openapi3.Schema) []string {
	seen := make(map[string]bool, len(schema.Properties))
	var out []string
	if raw, ok := schema.Extensions[orderExtensionKey].([]any); ok {
		for _, item := range raw {
			name, ok := item.(string)
			if !ok || seen[name] {
				continue
			}
			if _, exists := schema.Properties[name]; exists {
				out = append(out, name)
				seen[name] = true
			}
		}
	}
	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func chunkSteps(fields []string, size int) []wizard.Step {
	if len(fields) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(fields)
	}
	var out []wizard.Step
	for start := 0; start < len(fields); start += size {
		end := min(start+size, len(fields))
		out = append(out, wizard.Step{
			Title:  fmt.Sprintf("Step %d", len(out)+1),
			Fields: append([]string(nil), fields[start:end]...),
		})
	}
	return out
}

func schemaType(schema *openapi3.Schema) string {
	if schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func sortedKeys(m map[string]*validation.Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
