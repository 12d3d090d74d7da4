package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/listfield"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/stepper"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// ErrInvalidDefinition wraps every structural problem reported by
// Definition.Validate.
var ErrInvalidDefinition = errors.New("wizard: invalid definition")

// SubField describes one column of a list field entry.
type SubField struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Field declares one entry of the draft record.
type Field struct {
	Name        string
	Label       string
	Kind        model.Kind
	Help        string
	Placeholder string
	Secret      bool
	Multiline   bool
	Default     model.Value
	EntryFields []SubField
	MinEntries  int
}

// EntryFieldNames returns the sub-field names of a list field.
func (f Field) EntryFieldNames() []string {
	names := make([]string, 0, len(f.EntryFields))
	for _, sub := range f.EntryFields {
		names = append(names, sub.Name)
	}
	return names
}

// DisplayLabel returns Label, falling back to the field name.
func (f Field) DisplayLabel() string {
	if strings.TrimSpace(f.Label) != "" {
		return f.Label
	}
	return f.Name
}

// Step groups the fields shown together. A field may appear in several steps.
// Summary steps carry no fields of their own and present the whole draft for
// review.
type Step struct {
	Title       string
	Description string
	Fields      []string
	Summary     bool
}

// Definition is everything needed to start a wizard session.
type Definition struct {
	ID             string
	Title          string
	Description    string
	PersistenceKey string
	Progress       stepper.ProgressPolicy
	Fields         []Field
	Steps          []Step
	Schema         *validation.Schema
}

// Validate checks the definition for structural problems.
func (d Definition) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDefinition)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("%w: %s declares no steps", ErrInvalidDefinition, d.ID)
	}

	seen := make(map[string]Field, len(d.Fields))
	for _, field := range d.Fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("%w: %s has a field without a name", ErrInvalidDefinition, d.ID)
		}
		if _, dup := seen[field.Name]; dup {
			return fmt.Errorf("%w: %s declares field %q twice", ErrInvalidDefinition, d.ID, field.Name)
		}
		if !field.Kind.Valid() {
			return fmt.Errorf("%w: field %q has unsupported kind %q", ErrInvalidDefinition, field.Name, field.Kind)
		}
		if field.Kind == model.KindList && len(field.EntryFields) == 0 {
			return fmt.Errorf("%w: list field %q declares no entry fields", ErrInvalidDefinition, field.Name)
		}
		if field.Default.IsSet() && field.Default.Kind != field.Kind {
			return fmt.Errorf("%w: field %q default is %s, want %s", ErrInvalidDefinition, field.Name, field.Default.Kind, field.Kind)
		}
		if !field.Default.Finite() {
			return fmt.Errorf("%w: field %q default is not a finite number", ErrInvalidDefinition, field.Name)
		}
		seen[field.Name] = field
	}

	for idx, step := range d.Steps {
		for _, name := range step.Fields {
			if _, ok := seen[name]; !ok {
				return fmt.Errorf("%w: step %d references unknown field %q", ErrInvalidDefinition, idx, name)
			}
		}
	}

	for _, name := range d.Schema.Fields() {
		if _, ok := seen[name]; !ok {
			return fmt.Errorf("%w: rule targets unknown field %q", ErrInvalidDefinition, name)
		}
	}
	return nil
}

// Field looks up a field declaration by name.
func (d Definition) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Key returns the persistence key, defaulting to the definition id.
func (d Definition) Key() string {
	if strings.TrimSpace(d.PersistenceKey) != "" {
		return d.PersistenceKey
	}
	return d.ID
}

// Defaults builds the initial draft: declared defaults or empty values, with
// list fields padded to their minimum size.
func (d Definition) Defaults(newID func() string) model.Record {
	out := make(model.Record, len(d.Fields))
	for _, field := range d.Fields {
		value := model.Empty(field.Kind)
		if field.Default.IsSet() && field.Default.Kind == field.Kind {
			value = field.Default.Clone()
		}
		out[field.Name] = normaliseValue(field, value, newID)
	}
	return out
}

// Normalise reshapes a restored draft to the declared fields: unknown fields
// are dropped, text saved by the flat layout is converted to date or number
// fields when it parses, other missing or mistyped values fall back to empty
// and list fields are padded to their minimum.
func (d Definition) Normalise(record model.Record, newID func() string) model.Record {
	out := make(model.Record, len(d.Fields))
	for _, field := range d.Fields {
		value, ok := record[field.Name]
		if ok && value.Kind != field.Kind {
			value, ok = coerceText(value, field.Kind)
		}
		if !ok {
			value = model.Empty(field.Kind)
		}
		out[field.Name] = normaliseValue(field, value.Clone(), newID)
	}
	return out
}

func coerceText(value model.Value, kind model.Kind) (model.Value, bool) {
	if value.Kind != model.KindText {
		return model.Value{}, false
	}
	raw := strings.TrimSpace(value.Text)
	if raw == "" {
		return model.Empty(kind), true
	}
	switch kind {
	case model.KindDate:
		t, err := model.ParseDate(raw)
		if err != nil {
			return model.Value{}, false
		}
		return model.Date(t), true
	case model.KindNumber:
		n, err := model.ParseNumber(raw)
		if err != nil {
			return model.Value{}, false
		}
		return model.Number(n), true
	default:
		return model.Value{}, false
	}
}

func normaliseValue(field Field, value model.Value, newID func() string) model.Value {
	if field.Kind != model.KindList {
		return value
	}
	list := newList(field, value.Entries, newID)
	for _, entry := range list.Entries() {
		for _, sub := range field.EntryFields {
			if _, ok := entry.Fields[sub.Name]; !ok {
				_ = list.Update(entry.ID, sub.Name, "")
			}
		}
	}
	list.Pad()
	return list.Value()
}

func newList(field Field, entries []model.Entry, newID func() string) *listfield.List {
	options := []listfield.Option{
		listfield.WithEntries(entries),
		listfield.WithMinEntries(field.MinEntries),
	}
	if newID != nil {
		options = append(options, listfield.WithIDGenerator(newID))
	}
	return listfield.New(field.EntryFieldNames(), options...)
}
