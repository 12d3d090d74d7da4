package validation

import (
	"github.com/goliatone/go-formwizard/pkg/model"
)

// Schema is an ordered set of field rules plus optional sub-schemas applied
// to every entry of a list field.
type Schema struct {
	rules   []FieldRule
	fields  []string
	entries map[string]*Schema
}

// NewSchema builds a schema from rules. Rule order is preserved; for a given
// field the first failing rule determines the reported message.
func NewSchema(rules ...FieldRule) *Schema {
	s := &Schema{}
	for _, rule := range rules {
		s.add(rule)
	}
	return s
}

func (s *Schema) add(rule FieldRule) {
	if rule.Field == "" {
		return
	}
	if !containsString(s.fields, rule.Field) {
		s.fields = append(s.fields, rule.Field)
	}
	s.rules = append(s.rules, rule)
}

// WithEntries returns a copy of s that validates every entry of the list
// field with sub.
func (s *Schema) WithEntries(field string, sub *Schema) *Schema {
	out := s.clone()
	if out.entries == nil {
		out.entries = make(map[string]*Schema)
	}
	out.entries[field] = sub
	if !containsString(out.fields, field) {
		out.fields = append(out.fields, field)
	}
	return out
}

// With returns a copy of s with extra rules appended.
func (s *Schema) With(rules ...FieldRule) *Schema {
	out := s.clone()
	for _, rule := range rules {
		out.add(rule)
	}
	return out
}

func (s *Schema) clone() *Schema {
	if s == nil {
		return &Schema{}
	}
	out := &Schema{
		rules:  append([]FieldRule(nil), s.rules...),
		fields: append([]string(nil), s.fields...),
	}
	if len(s.entries) > 0 {
		out.entries = make(map[string]*Schema, len(s.entries))
		for k, v := range s.entries {
			out.entries[k] = v
		}
	}
	return out
}

// Rules returns a copy of the declared rules.
func (s *Schema) Rules() []FieldRule {
	if s == nil {
		return nil
	}
	return append([]FieldRule(nil), s.rules...)
}

// Fields returns the constrained field names in declaration order.
func (s *Schema) Fields() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.fields...)
}

// Entries returns the sub-schema registered for a list field.
func (s *Schema) Entries(field string) (*Schema, bool) {
	if s == nil || s.entries == nil {
		return nil, false
	}
	sub, ok := s.entries[field]
	return sub, ok
}

// Validate evaluates every rule against record.
func (s *Schema) Validate(record model.Record) Errors {
	return s.ValidateFields(record, s.Fields()...)
}

// ValidateFields evaluates only the rules attached to the named fields.
func (s *Schema) ValidateFields(record model.Record, fields ...string) Errors {
	errs := Errors{}
	if s == nil {
		return errs
	}
	for _, field := range fields {
		s.validateField(record, field, errs)
	}
	return errs
}

// ValidateField evaluates a single field, including its list entries.
func (s *Schema) ValidateField(record model.Record, field string) Errors {
	return s.ValidateFields(record, field)
}

func (s *Schema) validateField(record model.Record, field string, errs Errors) {
	value, _ := record.Get(field)
	for _, rule := range s.rules {
		if rule.Field != field {
			continue
		}
		if !rule.passes(value) {
			errs[field] = rule.Message
			break
		}
	}

	sub, ok := s.Entries(field)
	if !ok || sub == nil || value.Kind != model.KindList {
		return
	}
	for idx, entry := range value.Entries {
		entryErrs := sub.Validate(entryRecord(entry, sub.Fields()))
		for key, msg := range entryErrs {
			errs[EntryKey(field, idx, key)] = msg
		}
	}
}

func entryRecord(entry model.Entry, fields []string) model.Record {
	out := make(model.Record, len(entry.Fields))
	for name, value := range entry.Fields {
		out[name] = model.Text(value)
	}
	for _, name := range fields {
		if _, ok := out[name]; !ok {
			out[name] = model.Text("")
		}
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
