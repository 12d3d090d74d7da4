// Package render turns wizard drafts into text for review screens and
// provides the text filters and error ordering used by front-ends.
package render

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

//go:embed templates/*
var embeddedTemplates embed.FS

// DefaultSummaryTemplate is the name of the built-in summary template.
const DefaultSummaryTemplate = "summary.tpl"

// Option configures a Summary renderer.
type Option func(*config)

type config struct {
	templates   fs.FS
	name        string
	placeholder string
}

// WithTemplateFS loads templates from files instead of the embedded set.
func WithTemplateFS(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// WithTemplateName selects the template used by Render.
func WithTemplateName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithPlaceholder sets the text shown for empty values.
func WithPlaceholder(text string) Option {
	return func(cfg *config) {
		cfg.placeholder = text
	}
}

// Summary renders a draft through a pongo2 template.
type Summary struct {
	mu          sync.Mutex
	set         *pongo2.TemplateSet
	name        string
	placeholder string
	tmpl        *pongo2.Template
}

// TemplatesFS exposes the built-in templates so callers can copy or extend
// them.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// NewSummary builds a renderer. Without options it uses the embedded
// summary template.
func NewSummary(options ...Option) (*Summary, error) {
	cfg := &config{
		templates:   TemplatesFS(),
		name:        DefaultSummaryTemplate,
		placeholder: "(not provided)",
	}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	return &Summary{
		set:         pongo2.NewSet("formwizard", pongo2.NewFSLoader(cfg.templates)),
		name:        cfg.name,
		placeholder: cfg.placeholder,
	}, nil
}

// Render produces the review text for record, listing fields in declaration
// order.
func (s *Summary) Render(def wizard.Definition, record model.Record) (string, error) {
	if s == nil || s.set == nil {
		return "", errors.New("render: summary renderer is nil")
	}
	tmpl, err := s.template()
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(SummaryContext(def, record, s.placeholder))
	if err != nil {
		return "", fmt.Errorf("render: execute %s: %w", s.name, err)
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

func (s *Summary) template() (*pongo2.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tmpl != nil {
		return s.tmpl, nil
	}
	tmpl, err := s.set.FromFile(s.name)
	if err != nil {
		return nil, fmt.Errorf("render: load template %s: %w", s.name, err)
	}
	s.tmpl = tmpl
	return tmpl, nil
}

// SummaryContext is the data handed to summary templates: title, fields
// (label, value, list, entries) and placeholder.
func SummaryContext(def wizard.Definition, record model.Record, placeholder string) pongo2.Context {
	fields := make([]map[string]any, 0, len(def.Fields))
	for _, field := range def.Fields {
		if field.Secret {
			continue
		}
		value, _ := record.Get(field.Name)
		item := map[string]any{
			"name":  field.Name,
			"label": field.DisplayLabel(),
			"value": strings.TrimSpace(value.String()),
			"list":  field.Kind == model.KindList,
		}
		if field.Kind == model.KindList {
			entries := make([]string, 0, len(value.Entries))
			for _, entry := range value.Entries {
				if line := entryLine(field, entry); line != "" {
					entries = append(entries, line)
				}
			}
			item["entries"] = entries
		}
		fields = append(fields, item)
	}
	return pongo2.Context{
		"title":       def.Title,
		"fields":      fields,
		"placeholder": placeholder,
	}
}

func entryLine(field wizard.Field, entry model.Entry) string {
	parts := make([]string, 0, len(field.EntryFields))
	for _, sub := range field.EntryFields {
		if value := strings.TrimSpace(entry.Get(sub.Name)); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, ", ")
}
