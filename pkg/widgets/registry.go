// Package widgets picks the prompt used for each wizard field.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetInput    = "input"
	WidgetPassword = "password"
	WidgetTextArea = "textarea"
	WidgetDate     = "date"
	WidgetNumber   = "number"
	WidgetList     = "list"
)

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field wizard.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on registered matchers. Higher
// priority wins; ties fall back to registration order. An empty registry
// never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field.
func (r *Registry) Resolve(field wizard.Field) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	if len(rules) == 0 {
		return "", false
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetList, 100, func(field wizard.Field) bool {
		return field.Kind == model.KindList
	})
	r.Register(WidgetPassword, 90, func(field wizard.Field) bool {
		return field.Secret
	})
	r.Register(WidgetTextArea, 80, func(field wizard.Field) bool {
		return field.Kind == model.KindText && field.Multiline
	})
	r.Register(WidgetDate, 70, func(field wizard.Field) bool {
		return field.Kind == model.KindDate
	})
	r.Register(WidgetNumber, 60, func(field wizard.Field) bool {
		return field.Kind == model.KindNumber
	})
	r.Register(WidgetInput, 0, func(wizard.Field) bool {
		return true
	})
}
