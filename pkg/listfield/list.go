// Package listfield manages a variable-length list of entries inside a draft
// record, such as the members of a team. Entries carry stable ids so edits
// keep targeting the right entry when siblings are added or removed.
package listfield

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-formwizard/pkg/model"
)

var (
	// ErrEntryNotFound is returned when an id does not match any entry.
	ErrEntryNotFound = errors.New("listfield: entry not found")
	// ErrUnknownSubField is returned when updating a sub-field the list does
	// not declare.
	ErrUnknownSubField = errors.New("listfield: unknown sub-field")
)

// Option configures a List.
type Option func(*List)

// WithMinEntries sets the minimum number of entries. Removals that would go
// below it are ignored.
func WithMinEntries(n int) Option {
	return func(l *List) {
		if n >= 0 {
			l.min = n
		}
	}
}

// WithIDGenerator overrides the id source (uuid by default).
func WithIDGenerator(fn func() string) Option {
	return func(l *List) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// WithEntries seeds the list with existing entries (cloned). Entries without
// an id receive one.
func WithEntries(entries []model.Entry) Option {
	return func(l *List) {
		l.seed = entries
	}
}

// List is an ordered collection of entries with a fixed set of sub-fields.
type List struct {
	fields  []string
	entries []model.Entry
	min     int
	newID   func() string
	seed    []model.Entry
}

// New builds a list whose entries expose the given sub-fields.
func New(fields []string, options ...Option) *List {
	l := &List{
		fields: append([]string(nil), fields...),
		newID:  uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	for _, entry := range l.seed {
		clone := entry.Clone()
		if clone.ID == "" {
			clone.ID = l.newID()
		}
		if clone.Fields == nil {
			clone.Fields = make(map[string]string, len(l.fields))
		}
		l.entries = append(l.entries, clone)
	}
	l.seed = nil
	return l
}

// Fields returns the declared sub-field names.
func (l *List) Fields() []string {
	return append([]string(nil), l.fields...)
}

// Min returns the configured minimum entry count.
func (l *List) Min() int { return l.min }

// Len returns the number of entries.
func (l *List) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in order.
func (l *List) Entries() []model.Entry {
	out := make([]model.Entry, len(l.entries))
	for i, entry := range l.entries {
		out[i] = entry.Clone()
	}
	return out
}

// Value returns the list as a model value.
func (l *List) Value() model.Value {
	return model.List(l.entries...)
}

// IndexOf returns the position of the entry with id, or -1.
func (l *List) IndexOf(id string) int {
	for i, entry := range l.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

// Append adds an entry at the end with every declared sub-field set to "",
// then applies values on top. It returns the stored entry.
func (l *List) Append(values map[string]string) model.Entry {
	entry := model.Entry{
		ID:     l.newID(),
		Fields: make(map[string]string, len(l.fields)),
	}
	for _, name := range l.fields {
		entry.Fields[name] = ""
	}
	for name, value := range values {
		entry.Fields[name] = value
	}
	l.entries = append(l.entries, entry)
	return entry.Clone()
}

// RemoveAt deletes the entry at index. It reports false and leaves the list
// untouched when index is out of range or the minimum would be violated.
func (l *List) RemoveAt(index int) bool {
	if index < 0 || index >= len(l.entries) {
		return false
	}
	if len(l.entries)-1 < l.min {
		return false
	}
	l.entries = append(l.entries[:index:index], l.entries[index+1:]...)
	return true
}

// Remove deletes the entry with id, subject to the same rules as RemoveAt.
func (l *List) Remove(id string) bool {
	return l.RemoveAt(l.IndexOf(id))
}

// Update sets one sub-field of the entry identified by id.
func (l *List) Update(id, field, value string) error {
	if len(l.fields) > 0 && !contains(l.fields, field) {
		return fmt.Errorf("%w: %s", ErrUnknownSubField, field)
	}
	idx := l.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	if l.entries[idx].Fields == nil {
		l.entries[idx].Fields = make(map[string]string, len(l.fields))
	}
	l.entries[idx].Fields[field] = value
	return nil
}

// Pad appends empty entries until the minimum is met.
func (l *List) Pad() {
	for len(l.entries) < l.min {
		l.Append(nil)
	}
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
