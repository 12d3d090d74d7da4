package model

import (
	"math"
	"sort"
	"strings"
	"time"
)

// Kind identifies the variant stored in a Value.
type Kind string

const (
	KindText   Kind = "text"
	KindDate   Kind = "date"
	KindNumber Kind = "number"
	KindList   Kind = "list"
)

// Valid reports whether k names a supported value kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindDate, KindNumber, KindList:
		return true
	default:
		return false
	}
}

// Value is a single field value. The zero Value is "unset".
type Value struct {
	Kind    Kind
	Text    string
	Date    time.Time
	Number  float64
	Entries []Entry
}

// Entry is one element of a list field (for example a team member). Entries
// are addressed by ID so edits survive reordering and removal of siblings.
type Entry struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// Text builds a text value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// Date builds a date value.
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Date: t}
}

// Number builds a numeric value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

// Finite reports whether a number value is neither NaN nor infinite. Other
// kinds are always finite. Non-finite numbers cannot be persisted.
func (v Value) Finite() bool {
	if v.Kind != KindNumber {
		return true
	}
	return !math.IsNaN(v.Number) && !math.IsInf(v.Number, 0)
}

// List builds a list value from the given entries. The entries are cloned.
func List(entries ...Entry) Value {
	out := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Clone())
	}
	return Value{Kind: KindList, Entries: out}
}

// Empty returns the empty value for kind.
func Empty(kind Kind) Value {
	switch kind {
	case KindList:
		return Value{Kind: KindList, Entries: []Entry{}}
	case KindText, KindDate, KindNumber:
		return Value{Kind: kind}
	default:
		return Value{}
	}
}

// IsSet reports whether the value carries a kind at all.
func (v Value) IsSet() bool {
	return v.Kind != ""
}

// IsEmpty reports whether the value should be treated as missing by
// "required" style rules. Numbers are never empty once set.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	case KindDate:
		return v.Date.IsZero()
	case KindNumber:
		return false
	case KindList:
		return len(v.Entries) == 0
	default:
		return true
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	out := v
	if v.Entries != nil {
		out.Entries = make([]Entry, len(v.Entries))
		for i, entry := range v.Entries {
			out.Entries[i] = entry.Clone()
		}
	}
	return out
}

// Equal reports whether v and other hold the same kind and content.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == other.Text
	case KindDate:
		return v.Date.Equal(other.Date)
	case KindNumber:
		return v.Number == other.Number
	case KindList:
		if len(v.Entries) != len(other.Entries) {
			return false
		}
		for i := range v.Entries {
			if !v.Entries[i].Equal(other.Entries[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindDate:
		if v.Date.IsZero() {
			return ""
		}
		return v.Date.Format("2006-01-02")
	case KindNumber:
		return formatNumber(v.Number)
	case KindList:
		parts := make([]string, 0, len(v.Entries))
		for _, entry := range v.Entries {
			parts = append(parts, entry.String())
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	out := Entry{ID: e.ID}
	if e.Fields != nil {
		out.Fields = make(map[string]string, len(e.Fields))
		for k, v := range e.Fields {
			out.Fields[k] = v
		}
	}
	return out
}

// Equal compares IDs and field values. A nil and an empty field map are equal.
func (e Entry) Equal(other Entry) bool {
	if e.ID != other.ID || len(e.Fields) != len(other.Fields) {
		return false
	}
	for k, v := range e.Fields {
		ov, ok := other.Fields[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// Get returns the named sub-field value ("" when absent).
func (e Entry) Get(name string) string {
	return e.Fields[name]
}

// String renders the non-empty sub-fields in name order.
func (e Entry) String() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		if value := strings.TrimSpace(e.Fields[name]); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, ", ")
}
