package model

import (
	"sort"
	"strconv"
)

// Record is the draft being edited, keyed by field name.
type Record map[string]Value

// Get returns the value stored under name and whether it exists.
func (r Record) Get(name string) (Value, bool) {
	if r == nil {
		return Value{}, false
	}
	v, ok := r[name]
	return v, ok
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}

// Equal reports whether both records hold the same fields and values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Fields returns the field names in lexical order.
func (r Record) Fields() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plain flattens the record into JSON-friendly Go values: strings for text and
// dates, float64 for numbers and []map[string]string for lists. Submit sinks
// and templates consume this shape.
func (r Record) Plain() map[string]any {
	out := make(map[string]any, len(r))
	for name, value := range r {
		switch value.Kind {
		case KindList:
			entries := make([]map[string]string, 0, len(value.Entries))
			for _, entry := range value.Entries {
				fields := make(map[string]string, len(entry.Fields))
				for k, v := range entry.Fields {
					fields[k] = v
				}
				entries = append(entries, fields)
			}
			out[name] = entries
		case KindNumber:
			out[name] = value.Number
		default:
			out[name] = value.String()
		}
	}
	return out
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
