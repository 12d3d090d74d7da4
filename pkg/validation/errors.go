package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors maps a field key to its message. Keys are field names, or
// "field[index].subField" for list entries.
type Errors map[string]string

// Empty reports whether there are no errors.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Keys returns the error keys in lexical order.
func (e Errors) Keys() []string {
	keys := make([]string, 0, len(e))
	for key := range e {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// For returns the errors owned by field, including its entry keys.
func (e Errors) For(field string) Errors {
	out := Errors{}
	for key, msg := range e {
		if Owns(field, key) {
			out[key] = msg
		}
	}
	return out
}

// Without returns a copy that drops every key owned by one of fields.
func (e Errors) Without(fields ...string) Errors {
	out := make(Errors, len(e))
	for key, msg := range e {
		owned := false
		for _, field := range fields {
			if Owns(field, key) {
				owned = true
				break
			}
		}
		if !owned {
			out[key] = msg
		}
	}
	return out
}

// Merge returns a copy of e with other applied on top.
func (e Errors) Merge(other Errors) Errors {
	out := make(Errors, len(e)+len(other))
	for key, msg := range e {
		out[key] = msg
	}
	for key, msg := range other {
		out[key] = msg
	}
	return out
}

// Clone returns a copy of e.
func (e Errors) Clone() Errors {
	return Errors{}.Merge(e)
}

// Owns reports whether key belongs to field: either the field itself or one
// of its list entries.
func Owns(field, key string) bool {
	if key == field {
		return true
	}
	return strings.HasPrefix(key, field+"[")
}

// EntryKey builds the key used for a sub-field of a list entry.
func EntryKey(field string, index int, subField string) string {
	return fmt.Sprintf("%s[%d].%s", field, index, subField)
}
