package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// FieldError is one message ready for display.
type FieldError struct {
	Key     string
	Label   string
	Message string
}

// OrderedErrors lists errs in the order fields appear across the steps, with
// list entry keys following their field by index. Keys that match no field
// come last, sorted.
func OrderedErrors(def wizard.Definition, errs validation.Errors) []FieldError {
	if errs.Empty() {
		return nil
	}
	out := make([]FieldError, 0, len(errs))
	placed := make(map[string]bool, len(errs))

	for _, name := range fieldOrder(def) {
		field, _ := def.Field(name)
		owned := errs.For(name)
		keys := owned.Keys()
		sort.SliceStable(keys, func(i, j int) bool {
			return entryIndex(keys[i]) < entryIndex(keys[j])
		})
		for _, key := range keys {
			out = append(out, FieldError{Key: key, Label: field.DisplayLabel(), Message: strings.TrimSpace(owned[key])})
			placed[key] = true
		}
	}
	for _, key := range errs.Keys() {
		if placed[key] {
			continue
		}
		out = append(out, FieldError{Key: key, Label: key, Message: strings.TrimSpace(errs[key])})
	}
	return out
}

func fieldOrder(def wizard.Definition) []string {
	seen := make(map[string]bool, len(def.Fields))
	var out []string
	for _, step := range def.Steps {
		for _, name := range step.Fields {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	for _, field := range def.Fields {
		if !seen[field.Name] {
			seen[field.Name] = true
			out = append(out, field.Name)
		}
	}
	return out
}

// entryIndex extracts the index from "field[3].sub"; the bare field key
// sorts first.
func entryIndex(key string) int {
	open := strings.IndexByte(key, '[')
	end := strings.IndexByte(key, ']')
	if open < 0 || end < open {
		return -1
	}
	n, err := strconv.Atoi(key[open+1 : end])
	if err != nil {
		return -1
	}
	return n
}
