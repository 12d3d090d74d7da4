// Package validation evaluates declarative field rules against a draft
// record. Rules never mutate the record; they report at most one message per
// field key so several fields can fail in the same pass.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// ConstraintKind names the check performed by a FieldRule.
type ConstraintKind string

const (
	KindMinLength ConstraintKind = "minLength"
	KindRequired  ConstraintKind = "required"
	KindPattern   ConstraintKind = "pattern"
	KindCustom    ConstraintKind = "custom"
	KindType      ConstraintKind = "type"
)

// CheckFunc backs custom rules. It reports whether the value is acceptable.
type CheckFunc func(model.Value) bool

// FieldRule is a single constraint on a named field. Rules are immutable once
// built; use the constructors so patterns are compiled up front.
type FieldRule struct {
	Field   string
	Kind    ConstraintKind
	Min     int
	Pattern *regexp.Regexp
	Type    model.Kind
	Check   CheckFunc
	Message string
}

// MinLength requires text to hold at least min characters, or a list to hold
// at least min entries.
func MinLength(field string, min int, message string) FieldRule {
	if message == "" {
		message = fmt.Sprintf("must be at least %d characters", min)
	}
	return FieldRule{Field: field, Kind: KindMinLength, Min: min, Message: message}
}

// Required fails on unset or empty values.
func Required(field, message string) FieldRule {
	if message == "" {
		message = "is required"
	}
	return FieldRule{Field: field, Kind: KindRequired, Message: message}
}

// Pattern requires non-empty text to match expr. It panics when expr does not
// compile, mirroring regexp.MustCompile, since rules are declared statically.
func Pattern(field, expr, message string) FieldRule {
	if message == "" {
		message = "has an invalid format"
	}
	return FieldRule{Field: field, Kind: KindPattern, Pattern: regexp.MustCompile(expr), Message: message}
}

// CompilePattern is the error-returning variant of Pattern for rules loaded
// from definition files.
func CompilePattern(field, expr, message string) (FieldRule, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return FieldRule{}, fmt.Errorf("validation: field %s: invalid pattern: %w", field, err)
	}
	if message == "" {
		message = "has an invalid format"
	}
	return FieldRule{Field: field, Kind: KindPattern, Pattern: re, Message: message}, nil
}

// Custom wraps an arbitrary predicate.
func Custom(field string, check CheckFunc, message string) FieldRule {
	if message == "" {
		message = "is invalid"
	}
	return FieldRule{Field: field, Kind: KindCustom, Check: check, Message: message}
}

// TypeOf requires a set value to be of the given kind.
func TypeOf(field string, kind model.Kind, message string) FieldRule {
	if message == "" {
		message = fmt.Sprintf("must be a %s value", kind)
	}
	return FieldRule{Field: field, Kind: KindType, Type: kind, Message: message}
}

// passes evaluates the rule against a single value.
func (r FieldRule) passes(value model.Value) bool {
	switch r.Kind {
	case KindRequired:
		return !value.IsEmpty()
	case KindMinLength:
		switch value.Kind {
		case model.KindText:
			return utf8.RuneCountInString(value.Text) >= r.Min
		case model.KindList:
			return len(value.Entries) >= r.Min
		case "":
			return r.Min <= 0
		default:
			return false
		}
	case KindPattern:
		if value.Kind == "" || (value.Kind == model.KindText && value.Text == "") {
			return true
		}
		if value.Kind != model.KindText || r.Pattern == nil {
			return false
		}
		return r.Pattern.MatchString(value.Text)
	case KindType:
		return value.Kind == "" || value.Kind == r.Type
	case KindCustom:
		if r.Check == nil {
			return true
		}
		return r.Check(value)
	default:
		return true
	}
}
