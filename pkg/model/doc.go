// Package model defines the draft record edited by a wizard. Values are a
// tagged union over text, dates, numbers and lists of entries so validation
// rules can dispatch on the kind of value they receive instead of guessing at
// untyped payloads. Records encode to a flat JSON object keyed by field name;
// each value carries its kind so that dates and numbers survive a round trip
// through persistence unchanged.
package model
