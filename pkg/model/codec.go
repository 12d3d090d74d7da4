package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type wireValue struct {
	Kind  Kind            `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value as {"kind": ..., "value": ...}. Unset values
// encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var (
		payload any
		kind    = v.Kind
	)
	switch kind {
	case "":
		return []byte("null"), nil
	case KindText:
		payload = v.Text
	case KindDate:
		if v.Date.IsZero() {
			payload = ""
		} else {
			payload = v.Date.Format(time.RFC3339Nano)
		}
	case KindNumber:
		payload = v.Number
	case KindList:
		entries := v.Entries
		if entries == nil {
			entries = []Entry{}
		}
		payload = entries
	default:
		return nil, fmt.Errorf("model: unsupported value kind %q", kind)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("model: encode %s value: %w", kind, err)
	}
	return json.Marshal(wireValue{Kind: kind, Value: raw})
}

// UnmarshalJSON accepts the tagged form written by MarshalJSON and the flat
// legacy form (bare strings, numbers and arrays of objects).
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var wire wireValue
		if err := json.Unmarshal(trimmed, &wire); err != nil {
			return fmt.Errorf("model: decode value: %w", err)
		}
		if wire.Kind == "" {
			return fmt.Errorf("model: object value without kind")
		}
		decoded, err := decodeTagged(wire)
		if err != nil {
			return err
		}
		*v = decoded
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("model: decode text: %w", err)
		}
		*v = Text(s)
		return nil
	case '[':
		entries, err := decodeEntries(trimmed)
		if err != nil {
			return err
		}
		*v = Value{Kind: KindList, Entries: entries}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("model: unsupported value %s", string(trimmed))
		}
		*v = Number(n)
		return nil
	}
}

func decodeTagged(wire wireValue) (Value, error) {
	switch wire.Kind {
	case KindText:
		var s string
		if err := unmarshalOptional(wire.Value, &s); err != nil {
			return Value{}, fmt.Errorf("model: decode text: %w", err)
		}
		return Text(s), nil
	case KindDate:
		var s string
		if err := unmarshalOptional(wire.Value, &s); err != nil {
			return Value{}, fmt.Errorf("model: decode date: %w", err)
		}
		t, err := ParseDate(s)
		if err != nil {
			return Value{}, err
		}
		return Date(t), nil
	case KindNumber:
		var n float64
		if err := unmarshalOptional(wire.Value, &n); err != nil {
			return Value{}, fmt.Errorf("model: decode number: %w", err)
		}
		return Number(n), nil
	case KindList:
		if len(bytes.TrimSpace(wire.Value)) == 0 {
			return Empty(KindList), nil
		}
		entries, err := decodeEntries(wire.Value)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindList, Entries: entries}, nil
	default:
		return Value{}, fmt.Errorf("model: unsupported value kind %q", wire.Kind)
	}
}

func unmarshalOptional(raw json.RawMessage, target any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, target)
}

// decodeEntries reads both {"id":..,"fields":{..}} entries and flat
// {"name":..,"role":..} objects. Entries without an id get a fresh one.
func decodeEntries(raw []byte) ([]Entry, error) {
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("model: decode list: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for idx, item := range items {
		entry := Entry{Fields: make(map[string]string)}
		if rawID, ok := item["id"]; ok {
			if err := json.Unmarshal(rawID, &entry.ID); err != nil {
				return nil, fmt.Errorf("model: decode list entry %d id: %w", idx, err)
			}
		}
		if rawFields, ok := item["fields"]; ok {
			if err := unmarshalOptional(rawFields, &entry.Fields); err != nil {
				return nil, fmt.Errorf("model: decode list entry %d: %w", idx, err)
			}
			if entry.Fields == nil {
				entry.Fields = make(map[string]string)
			}
		} else {
			for key, value := range item {
				if key == "id" {
					continue
				}
				var s string
				if err := unmarshalOptional(value, &s); err != nil {
					return nil, fmt.Errorf("model: decode list entry %d field %s: %w", idx, key, err)
				}
				entry.Fields[key] = s
			}
		}
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates. The empty
// string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: invalid date %q", s)
	}
	return t, nil
}

// ParseNumber parses a decimal number, rejecting NaN and infinities.
func ParseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("model: invalid number %q", s)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("model: number %q is not finite", s)
	}
	return n, nil
}

// EncodeRecord serialises a record for persistence.
func EncodeRecord(r Record) ([]byte, error) {
	if r == nil {
		r = Record{}
	}
	data, err := json.Marshal(map[string]Value(r))
	if err != nil {
		return nil, fmt.Errorf("model: encode record: %w", err)
	}
	return data, nil
}

// DecodeRecord parses a record written by EncodeRecord (or the flat legacy
// layout). Null fields are dropped.
func DecodeRecord(data []byte) (Record, error) {
	var raw map[string]Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("model: decode record: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("model: decode record: not an object")
	}
	out := make(Record, len(raw))
	for name, value := range raw {
		if !value.IsSet() {
			continue
		}
		out[name] = value
	}
	return out, nil
}
