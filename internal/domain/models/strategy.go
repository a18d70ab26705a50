package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrNotObject is returned when a strategy mapping is not a JSON object.
var ErrNotObject = errors.New("strategy mapping: not a json object")

// ParamValue is a strategy parameter value: either a number or a string.
// Numbers keep their JSON text so values round-trip exactly.
type ParamValue struct {
	num   json.Number
	str   string
	isNum bool
}

// NumberValue builds a numeric value from its decimal text form.
func NumberValue(text string) ParamValue { return ParamValue{num: json.Number(text), isNum: true} }

// IntValue builds a numeric value from an int.
func IntValue(v int) ParamValue { return NumberValue(strconv.Itoa(v)) }

// FloatValue builds a numeric value from a float64.
func FloatValue(v float64) ParamValue {
	return NumberValue(strconv.FormatFloat(v, 'f', -1, 64))
}

// StringValue builds a string value.
func StringValue(s string) ParamValue { return ParamValue{str: s} }

// IsNumber reports whether the value is numeric.
func (v ParamValue) IsNumber() bool { return v.isNum }

// Float returns the numeric value, or false for string values.
func (v ParamValue) Float() (float64, bool) {
	if !v.isNum {
		return 0, false
	}
	f, err := v.num.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// String returns the textual form of the value.
func (v ParamValue) String() string {
	if v.isNum {
		return v.num.String()
	}
	return v.str
}

func (v ParamValue) MarshalJSON() ([]byte, error) {
	if v.isNum {
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts numbers and strings. Other JSON values are kept as
// their compact JSON text so a stray bool or null never fails a whole payload.
func (v *ParamValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*v = StringValue("")
		return nil
	}
	switch {
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		*v = ParamValue{num: n, isNum: true}
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*v = StringValue(buf.String())
	}
	return nil
}

// StrategyParameter is the canonical, editable form of a strategy knob.
type StrategyParameter struct {
	Key         string     `json:"key"`
	Value       ParamValue `json:"value"`
	Description string     `json:"description"`
}

// StrategyRecord is the list-shaped wire record of a strategy parameter.
type StrategyRecord struct {
	Parameter   string     `json:"Parameter"`
	Value       ParamValue `json:"Value"`
	Description string     `json:"Description"`
}

// MappingEntry is one key/value pair of a StrategyMapping.
type MappingEntry struct {
	Key   string
	Value ParamValue
}

// StrategyMapping is an insertion-ordered name→value object. Setting an
// existing key overwrites its value in place, like a JS object.
type StrategyMapping []MappingEntry

// Set assigns value to key, keeping the position of the first insertion.
func (m *StrategyMapping) Set(key string, value ParamValue) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Value = value
			return
		}
	}
	*m = append(*m, MappingEntry{Key: key, Value: value})
}

// Get returns the value stored for key.
func (m StrategyMapping) Get(key string) (ParamValue, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return ParamValue{}, false
}

// Keys returns keys in insertion order.
func (m StrategyMapping) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}

func (m StrategyMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := e.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving document order.
// Duplicate keys resolve to the last value.
func (m *StrategyMapping) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return ErrNotObject
	}

	out := StrategyMapping{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return ErrNotObject
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var v ParamValue
		if err := v.UnmarshalJSON(raw); err != nil {
			return err
		}
		out.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

// StrategyPayload is the strategy section of a raw configuration document.
// It is one of SequenceForm or MappingForm.
type StrategyPayload interface {
	strategyPayload()
}

// SequenceForm is the list-shaped strategy payload.
type SequenceForm struct {
	Records []StrategyRecord
}

// MappingForm is the legacy object-shaped strategy payload (no descriptions).
type MappingForm struct {
	Entries StrategyMapping
}

func (SequenceForm) strategyPayload() {}
func (MappingForm) strategyPayload()  {}

func (f SequenceForm) MarshalJSON() ([]byte, error) {
	if f.Records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(f.Records)
}

func (f MappingForm) MarshalJSON() ([]byte, error) {
	return f.Entries.MarshalJSON()
}
