package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// WatchlistEntry is the canonical, editable form of a tracked instrument.
// Entries are identified by their index in the list, not by Symbol.
type WatchlistEntry struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"displayName"`
	Enabled     bool   `json:"enabled"`
	Note        string `json:"note"`
}

// WireStock is the persisted/transport record for a watchlist entry.
// Field order matters for the sheet-backed stores: Stock, Name, Enabled, Memo.
type WireStock struct {
	Stock   StockCode   `json:"Stock" validate:"max=32"`
	Name    string      `json:"Name" validate:"max=128"`
	Enabled EnabledFlag `json:"Enabled"`
	Memo    string      `json:"Memo" validate:"max=512"`
}

// UnmarshalJSON accepts numbers and booleans for Name and Memo. Sheet-backed
// stores send numeric-looking cells as JSON numbers.
func (w *WireStock) UnmarshalJSON(b []byte) error {
	var aux struct {
		Stock   StockCode       `json:"Stock"`
		Name    json.RawMessage `json:"Name"`
		Enabled EnabledFlag     `json:"Enabled"`
		Memo    json.RawMessage `json:"Memo"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	name, err := scalarText(aux.Name)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	memo, err := scalarText(aux.Memo)
	if err != nil {
		return fmt.Errorf("memo: %w", err)
	}
	*w = WireStock{Stock: aux.Stock, Name: name, Enabled: aux.Enabled, Memo: memo}
	return nil
}

// scalarText renders a JSON scalar as text. Numbers keep their literal form.
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	switch raw[0] {
	case '"':
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case '{', '[':
		return "", errors.New("expected a scalar")
	default:
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return "", err
		}
		return string(raw), nil
	}
}

// StockCode accepts both JSON strings and numbers ("2330" and 2330 are the same code).
type StockCode string

func (s *StockCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = StockCode(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = StockCode(n.String())
	return nil
}

// EnabledFlag holds the raw Enabled column. Backends send either a JSON bool
// or the literal strings "TRUE"/"FALSE"; anything else is kept as unset.
type EnabledFlag struct {
	value interface{}
}

// BoolFlag wraps a boolean Enabled value.
func BoolFlag(b bool) EnabledFlag { return EnabledFlag{value: b} }

// StringFlag wraps a string Enabled value.
func StringFlag(s string) EnabledFlag { return EnabledFlag{value: s} }

// IsTrue reports whether the flag is boolean true or exactly the string "TRUE".
func (f EnabledFlag) IsTrue() bool {
	switch v := f.value.(type) {
	case bool:
		return v
	case string:
		return v == EnabledTrue
	}
	return false
}

// Raw returns the underlying bool, string or nil.
func (f EnabledFlag) Raw() interface{} { return f.value }

const (
	EnabledTrue  = "TRUE"
	EnabledFalse = "FALSE"
)

func (f EnabledFlag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.value)
}

func (f *EnabledFlag) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case bool, string:
		f.value = t
	default:
		f.value = nil
	}
	return nil
}
