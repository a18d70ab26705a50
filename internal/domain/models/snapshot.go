package models

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Signal is the screening verdict for an instrument.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
)

// Display glyphs written by the scanner.
const (
	GlyphBuy  = "🟢"
	GlyphHold = "🟡"
	GlyphSell = "🔴"
)

// ParseSignal maps a glyph or word to a Signal. Unknown values are Hold.
func ParseSignal(s string) Signal {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case GlyphBuy, "BUY", "GREEN":
		return SignalBuy
	case GlyphSell, "SELL", "RED":
		return SignalSell
	default:
		return SignalHold
	}
}

func (s Signal) Glyph() string {
	switch s {
	case SignalBuy:
		return GlyphBuy
	case SignalSell:
		return GlyphSell
	default:
		return GlyphHold
	}
}

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "buy"
	case SignalSell:
		return "sell"
	default:
		return "hold"
	}
}

func (s Signal) MarshalJSON() ([]byte, error) { return json.Marshal(s.Glyph()) }

func (s *Signal) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = ParseSignal(v)
	return nil
}

// Indicators is the opaque indicator bag stored with each analysis row.
type Indicators map[string]interface{}

// String returns the string stored under key, if present.
func (ind Indicators) String(key string) (string, bool) {
	v, ok := ind[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Number returns the numeric value stored under key. Strings are not numbers.
func (ind Indicators) Number(key string) (float64, bool) {
	var f float64
	switch v := ind[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SnapshotRow is a raw analysis row as fetched from a snapshot source.
type SnapshotRow struct {
	StockCode  string     `json:"stock_code"`
	Date       string     `json:"date"`
	Signal     string     `json:"signal"`
	Price      float64    `json:"price"`
	Indicators Indicators `json:"indicators"`
}

// AnalysisSnapshot is one dated observation of an instrument.
type AnalysisSnapshot struct {
	InstrumentID string
	ObservedAt   time.Time
	Date         string
	Signal       Signal
	Price        float64
	Indicators   Indicators
	Note         string
}

// ProjectedRow is the latest snapshot of an instrument, flattened for display.
type ProjectedRow struct {
	Stock  string  `json:"Stock"`
	Name   string  `json:"Name"`
	Date   string  `json:"Date"`
	Signal Signal  `json:"Signal"`
	Close  float64 `json:"Close"`
	Memo   string  `json:"Memo"`
	K      float64 `json:"K"`
	D      float64 `json:"D"`
	RSI    float64 `json:"RSI"`
}

// Board is the projected signal table served to the dashboard.
type Board struct {
	Rows      []ProjectedRow `json:"rows"`
	Total     int            `json:"total"`
	Advisory  string         `json:"advisory,omitempty"`
	FetchedAt time.Time      `json:"fetched_at"`
}

// SignalSummary counts projected rows per signal.
type SignalSummary struct {
	Buy   int `json:"buy"`
	Hold  int `json:"hold"`
	Sell  int `json:"sell"`
	Total int `json:"total"`
}
