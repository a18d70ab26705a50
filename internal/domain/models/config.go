package models

import (
	"bytes"
	"encoding/json"
)

// Sections of a configuration document.
const (
	SectionWatchlist = "watchlist"
	SectionStrategy  = "strategy"
)

// RawConfigPayload is a configuration document as received from a backend:
// { "stock_list": [...], "strategy": [...] | {...} }.
//
// Decoding never fails on a bad section: a section with an unexpected shape
// decodes as absent and is listed in Malformed.
type RawConfigPayload struct {
	StockList []WireStock
	Strategy  StrategyPayload
	Malformed []string
}

func (p *RawConfigPayload) UnmarshalJSON(b []byte) error {
	var aux struct {
		StockList json.RawMessage `json:"stock_list"`
		Strategy  json.RawMessage `json:"strategy"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	*p = RawConfigPayload{}
	stocks, ok := DecodeStockList(aux.StockList)
	if !ok {
		p.Malformed = append(p.Malformed, SectionWatchlist)
	}
	p.StockList = stocks

	strategy, ok := DecodeStrategyPayload(aux.Strategy)
	if !ok {
		p.Malformed = append(p.Malformed, SectionStrategy)
	}
	p.Strategy = strategy
	return nil
}

func (p RawConfigPayload) MarshalJSON() ([]byte, error) {
	out := struct {
		StockList []WireStock     `json:"stock_list"`
		Strategy  StrategyPayload `json:"strategy"`
	}{StockList: p.StockList, Strategy: p.Strategy}
	if out.StockList == nil {
		out.StockList = []WireStock{}
	}
	if out.Strategy == nil {
		out.Strategy = SequenceForm{}
	}
	return json.Marshal(out)
}

// DecodeStockList decodes an array of stock records. Elements that are not
// valid records are skipped. ok is false when raw is present but not an array,
// or when any element had to be skipped.
func DecodeStockList(raw json.RawMessage) (stocks []WireStock, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}
	var elems []json.RawMessage
	if raw[0] != '[' || json.Unmarshal(raw, &elems) != nil {
		return nil, false
	}
	stocks = make([]WireStock, 0, len(elems))
	for _, el := range elems {
		var s WireStock
		if err := json.Unmarshal(el, &s); err != nil {
			continue
		}
		stocks = append(stocks, s)
	}
	return stocks, len(stocks) == len(elems)
}

// DecodeStrategyPayload detects the strategy shape once, at the boundary.
// ok is false when raw is present but neither a list nor an object.
func DecodeStrategyPayload(raw json.RawMessage) (payload StrategyPayload, ok bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, true
	}
	switch raw[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, false
		}
		records := make([]StrategyRecord, 0, len(elems))
		for _, el := range elems {
			var r StrategyRecord
			if err := json.Unmarshal(el, &r); err != nil {
				continue
			}
			records = append(records, r)
		}
		return SequenceForm{Records: records}, true
	case '{':
		var m StrategyMapping
		if err := m.UnmarshalJSON(raw); err != nil {
			return nil, false
		}
		return MappingForm{Entries: m}, true
	default:
		return nil, false
	}
}

// Config is the normalized configuration. Both slices are non-nil.
type Config struct {
	Watchlist []WatchlistEntry    `json:"watchlist"`
	Strategy  []StrategyParameter `json:"strategy"`
}

// ConfigView is the config as served to the dashboard.
type ConfigView struct {
	StockList []WireStock      `json:"stock_list"`
	Strategy  []StrategyRecord `json:"strategy"`
	Degraded  []string         `json:"degraded,omitempty"`
}
