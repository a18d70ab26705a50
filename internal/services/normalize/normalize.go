// Package normalize reconciles the configuration shapes served by the
// various backends into one editable model, and converts it back for saving.
// Every function here is pure and total: bad input yields empty output.
package normalize

import "SignalBoard/internal/domain/models"

// Normalize converts a raw configuration document to the canonical model.
// A missing or unrecognized section becomes an empty sequence.
func Normalize(raw models.RawConfigPayload) models.Config {
	return models.Config{
		Watchlist: Watchlist(raw.StockList),
		Strategy:  Strategy(raw.Strategy),
	}
}

// Watchlist coerces wire stock records into watchlist entries.
func Watchlist(stocks []models.WireStock) []models.WatchlistEntry {
	out := make([]models.WatchlistEntry, 0, len(stocks))
	for _, s := range stocks {
		out = append(out, models.WatchlistEntry{
			Symbol:      string(s.Stock),
			DisplayName: s.Name,
			Enabled:     s.Enabled.IsTrue(),
			Note:        s.Memo,
		})
	}
	return out
}

// Strategy converts either strategy shape to an ordered parameter sequence.
func Strategy(payload models.StrategyPayload) []models.StrategyParameter {
	switch p := payload.(type) {
	case models.SequenceForm:
		out := make([]models.StrategyParameter, 0, len(p.Records))
		for _, r := range p.Records {
			out = append(out, models.StrategyParameter{
				Key:         r.Parameter,
				Value:       r.Value,
				Description: r.Description,
			})
		}
		return out
	case models.MappingForm:
		out := make([]models.StrategyParameter, 0, len(p.Entries))
		for _, e := range p.Entries {
			out = append(out, models.StrategyParameter{Key: e.Key, Value: e.Value})
		}
		return out
	default:
		return []models.StrategyParameter{}
	}
}

// DenormalizeStrategy builds the save mapping. A key that occurs more than
// once keeps its first position and takes the last value.
func DenormalizeStrategy(params []models.StrategyParameter) models.StrategyMapping {
	out := make(models.StrategyMapping, 0, len(params))
	for _, p := range params {
		out.Set(p.Key, p.Value)
	}
	return out
}

// DenormalizeWatchlist converts entries to wire records with Enabled forced
// to the literal "TRUE" or "FALSE".
func DenormalizeWatchlist(entries []models.WatchlistEntry) []models.WireStock {
	out := make([]models.WireStock, 0, len(entries))
	for _, e := range entries {
		enabled := models.EnabledFalse
		if e.Enabled {
			enabled = models.EnabledTrue
		}
		out = append(out, models.WireStock{
			Stock:   models.StockCode(e.Symbol),
			Name:    e.DisplayName,
			Enabled: models.StringFlag(enabled),
			Memo:    e.Note,
		})
	}
	return out
}

// Records converts parameters back to list-shaped wire records.
func Records(params []models.StrategyParameter) []models.StrategyRecord {
	out := make([]models.StrategyRecord, 0, len(params))
	for _, p := range params {
		out = append(out, models.StrategyRecord{
			Parameter:   p.Key,
			Value:       p.Value,
			Description: p.Description,
		})
	}
	return out
}

// View renders a normalized config in the dashboard's wire shape.
// Enabled is served as a boolean, the way the relational backends store it.
func View(cfg models.Config) models.ConfigView {
	stocks := make([]models.WireStock, 0, len(cfg.Watchlist))
	for _, e := range cfg.Watchlist {
		stocks = append(stocks, models.WireStock{
			Stock:   models.StockCode(e.Symbol),
			Name:    e.DisplayName,
			Enabled: models.BoolFlag(e.Enabled),
			Memo:    e.Note,
		})
	}
	return models.ConfigView{
		StockList: stocks,
		Strategy:  Records(cfg.Strategy),
	}
}

// FillDescriptions sets an empty description from defaults when the key has
// one. It returns a new slice and the number of descriptions filled.
func FillDescriptions(params []models.StrategyParameter, defaults map[string]string) ([]models.StrategyParameter, int) {
	out := make([]models.StrategyParameter, len(params))
	copy(out, params)
	filled := 0
	for i := range out {
		if out[i].Description != "" {
			continue
		}
		if d, ok := defaults[out[i].Key]; ok && d != "" {
			out[i].Description = d
			filled++
		}
	}
	return out, filled
}

// EnabledSymbols returns the symbols of enabled entries, in list order.
func EnabledSymbols(entries []models.WatchlistEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Enabled && e.Symbol != "" {
			out = append(out, e.Symbol)
		}
	}
	return out
}
