// Package draft holds an editing session's copy of the configuration.
// Every operation takes a Draft by value and returns the next one; the
// receiver is never modified, so drafts can be kept as undo history.
package draft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"SignalBoard/internal/domain/models"
	"SignalBoard/internal/services/normalize"
)

var (
	ErrIndexOutOfRange = errors.New("draft: index out of range")
	ErrUnknownField    = errors.New("draft: unknown field")
	ErrNotANumber      = errors.New("draft: value is not a number")
)

// Field names an editable watchlist column.
type Field string

const (
	FieldStock   Field = "Stock"
	FieldName    Field = "Name"
	FieldEnabled Field = "Enabled"
	FieldMemo    Field = "Memo"
)

// Draft is a caller-owned configuration being edited.
type Draft struct {
	Watchlist []models.WatchlistEntry
	Strategy  []models.StrategyParameter
}

// New starts a draft from a loaded configuration. The draft does not share
// memory with cfg.
func New(cfg models.Config) Draft {
	return Draft{
		Watchlist: append([]models.WatchlistEntry{}, cfg.Watchlist...),
		Strategy:  append([]models.StrategyParameter{}, cfg.Strategy...),
	}
}

// AddStock appends an empty, enabled entry.
func (d Draft) AddStock() Draft {
	next := d.clone()
	next.Watchlist = append(next.Watchlist, models.WatchlistEntry{Enabled: true})
	return next
}

// RemoveStock drops the entry at i. Other entries keep their order.
func (d Draft) RemoveStock(i int) (Draft, error) {
	if i < 0 || i >= len(d.Watchlist) {
		return d, fmt.Errorf("remove stock %d: %w", i, ErrIndexOutOfRange)
	}
	next := d.clone()
	next.Watchlist = append(next.Watchlist[:i], next.Watchlist[i+1:]...)
	return next, nil
}

// UpdateStock sets one column of the entry at i. For Enabled, "TRUE" in any
// case enables the entry and anything else disables it.
func (d Draft) UpdateStock(i int, field Field, value string) (Draft, error) {
	if i < 0 || i >= len(d.Watchlist) {
		return d, fmt.Errorf("update stock %d: %w", i, ErrIndexOutOfRange)
	}
	next := d.clone()
	e := &next.Watchlist[i]
	switch field {
	case FieldStock:
		e.Symbol = value
	case FieldName:
		e.DisplayName = value
	case FieldEnabled:
		e.Enabled = strings.EqualFold(strings.TrimSpace(value), models.EnabledTrue)
	case FieldMemo:
		e.Note = value
	default:
		return d, fmt.Errorf("update stock %d %q: %w", i, field, ErrUnknownField)
	}
	return next, nil
}

// SetParam replaces the value of the parameter at i from user text. A
// numeric parameter stays numeric: the text must parse as a number, and an
// empty string is 0.
func (d Draft) SetParam(i int, text string) (Draft, error) {
	if i < 0 || i >= len(d.Strategy) {
		return d, fmt.Errorf("set param %d: %w", i, ErrIndexOutOfRange)
	}
	next := d.clone()
	p := &next.Strategy[i]
	if !p.Value.IsNumber() {
		p.Value = models.StringValue(text)
		return next, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		p.Value = models.IntValue(0)
		return next, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return d, fmt.Errorf("set param %s=%q: %w", p.Key, text, ErrNotANumber)
	}
	p.Value = models.FloatValue(f)
	return next, nil
}

// UpsertParam sets key to value. An existing parameter keeps its position
// and keeps its description unless desc is non-empty; a new one is appended.
func (d Draft) UpsertParam(key string, value models.ParamValue, desc string) Draft {
	next := d.clone()
	for i := range next.Strategy {
		if next.Strategy[i].Key != key {
			continue
		}
		next.Strategy[i].Value = value
		if desc != "" {
			next.Strategy[i].Description = desc
		}
		return next
	}
	next.Strategy = append(next.Strategy, models.StrategyParameter{Key: key, Value: value, Description: desc})
	return next
}

// Config returns the draft as a normalized configuration.
func (d Draft) Config() models.Config {
	return d.clone().asConfig()
}

// StockList renders the watchlist for saving.
func (d Draft) StockList() []models.WireStock {
	return normalize.DenormalizeWatchlist(d.Watchlist)
}

// Mapping renders the strategy for saving.
func (d Draft) Mapping() models.StrategyMapping {
	return normalize.DenormalizeStrategy(d.Strategy)
}

func (d Draft) asConfig() models.Config {
	return models.Config{Watchlist: d.Watchlist, Strategy: d.Strategy}
}

func (d Draft) clone() Draft {
	return Draft{
		Watchlist: append(make([]models.WatchlistEntry, 0, len(d.Watchlist)+1), d.Watchlist...),
		Strategy:  append(make([]models.StrategyParameter, 0, len(d.Strategy)+1), d.Strategy...),
	}
}
