package draft

import (
	"errors"
	"testing"

	"SignalBoard/internal/domain/models"
)

func sample() Draft {
	return New(models.Config{
		Watchlist: []models.WatchlistEntry{
			{Symbol: "2330", DisplayName: "台積電", Enabled: true},
			{Symbol: "2330", DisplayName: "dup", Enabled: false},
			{Symbol: "2317", DisplayName: "鴻海", Enabled: true},
		},
		Strategy: []models.StrategyParameter{
			{Key: "MA_SHORT_DAYS", Value: models.IntValue(10), Description: "short"},
			{Key: "MODE", Value: models.StringValue("fast")},
		},
	})
}

func TestAddStockDoesNotTouchReceiver(t *testing.T) {
	d := sample()
	next := d.AddStock()

	if len(d.Watchlist) != 3 {
		t.Fatalf("receiver changed: %d entries", len(d.Watchlist))
	}
	if len(next.Watchlist) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(next.Watchlist))
	}
	added := next.Watchlist[3]
	if added.Symbol != "" || !added.Enabled {
		t.Fatalf("unexpected new entry %#v", added)
	}
}

func TestRemoveStockByIndex(t *testing.T) {
	d := sample()
	next, err := d.RemoveStock(0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(next.Watchlist) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(next.Watchlist))
	}
	// The duplicate symbol survives; only the indexed entry goes.
	if next.Watchlist[0].DisplayName != "dup" || next.Watchlist[1].Symbol != "2317" {
		t.Fatalf("unexpected order %#v", next.Watchlist)
	}
	if d.Watchlist[0].DisplayName != "台積電" {
		t.Fatalf("receiver changed: %#v", d.Watchlist)
	}

	if _, err := d.RemoveStock(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestUpdateStock(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		value string
		check func(models.WatchlistEntry) bool
	}{
		{"stock", FieldStock, "2454", func(e models.WatchlistEntry) bool { return e.Symbol == "2454" }},
		{"name", FieldName, "聯發科", func(e models.WatchlistEntry) bool { return e.DisplayName == "聯發科" }},
		{"enable", FieldEnabled, "TRUE", func(e models.WatchlistEntry) bool { return e.Enabled }},
		{"enable lower", FieldEnabled, "true", func(e models.WatchlistEntry) bool { return e.Enabled }},
		{"memo", FieldMemo, "IC設計", func(e models.WatchlistEntry) bool { return e.Note == "IC設計" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := sample().UpdateStock(1, tt.field, tt.value)
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if !tt.check(next.Watchlist[1]) {
				t.Fatalf("unexpected entry %#v", next.Watchlist[1])
			}
		})
	}

	next, err := sample().UpdateStock(0, FieldEnabled, "FALSE")
	if err != nil || next.Watchlist[0].Enabled {
		t.Fatalf("expected disabled entry, got %#v (%v)", next.Watchlist[0], err)
	}
	if _, err := sample().UpdateStock(0, Field("Price"), "1"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if _, err := sample().UpdateStock(-1, FieldName, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestSetParamKeepsType(t *testing.T) {
	d := sample()

	next, err := d.SetParam(0, "12.5")
	if err != nil {
		t.Fatalf("set numeric: %v", err)
	}
	if f, ok := next.Strategy[0].Value.Float(); !ok || f != 12.5 {
		t.Fatalf("expected 12.5, got %v", next.Strategy[0].Value)
	}

	next, err = d.SetParam(0, "")
	if err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if f, ok := next.Strategy[0].Value.Float(); !ok || f != 0 {
		t.Fatalf("expected 0, got %v", next.Strategy[0].Value)
	}

	if _, err := d.SetParam(0, "abc"); !errors.Is(err, ErrNotANumber) {
		t.Fatalf("expected ErrNotANumber, got %v", err)
	}

	next, err = d.SetParam(1, "42")
	if err != nil {
		t.Fatalf("set string: %v", err)
	}
	if v := next.Strategy[1].Value; v.IsNumber() || v.String() != "42" {
		t.Fatalf("expected string 42, got %#v", v)
	}

	if v, _ := d.Strategy[0].Value.Float(); v != 10 {
		t.Fatalf("receiver changed: %v", d.Strategy[0].Value)
	}
}

func TestUpsertParam(t *testing.T) {
	d := sample()

	next := d.UpsertParam("MA_SHORT_DAYS", models.IntValue(5), "")
	if len(next.Strategy) != 2 {
		t.Fatalf("expected 2 params, got %d", len(next.Strategy))
	}
	if next.Strategy[0].Description != "short" {
		t.Fatalf("description lost: %#v", next.Strategy[0])
	}
	if f, _ := next.Strategy[0].Value.Float(); f != 5 {
		t.Fatalf("expected 5, got %v", next.Strategy[0].Value)
	}

	next = next.UpsertParam("KD_THRESHOLD", models.IntValue(50), "kd")
	if len(next.Strategy) != 3 || next.Strategy[2].Key != "KD_THRESHOLD" || next.Strategy[2].Description != "kd" {
		t.Fatalf("expected appended param, got %#v", next.Strategy)
	}
}

func TestRenderForSave(t *testing.T) {
	d := sample()
	stocks := d.StockList()
	if len(stocks) != 3 {
		t.Fatalf("expected 3 stocks, got %d", len(stocks))
	}
	if got := stocks[1].Enabled.Raw(); got != models.EnabledFalse {
		t.Fatalf("expected FALSE, got %v", got)
	}

	m := d.Mapping()
	if keys := m.Keys(); len(keys) != 2 || keys[0] != "MA_SHORT_DAYS" || keys[1] != "MODE" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestSeed(t *testing.T) {
	d := Seed()
	if len(d.Watchlist) != 5 || d.Watchlist[0].Symbol != "2330" {
		t.Fatalf("unexpected watchlist %#v", d.Watchlist)
	}
	if len(d.Strategy) != 7 {
		t.Fatalf("expected 7 params, got %d", len(d.Strategy))
	}
	for _, p := range d.Strategy {
		if p.Description == "" {
			t.Errorf("%s has no description", p.Key)
		}
	}
}
