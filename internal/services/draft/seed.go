package draft

import "SignalBoard/internal/domain/models"

// DefaultDescriptions explains the stock strategy knobs.
var DefaultDescriptions = map[string]string{
	"MA_SHORT_DAYS": "短期移動平均線天數 (例如 10 日線)",
	"MA_LONG_DAYS":  "長期移動平均線天數 (例如 20 日線)",
	"RSI_THRESHOLD": "RSI 相關指標的判斷門檻",
	"KD_THRESHOLD":  "KD 隨機指標的判斷門檻",
	"MACD_FAST":     "MACD 快速移動平均線天數 (通常為 12)",
	"MACD_SLOW":     "MACD 慢速移動平均線天數 (通常為 26)",
	"MACD_SIGNAL":   "MACD 訊號線天數 (通常為 9)",
}

// Seed returns the starter watchlist and strategy.
func Seed() Draft {
	d := Draft{}
	for _, s := range []struct{ code, name, memo string }{
		{"2330", "台積電", "權值股"},
		{"2317", "鴻海", "AI伺服器"},
		{"2454", "聯發科", "IC設計"},
		{"2308", "台達電", "電源供應"},
		{"2303", "聯電", "成熟製程"},
	} {
		d.Watchlist = append(d.Watchlist, models.WatchlistEntry{
			Symbol:      s.code,
			DisplayName: s.name,
			Enabled:     true,
			Note:        s.memo,
		})
	}
	for _, p := range []struct {
		key   string
		value int
	}{
		{"MA_SHORT_DAYS", 10},
		{"MA_LONG_DAYS", 20},
		{"RSI_THRESHOLD", 80},
		{"KD_THRESHOLD", 50},
		{"MACD_FAST", 12},
		{"MACD_SLOW", 26},
		{"MACD_SIGNAL", 9},
	} {
		d = d.UpsertParam(p.key, models.IntValue(p.value), DefaultDescriptions[p.key])
	}
	return d
}
