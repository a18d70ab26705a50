package models

import "time"

// Config change event types.
const (
	EventWatchlistSaved = "watchlist.saved"
	EventStrategySaved  = "strategy.saved"
)

// ConfigEvent announces a successful configuration save to downstream
// consumers such as the market scanner.
type ConfigEvent struct {
	Type  string    `json:"type"`
	Count int       `json:"count"`
	Keys  []string  `json:"keys,omitempty"`
	At    time.Time `json:"at"`
}
