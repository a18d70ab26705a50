package models

// Requests for HTTP endpoints. Defined in domain for consistency and reuse.

type SaveStrategyRequest struct {
	Config StrategyMapping `json:"config" validate:"required"`
}

type SignalsRequest struct {
	Signal string `query:"signal" json:"signal" validate:"omitempty,oneof=buy hold sell"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=5000"`
}

// SaveResult is returned by the save endpoints.
type SaveResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// DashboardView bundles everything the dashboard home renders.
type DashboardView struct {
	Config     *ConfigView   `json:"config,omitempty"`
	Board      *Board        `json:"board"`
	Summary    SignalSummary `json:"summary"`
	Advisories []string      `json:"advisories,omitempty"`
}
