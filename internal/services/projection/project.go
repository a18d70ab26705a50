// Package projection reduces dated analysis snapshots to the latest one per
// instrument and flattens the result for display.
package projection

import (
	"sort"
	"strings"

	"SignalBoard/internal/domain/models"
	"SignalBoard/pkg/util"
)

// Indicator keys read from the snapshot indicator bag.
const (
	KeyName       = "Name"
	KeyMemo       = "Memo"
	KeySignalMemo = "Signal_Memo"
	KeyK          = "K"
	KeyD          = "D"
	KeyRSI        = "RSI"
)

// FromRows converts raw rows into snapshots. Rows without a stock code or a
// signal are not analysis results and are dropped. An unparseable date sorts
// as the oldest observation.
func FromRows(rows []models.SnapshotRow) []models.AnalysisSnapshot {
	out := make([]models.AnalysisSnapshot, 0, len(rows))
	for _, r := range rows {
		code := strings.TrimSpace(r.StockCode)
		if code == "" || strings.TrimSpace(r.Signal) == "" {
			continue
		}
		observed, _ := util.ParseDate(r.Date)
		ind := r.Indicators
		if ind == nil {
			ind = models.Indicators{}
		}
		out = append(out, models.AnalysisSnapshot{
			InstrumentID: code,
			ObservedAt:   observed,
			Date:         r.Date,
			Signal:       models.ParseSignal(r.Signal),
			Price:        r.Price,
			Indicators:   ind,
			Note:         noteOf(ind),
		})
	}
	return out
}

// Project returns exactly one snapshot per instrument: the one with the
// greatest ObservedAt. Output is ordered by InstrumentID.
//
// Ties on ObservedAt go to the snapshot that appears first in the input.
func Project(snapshots []models.AnalysisSnapshot) []models.AnalysisSnapshot {
	if len(snapshots) == 0 {
		return []models.AnalysisSnapshot{}
	}

	sorted := make([]models.AnalysisSnapshot, len(snapshots))
	copy(sorted, snapshots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].InstrumentID != sorted[j].InstrumentID {
			return sorted[i].InstrumentID < sorted[j].InstrumentID
		}
		return sorted[i].ObservedAt.After(sorted[j].ObservedAt)
	})

	seen := make(map[string]struct{}, len(sorted))
	out := make([]models.AnalysisSnapshot, 0, len(sorted))
	for _, s := range sorted {
		if _, ok := seen[s.InstrumentID]; ok {
			continue
		}
		seen[s.InstrumentID] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ToRow flattens a snapshot. Missing or non-numeric K/D/RSI read as 0.
func ToRow(s models.AnalysisSnapshot) models.ProjectedRow {
	name, _ := s.Indicators.String(KeyName)
	k, _ := s.Indicators.Number(KeyK)
	d, _ := s.Indicators.Number(KeyD)
	rsi, _ := s.Indicators.Number(KeyRSI)
	return models.ProjectedRow{
		Stock:  s.InstrumentID,
		Name:   name,
		Date:   s.Date,
		Signal: s.Signal,
		Close:  s.Price,
		Memo:   s.Note,
		K:      k,
		D:      d,
		RSI:    rsi,
	}
}

// Rows runs the whole pipeline: convert, project, flatten.
func Rows(rows []models.SnapshotRow) []models.ProjectedRow {
	latest := Project(FromRows(rows))
	out := make([]models.ProjectedRow, 0, len(latest))
	for _, s := range latest {
		out = append(out, ToRow(s))
	}
	return out
}

// Summarize counts rows per signal.
func Summarize(rows []models.ProjectedRow) models.SignalSummary {
	var sum models.SignalSummary
	for _, r := range rows {
		switch r.Signal {
		case models.SignalBuy:
			sum.Buy++
		case models.SignalSell:
			sum.Sell++
		default:
			sum.Hold++
		}
	}
	sum.Total = len(rows)
	return sum
}

// noteOf reads Memo, falling back to Signal_Memo only when Memo is absent.
func noteOf(ind models.Indicators) string {
	if memo, ok := ind.String(KeyMemo); ok {
		return memo
	}
	if memo, ok := ind.String(KeySignalMemo); ok {
		return memo
	}
	return ""
}
