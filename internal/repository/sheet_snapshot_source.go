package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"SignalBoard/internal/domain/models"
	domrepo "SignalBoard/internal/domain/repository"
	pkghttp "SignalBoard/pkg/http"
	applogger "SignalBoard/pkg/logger"
)

// Sheet columns with a dedicated SnapshotRow field. Every other column
// lands in Indicators.
const (
	colStock  = "Stock"
	colDate   = "Date"
	colSignal = "Signal"
	colClose  = "Close"
)

// textColumns are never coerced to numbers.
var textColumns = map[string]bool{"Name": true, "Memo": true, "Signal_Memo": true}

// SheetSnapshotSource reads the published spreadsheet CSV the scanner
// writes its results to.
type SheetSnapshotSource struct {
	client *pkghttp.Client
	url    string
	l      *applogger.Logger
}

// NewSheetSnapshotSource creates a source for the CSV at url.
func NewSheetSnapshotSource(client *pkghttp.Client, url string, l *applogger.Logger) *SheetSnapshotSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &SheetSnapshotSource{client: client, url: url, l: l}
}

func (s *SheetSnapshotSource) FetchSnapshots(ctx context.Context) ([]models.SnapshotRow, error) {
	var body []byte
	err := s.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:  pkghttp.MethodGet,
		URL:     s.url,
		Headers: map[string]string{"Accept": "text/csv"},
	}, &body)
	if err != nil {
		return nil, fmt.Errorf("download sheet: %w: %w", domrepo.ErrBackendUnavailable, err)
	}

	rows, err := ParseSheetCSV(bytes.NewReader(body))
	if err != nil {
		s.l.Warn("sheet csv parse error", applogger.Error(err))
		return nil, fmt.Errorf("parse sheet: %w: %w", domrepo.ErrBackendUnavailable, err)
	}
	return rows, nil
}

func (s *SheetSnapshotSource) Close() error { return nil }

// ParseSheetCSV reads a CSV whose first line is the header. Rows without a
// Stock or Signal value are dropped. Numeric cells become float64.
func ParseSheetCSV(r io.Reader) ([]models.SnapshotRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []models.SnapshotRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	out := make([]models.SnapshotRow, 0, 64)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		row := models.SnapshotRow{Indicators: models.Indicators{}}
		for i, name := range header {
			if i >= len(rec) || name == "" {
				continue
			}
			cell := strings.TrimSpace(rec[i])
			switch name {
			case colStock:
				row.StockCode = cell
			case colDate:
				row.Date = cell
			case colSignal:
				row.Signal = cell
			case colClose:
				row.Price, _ = strconv.ParseFloat(cell, 64)
			default:
				if cell == "" {
					continue
				}
				if textColumns[name] {
					row.Indicators[name] = cell
				} else if f, err := strconv.ParseFloat(cell, 64); err == nil {
					row.Indicators[name] = f
				} else {
					row.Indicators[name] = cell
				}
			}
		}
		if row.StockCode == "" || row.Signal == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}
