package export

import (
	"context"
	"fmt"

	"go-vacancy-collector/internal/scraper"
)

// ValuesWriter is the part of the Sheets client the exporter uses.
type ValuesWriter interface {
	ClearValues(ctx context.Context, spreadsheetID, range_ string) error
	UpdateValues(ctx context.Context, spreadsheetID, range_ string, values [][]interface{}) error
}

// Sheets replaces the contents of one tab with the result set.
type Sheets struct {
	Client        ValuesWriter
	SpreadsheetID string
	Tab           string
}

func (s Sheets) Name() string {
	return "sheets"
}

func (s Sheets) Export(ctx context.Context, rs *scraper.ResultSet, meta Meta) error {
	if err := s.Client.ClearValues(ctx, s.SpreadsheetID, s.Tab); err != nil {
		return fmt.Errorf("export: sheets: %w", err)
	}

	values := SheetValues(rs, sentinelOf(meta))
	if err := s.Client.UpdateValues(ctx, s.SpreadsheetID, s.Tab+"!A1", values); err != nil {
		return fmt.Errorf("export: sheets: %w", err)
	}
	return nil
}

// SheetValues is the header followed by every row.
func SheetValues(rs *scraper.ResultSet, sentinel string) [][]interface{} {
	header := rs.Header()
	rows := rs.Rows(sentinel)

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toCells(header))
	for _, r := range rows {
		values = append(values, toCells(r))
	}
	return values
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}
