// Package bulkio implements bulk import/export between a table and an
// .xlsx workbook via excelize, the spreadsheet library the corpus's
// import/export tooling is built on. Every column's typed Value is
// rendered/parsed according to its Kind, so a round trip through a
// workbook an end user edited in a spreadsheet application preserves
// type fidelity rather than flattening everything to text.
package bulkio

import (
	"strconv"

	"github.com/moyashi/reldb/pkg/catalog"
	"github.com/moyashi/reldb/pkg/dberr"
	"github.com/moyashi/reldb/pkg/value"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// Export writes table's full contents (header row of column names,
// then one row per tuple) to an .xlsx workbook at path.
func Export(table *catalog.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, c := range table.Columns {
		axis, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return &dberr.Internal{Op: "bulkio export", Err: err}
		}
		if err := f.SetCellValue(sheetName, axis, c.Name); err != nil {
			return &dberr.Internal{Op: "bulkio export", Err: err}
		}
	}

	for r, row := range table.ScanAll() {
		for c, v := range row.Values {
			axis, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return &dberr.Internal{Op: "bulkio export", Err: err}
			}
			if err := f.SetCellValue(sheetName, axis, renderCell(v)); err != nil {
				return &dberr.Internal{Op: "bulkio export", Err: err}
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &dberr.Internal{Op: "bulkio export", Err: err}
	}
	return nil
}

func renderCell(v value.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case value.Int:
		return v.Int()
	case value.Float:
		return v.Float()
	case value.Varchar, value.Text:
		return v.Str()
	case value.Boolean:
		return v.Bool()
	default:
		return nil
	}
}

// Import reads an .xlsx workbook at path (the sheet named Sheet1, header
// row of column names matching table's columns) and inserts every data
// row with Table.InsertRow, maintaining indexes and reporting each row
// to logger. Foreign-key constraints are not checked.
func Import(table *catalog.Table, path string, logger catalog.Logger) (int64, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, &dberr.Internal{Op: "bulkio import", Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return 0, &dberr.Internal{Op: "bulkio import", Err: err}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	header := rows[0]
	positions := make([]int, len(table.Columns))
	for i, c := range table.Columns {
		positions[i] = -1
		for h, name := range header {
			if name == c.Name {
				positions[i] = h
				break
			}
		}
		if positions[i] < 0 {
			return 0, &dberr.NotFound{Kind: "column", Name: c.Name}
		}
	}

	var count int64
	for _, raw := range rows[1:] {
		values := make([]value.Value, len(table.Columns))
		for i, c := range table.Columns {
			pos := positions[i]
			cell := ""
			if pos < len(raw) {
				cell = raw[pos]
			}
			v, err := parseCell(cell, c.Kind)
			if err != nil {
				return count, err
			}
			values[i] = v
		}
		if _, err := table.InsertRow(values, logger); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func parseCell(cell string, kind value.Kind) (value.Value, error) {
	if cell == "" {
		return value.NewNull(kind), nil
	}
	switch kind {
	case value.Int:
		n, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return value.Value{}, &dberr.Internal{Op: "bulkio parse int", Err: err}
		}
		return value.NewInt(n), nil
	case value.Float:
		n, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return value.Value{}, &dberr.Internal{Op: "bulkio parse float", Err: err}
		}
		return value.NewFloat(n), nil
	case value.Boolean:
		b, err := strconv.ParseBool(cell)
		if err != nil {
			return value.Value{}, &dberr.Internal{Op: "bulkio parse bool", Err: err}
		}
		return value.NewBool(b), nil
	case value.Varchar:
		return value.NewVarchar(cell), nil
	case value.Text:
		return value.NewText(cell), nil
	default:
		return value.Value{}, &dberr.Unsupported{Operation: "bulkio parse", Reason: "unknown column kind"}
	}
}
