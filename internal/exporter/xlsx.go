package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"solardash/internal/dataset"
)

// SheetName is the single sheet of an XLSX export
const SheetName = "data"

// XLSXWriter writes datasets as a workbook
type XLSXWriter struct {
	options WriteOptions
}

// NewXLSXWriter creates a new XLSX writer instance
func NewXLSXWriter(options WriteOptions) *XLSXWriter {
	return &XLSXWriter{options: options}
}

// Write encodes d as a workbook with a bold header row
func (x *XLSXWriter) Write(w io.Writer, d *dataset.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, 0, len(d.Columns())+1)
	if x.options.IncludeIndex {
		header = append(header, "")
	}
	for _, c := range d.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(max(len(header), 1), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	cols := columns(d)
	index := d.Index()
	rows, _ := d.Shape()
	for i := 0; i < rows; i++ {
		row := make([]interface{}, 0, len(header))
		if x.options.IncludeIndex {
			row = append(row, index[i])
		}
		for _, col := range cols {
			row = append(row, cellValue(col.Elem(i)))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
