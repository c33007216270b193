// Package store appends normalized row sets to a multi-sheet XLSX workbook.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docstruct/internal/normalize"
)

// maxColWidth keeps auto-sizing under excelize's 255-character hard limit.
const maxColWidth = 100.0

// Writer appends row sets to a workbook and applies header formatting.
// It performs no locking; single-writer access per invocation is the
// caller's responsibility.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// NextParentID reads the root sheet and returns one past the largest
// identifier in its first column. A missing workbook or sheet yields 1.
func (w *Writer) NextParentID(path, rootSheet string) (int, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 1, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open workbook: %w", err)
	}
	defer w.close(f, path)

	if idx, _ := f.GetSheetIndex(rootSheet); idx == -1 {
		return 1, nil
	}
	rows, err := f.GetRows(rootSheet)
	if err != nil {
		return 0, fmt.Errorf("read sheet %s: %w", rootSheet, err)
	}

	maxID := 0
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue // header
		}
		if id, err := strconv.Atoi(row[0]); err == nil && id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// Append writes each row set to its sheet, creating the sheet with a header
// row when absent and otherwise appending one row past the current last row.
// Prior rows are never touched. After all sheets are written the workbook is
// reformatted: bold frozen headers, frozen leading identifier column, and
// columns sized to content.
func (w *Writer) Append(path string, order []string, sets map[string]*normalize.RowSet) error {
	start := time.Now()

	var f *excelize.File
	if _, err := os.Stat(path); err == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return fmt.Errorf("open workbook: %w", err)
		}
	} else {
		f = excelize.NewFile()
	}
	defer w.close(f, path)

	appended := 0
	for _, sheet := range order {
		set := sets[sheet]
		if set == nil {
			continue
		}
		n, err := w.appendSheet(f, sheet, set)
		if err != nil {
			return err
		}
		appended += n
	}

	// NewFile seeds a default sheet we never use.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 && !contains(order, "Sheet1") {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("delete default sheet: %w", err)
		}
	}

	if err := w.format(f, order, sets); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("store.append.ok",
		"path", path,
		"sheets", len(order),
		"rows", appended,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (w *Writer) appendSheet(f *excelize.File, sheet string, set *normalize.RowSet) (int, error) {
	startRow := 0
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return 0, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
	} else {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return 0, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		startRow = len(rows)
	}

	if startRow == 0 {
		header := make([]any, len(set.Header))
		for i, h := range set.Header {
			header[i] = h
		}
		if err := w.writeRow(f, sheet, 1, header); err != nil {
			return 0, err
		}
		startRow = 1
	}

	for i, row := range set.Rows {
		if err := w.writeRow(f, sheet, startRow+1+i, row); err != nil {
			return 0, err
		}
	}
	return len(set.Rows), nil
}

func (w *Writer) writeRow(f *excelize.File, sheet string, rowIdx int, values []any) error {
	for ci, v := range values {
		cell, err := excelize.CoordinatesToCellName(ci+1, rowIdx)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func (w *Writer) format(f *excelize.File, order []string, sets map[string]*normalize.RowSet) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for _, sheet := range order {
		set := sets[sheet]
		if set == nil {
			continue
		}

		end, err := excelize.CoordinatesToCellName(len(set.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", end, bold); err != nil {
			return fmt.Errorf("style header %s: %w", sheet, err)
		}

		// Header row and the identifier column stay visible while scrolling.
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			XSplit:      1,
			YSplit:      1,
			TopLeftCell: "B2",
			ActivePane:  "bottomRight",
		}); err != nil {
			return fmt.Errorf("freeze panes %s: %w", sheet, err)
		}

		if err := w.autoWidth(f, sheet, len(set.Header)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) autoWidth(f *excelize.File, sheet string, cols int) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	for ci := 0; ci < cols; ci++ {
		maxLen := 0
		for _, row := range rows {
			if ci < len(row) && len(row[ci]) > maxLen {
				maxLen = len(row[ci])
			}
		}
		width := float64(maxLen) + 2
		if width > maxColWidth {
			width = maxColWidth
		}
		col, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set col width %s!%s: %w", sheet, col, err)
		}
	}
	return nil
}

func (w *Writer) close(f *excelize.File, path string) {
	if err := f.Close(); err != nil {
		w.logger.Warn("store.workbook.close_error", "path", path, "error", err)
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
