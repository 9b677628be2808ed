package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"stocksync-service/internal/models"
)

const reportWidth = 68

// BuildReport renders the human-readable synchronization report.
func BuildReport(stats models.SyncStats) string {
	heavy := strings.Repeat("=", reportWidth)
	light := strings.Repeat("-", reportWidth)

	lines := []string{
		heavy,
		"  SYNCHRONIZATION REPORT",
		heavy,
		"",
		fmt.Sprintf("  Physical stock analyzed : %d items", stats.TotalPhysical),
		fmt.Sprintf("  Shopify stock analyzed  : %d rows", stats.TotalShopify),
		"",
		fmt.Sprintf("  Barcodes matched        : %d", stats.Matched),
		fmt.Sprintf("  Quantities updated      : %d", len(stats.QuantityChanges)),
		fmt.Sprintf("  Set to 0 (not in store) : %d", len(stats.SetToZero)),
		fmt.Sprintf("  New products            : %d", len(stats.NotInShopify)),
		fmt.Sprintf("  Carry over renamed      : %d", len(stats.CarryOverUpdates)),
		"",
	}

	if len(stats.QuantityChanges) > 0 {
		lines = append(lines, light, "QUANTITY CHANGES", light)
		for _, c := range stats.QuantityChanges {
			lines = append(lines,
				fmt.Sprintf("  [%s]  %s", c.Barcode, truncate(c.Title, 55)),
				fmt.Sprintf("      %s -> %s", c.OldQuantity, c.NewQuantity))
		}
		lines = append(lines, "")
	}

	if len(stats.SetToZero) > 0 {
		lines = append(lines, light, "SET TO ZERO (absent from physical stock)", light)
		for _, z := range stats.SetToZero {
			lines = append(lines, fmt.Sprintf("  [%s]  %s  (was: %s)", z.Barcode, truncate(z.Title, 55), z.OldQuantity))
		}
		lines = append(lines, "")
	}

	if len(stats.NotInShopify) > 0 {
		lines = append(lines, light, "NEW PRODUCTS (physical stock, to import into Shopify)", light,
			"  Vendor, Title and SKU extracted automatically", "")
		for _, item := range stats.NotInShopify {
			entry := fmt.Sprintf("  [%s]  %s", item.Barcode, truncate(item.Title, 45))
			if item.SKU != "" {
				entry += "  SKU:" + item.SKU
			}
			entry += fmt.Sprintf("  size:%s  qty:%d", item.Size, item.Quantity)
			if item.NeedsReview {
				entry += "  (needs review)"
			}
			lines = append(lines, entry)
		}
		lines = append(lines, "")
	}

	if len(stats.CarryOverUpdates) > 0 {
		lines = append(lines, light, "CARRY OVER RENAMED", light)
		for _, c := range stats.CarryOverUpdates {
			lines = append(lines,
				fmt.Sprintf("  [%s]", c.Barcode),
				fmt.Sprintf("      Before: %s", c.OldTitle),
				fmt.Sprintf("      After : %s", c.NewTitle),
				"")
		}
	} else {
		lines = append(lines, light, "CARRY OVER", light,
			"  No carry over detected in this file.", "")
	}

	if len(stats.Warnings) > 0 {
		lines = append(lines, light, "WARNINGS", light)
		for _, w := range stats.Warnings {
			lines = append(lines, fmt.Sprintf("  [%s] %s: %s", w.Barcode, w.Code, w.Message))
		}
		lines = append(lines, "")
	}

	lines = append(lines, heavy, "  END OF REPORT", heavy)
	return strings.Join(lines, "\n")
}

// truncate cuts on rune boundaries so accented titles stay valid UTF-8.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

var reportColumns = []string{"Barcode", "Title", "Outcome", "Detail"}

// BuildReportCSV writes the reconciliation trace, one row per processed
// key, as CSV.
func BuildReportCSV(stats models.SyncStats) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportColumns); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	for _, e := range stats.Entries {
		if err := w.Write([]string{e.Barcode, e.Title, string(e.Outcome), e.Detail}); err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush report: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildReportXLSX renders the reconciliation trace as a styled workbook:
// a summary sheet with the run counters and a detail sheet with one row
// per processed key.
func BuildReportXLSX(stats models.SyncStats) (*excelize.File, error) {
	f := excelize.NewFile()

	const summary = "Summary"
	const detail = "Reconciliation"
	f.SetSheetName("Sheet1", summary)
	if _, err := f.NewSheet(detail); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create detail sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	counters := [][]interface{}{
		{"Run ID", stats.RunID},
		{"Physical items", stats.TotalPhysical},
		{"Shopify rows", stats.TotalShopify},
		{"Matched", stats.Matched},
		{"Quantities updated", len(stats.QuantityChanges)},
		{"Set to zero", len(stats.SetToZero)},
		{"New products", len(stats.NotInShopify)},
		{"Carry over renamed", len(stats.CarryOverUpdates)},
		{"Warnings", len(stats.Warnings)},
	}
	for i, pair := range counters {
		nameCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		f.SetCellValue(summary, nameCell, pair[0])
		f.SetCellValue(summary, valueCell, pair[1])
		f.SetCellStyle(summary, nameCell, nameCell, headerStyle)
	}
	f.SetColWidth(summary, "A", "A", 22)
	f.SetColWidth(summary, "B", "B", 40)

	for i, col := range reportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(detail, cell, col)
		f.SetCellStyle(detail, cell, cell, headerStyle)
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(detail, colName, colName, 28)
	}
	for rowIdx, e := range stats.Entries {
		values := []string{e.Barcode, e.Title, string(e.Outcome), e.Detail}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(detail, cell, v)
		}
	}

	idx, _ := f.GetSheetIndex(summary)
	f.SetActiveSheet(idx)
	return f, nil
}
