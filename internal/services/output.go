package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"stocksync-service/internal/models"
)

// Clone deep-copies a table so a run never mutates the parsed upload.
func Clone(t *models.ShopifyTable) *models.ShopifyTable {
	out := &models.ShopifyTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]map[string]string, len(t.Rows)),
	}
	for i, row := range t.Rows {
		copied := make(map[string]string, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows[i] = copied
	}
	return out
}

// Combine stacks the new-products table on top of the updated Shopify
// table, new products first so they are easy to spot when the file is
// opened. Columns added for the new products (cost) extend the schema.
func Combine(newProducts, updated *models.ShopifyTable) *models.ShopifyTable {
	out := Clone(updated)
	for _, c := range newProducts.Columns {
		out.EnsureColumn(c)
	}
	rows := make([]map[string]string, 0, len(newProducts.Rows)+len(out.Rows))
	for _, row := range newProducts.Rows {
		copied := make(map[string]string, len(row))
		for k, v := range row {
			copied[k] = v
		}
		rows = append(rows, copied)
	}
	out.Rows = append(rows, out.Rows...)
	return out
}

// FilterZeroStock removes products whose variants are all at quantity
// zero. A product keeps all its rows as soon as one variant has stock;
// grouping is by title, which is present on every row of the export.
func FilterZeroStock(t *models.ShopifyTable, titleColumn, qtyColumn string) *models.ShopifyTable {
	if !t.HasColumn(qtyColumn) || len(t.Rows) == 0 {
		return Clone(t)
	}

	hasStock := make(map[string]bool)
	for i := range t.Rows {
		title := strings.TrimSpace(t.Get(i, titleColumn))
		if title == "" {
			continue
		}
		if _, seen := hasStock[title]; !seen {
			hasStock[title] = false
		}
		if toInt(t.Get(i, qtyColumn)) > 0 {
			hasStock[title] = true
		}
	}

	out := &models.ShopifyTable{Columns: append([]string(nil), t.Columns...)}
	for i, row := range t.Rows {
		title := strings.TrimSpace(t.Get(i, titleColumn))
		// Rows without a title cannot be grouped, keep them.
		if keep, known := hasStock[title]; title != "" && known && !keep {
			continue
		}
		copied := make(map[string]string, len(row))
		for k, v := range row {
			copied[k] = v
		}
		out.Rows = append(out.Rows, copied)
	}
	return out
}

func toInt(val string) int {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(val), ",", "."), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// WriteCSV serializes a table back to CSV, column order preserved.
func WriteCSV(t *models.ShopifyTable) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i := range t.Rows {
		for j, c := range t.Columns {
			record[j] = t.Rows[i][c]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
