package parser

import (
	"io"

	"stocksync-service/internal/config"
	"stocksync-service/internal/models"
)

// ParseShopify reads a Shopify export (CSV or XLSX) into a ShopifyTable.
// Unknown columns pass through untouched. The quantity column is renamed
// to its canonical name when the export uses an older alias, everything
// else keeps the exact header of the upload. Missing required columns
// abort the run with a ParseError.
func ParseShopify(file io.Reader, filename string, cols config.ShopifyColumns) (*models.ShopifyTable, error) {
	columns, rows, err := ReadTable(file, filename)
	if err != nil {
		return nil, models.NewParseError("shopify", "%v", err)
	}

	table := &models.ShopifyTable{Columns: columns, Rows: rows}
	normalizeQuantityColumn(table, cols)

	for _, required := range []string{cols.Barcode, cols.Quantity} {
		if !table.HasColumn(required) {
			return nil, models.NewParseError("shopify", "required column %q is missing", required)
		}
	}
	return table, nil
}

// normalizeQuantityColumn renames a known quantity alias, e.g. "Variant
// Inventory Qty" from older exports, to the configured canonical name.
func normalizeQuantityColumn(table *models.ShopifyTable, cols config.ShopifyColumns) {
	if table.HasColumn(cols.Quantity) {
		return
	}
	for _, alias := range cols.QuantityAliases {
		if !table.HasColumn(alias) {
			continue
		}
		for i, c := range table.Columns {
			if c == alias {
				table.Columns[i] = cols.Quantity
			}
		}
		for _, row := range table.Rows {
			if v, ok := row[alias]; ok {
				row[cols.Quantity] = v
				delete(row, alias)
			}
		}
		return
	}
}
