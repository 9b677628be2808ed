package services

import (
	"strconv"

	"stocksync-service/internal/models"
)

// buildNewProducts turns unmatched physical items into a Shopify-shaped
// table ready for import. Variants of the same product (same handle and
// SKU, usually different sizes) are grouped: the first row carries the
// product-level fields, following rows repeat the title and carry only
// variant data, the structure Shopify expects. Products are created as
// drafts so they can be reviewed before publishing.
func (s *SyncService) buildNewProducts(items []models.NewProductItem, shopify *models.ShopifyTable) *models.ShopifyTable {
	cols := s.cfg.Shopify

	table := &models.ShopifyTable{Columns: append([]string(nil), shopify.Columns...)}
	if len(items) == 0 {
		return table
	}
	// The point-of-sale export knows the purchase price, keep it even when
	// the Shopify template lacks the column.
	table.EnsureColumn(cols.Cost)

	type groupKey struct{ Handle, SKU string }
	groups := make(map[groupKey][]models.NewProductItem)
	var order []groupKey
	for _, item := range items {
		key := groupKey{Handle: item.Handle, SKU: item.SKU}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], item)
	}

	for _, key := range order {
		variants := groups[key]
		ref := variants[0]

		for i, variant := range variants {
			row := make(map[string]string, len(table.Columns))
			for _, c := range table.Columns {
				row[c] = ""
			}

			setIfColumn(table, row, cols.Handle, ref.Handle)
			row[cols.Title] = ref.Title
			if i == 0 {
				setIfColumn(table, row, cols.Vendor, ref.Vendor)
				setIfColumn(table, row, cols.Status, "draft")
				setIfColumn(table, row, cols.Published, "FALSE")
				setIfColumn(table, row, cols.Option1Name, "Taille")
			}

			setIfColumn(table, row, cols.Option1Value, variant.Size)
			setIfColumn(table, row, cols.SKU, variant.SKU)
			setIfColumn(table, row, cols.Barcode, variant.Barcode)
			setIfColumn(table, row, cols.Quantity, strconv.Itoa(variant.Quantity))
			setIfColumn(table, row, cols.Cost, formatPrice(variant.PurchasePrice))
			setIfColumn(table, row, cols.Price, formatPrice(variant.SalePrice))
			setIfColumn(table, row, cols.InventoryTracker, "shopify")
			setIfColumn(table, row, cols.InventoryPolicy, "deny")
			setIfColumn(table, row, cols.FulfillmentService, "manual")

			table.Rows = append(table.Rows, row)
		}
	}

	return table
}

// setIfColumn writes a value only when the column exists in the template,
// keeping the output schema identical to the uploaded export.
func setIfColumn(table *models.ShopifyTable, row map[string]string, column, value string) {
	if table.HasColumn(column) {
		row[column] = value
	}
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
