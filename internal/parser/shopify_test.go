package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksync-service/internal/config"
	"stocksync-service/internal/models"
)

func TestParseShopifyCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Handle,Title,Vendor,Variant Barcode,Variant Quantity,Image Src",
		"tee-logo,Tee Logo,Nike SB,65368-2,5,https://cdn.example.com/tee.jpg",
		"tee-logo,,,65368-3,2,",
	}, "\n")

	cols := defaultShopifyColumns()
	table, err := ParseShopify(strings.NewReader(csvData), "export.csv", cols)
	require.NoError(t, err)

	assert.Equal(t, []string{"Handle", "Title", "Vendor", "Variant Barcode", "Variant Quantity", "Image Src"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "5", table.Get(0, "Variant Quantity"))
	// Unknown columns survive untouched.
	assert.Equal(t, "https://cdn.example.com/tee.jpg", table.Get(0, "Image Src"))
	// Continuation row with blank title keeps its own barcode.
	assert.Equal(t, "65368-3", table.Get(1, "Variant Barcode"))
}

func TestParseShopifyQuantityAlias(t *testing.T) {
	csvData := strings.Join([]string{
		"Title,Variant Barcode,Variant Inventory Qty",
		"Tee Logo,65368-2,7",
	}, "\n")

	table, err := ParseShopify(strings.NewReader(csvData), "export.csv", defaultShopifyColumns())
	require.NoError(t, err)

	assert.True(t, table.HasColumn("Variant Quantity"))
	assert.False(t, table.HasColumn("Variant Inventory Qty"))
	assert.Equal(t, "7", table.Get(0, "Variant Quantity"))
}

func TestParseShopifyMissingBarcode(t *testing.T) {
	csvData := "Title,Variant Quantity\nTee Logo,7"

	_, err := ParseShopify(strings.NewReader(csvData), "export.csv", defaultShopifyColumns())
	var parseErr *models.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "shopify", parseErr.File)
	assert.Contains(t, parseErr.Message, "Variant Barcode")
}

func TestReadTableRaggedRows(t *testing.T) {
	// Shopify exports edited by hand often carry short rows.
	csvData := "A,B,C\n1,2\n4,5,6,7"

	columns, rows, err := ReadTable(strings.NewReader(csvData), "export.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[0]["B"])
	assert.Equal(t, "", rows[0]["C"])
	assert.Equal(t, "6", rows[1]["C"])
}

func defaultShopifyColumns() config.ShopifyColumns {
	return config.Load().Shopify
}
