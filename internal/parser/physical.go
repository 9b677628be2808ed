package parser

import (
	"regexp"
	"strconv"
	"strings"

	"stocksync-service/internal/config"
	"stocksync-service/internal/models"
)

// Variants of "one size" the point-of-sale system emits, normalized to a
// single value so they line up with the Shopify option value.
var oneSizeVariants = map[string]bool{
	"one size": true, "one-size": true, "onesize": true, "os": true,
	"o/s": true, "taille unique": true, "unique": true, "u": true,
	"tu": true, "ns": true, "no size": true,
}

// NormalizeSize folds the known "one size" spellings into "Taille unique".
func NormalizeSize(size string) string {
	if oneSizeVariants[strings.ToLower(strings.TrimSpace(size))] {
		return "Taille unique"
	}
	return size
}

// Store marker lines look like "STREET ART;00123_4;65368-2;...".
var storeMarkerPattern = regexp.MustCompile(`([A-Z][A-Z\s]+[A-Z]);[\d_]+;[\d]+-[\d]+`)

func detectStoreMarker(content, override string) string {
	if override != "" {
		return override
	}
	if m := storeMarkerPattern.FindStringSubmatch(content); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.Contains(content, "STREET ART;") {
		return "STREET ART"
	}
	return ""
}

// ParsePhysical parses the physical stock export. Every record starts with
// the store marker followed by semicolon separated fields at the positions
// given by the layout. Summary rows (TOTAL) and truncated records are
// skipped, quantities and prices use comma decimals.
func ParsePhysical(raw []byte, layout config.PhysicalLayout) ([]models.PhysicalItem, error) {
	content := DecodeText(raw)

	marker := detectStoreMarker(content, layout.StoreMarker)
	if marker == "" {
		return nil, models.NewParseError("physical",
			"could not detect the store marker, expected lines like 'STREET ART;...'")
	}

	var items []models.PhysicalItem
	for _, part := range strings.Split(content, marker+";")[1:] {
		fields := strings.Split(part, ";")
		if len(fields) < layout.MinFields {
			continue
		}

		article := strings.TrimSpace(fields[layout.ArticleIndex])
		barcode := strings.TrimSpace(fields[layout.BarcodeIndex])
		name := cleanField(fields[layout.NameIndex])
		size := NormalizeSize(cleanField(fields[layout.SizeIndex]))

		if barcode == "" || strings.EqualFold(barcode, "TOTAL") || article == "" || name == "" {
			continue
		}

		items = append(items, models.PhysicalItem{
			Article:       article,
			Barcode:       barcode,
			CatalogName:   name,
			Size:          size,
			Quantity:      parseQuantity(fields[layout.QuantityIndex]),
			PurchasePrice: parsePrice(fieldAt(fields, layout.PurchasePriceIndex)),
			SalePrice:     parsePrice(fieldAt(fields, layout.SalePriceIndex)),
		})
	}

	if len(items) == 0 {
		return nil, models.NewParseError("physical", "no stock records found")
	}
	return items, nil
}

func fieldAt(fields []string, index int) string {
	if index < 0 || index >= len(fields) {
		return ""
	}
	return fields[index]
}

func cleanField(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

// parseQuantity reads an integer that may carry a comma decimal ("3,00").
// Unparseable values count as zero, the row itself is still processed.
func parseQuantity(s string) int {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parsePrice(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}
