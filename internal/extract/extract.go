// Package extract derives structured Shopify fields from the free-form
// catalog names of the physical stock export. A catalog name packs several
// fields into one string:
//
//	"CARHARTT WIP COTTON TRUNKS WHITE + WHITE I029375.931.XX"
//	 └─ vendor ──┘ └─ product title ─────────┘ └─ variant SKU ┘
//
// Extraction is best effort and never fails, ambiguous names keep their
// raw value and are flagged for manual review.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"stocksync-service/internal/models"
)

// A manufacturer SKU at the end of a name: starts with a letter or digit,
// at least 4 chars of alphanumerics, dots and dashes.
// Ex: I029375.931.XX  DB0490-010  NF00CF9C4GZ  864349-007
var skuPattern = regexp.MustCompile(`\s+([A-Z0-9][A-Z0-9.\-]{3,})$`)

var sizeTokens = map[string]bool{
	"XS": true, "S": true, "M": true, "L": true, "XL": true,
	"XXL": true, "XXXL": true, "SIZE": true, "TAILLE": true,
}

// SplitSKU separates the trailing manufacturer SKU from the product name.
// A candidate only counts as a SKU when it contains a digit, is at least
// 4 chars long and is not a size indicator, so board widths like "8.125"
// stay part of the title.
func SplitSKU(catalogName string) (clean, sku string) {
	name := strings.TrimSpace(catalogName)
	m := skuPattern.FindStringSubmatchIndex(name)
	if m == nil {
		return name, ""
	}
	candidate := name[m[2]:m[3]]
	if len(candidate) >= 4 && containsDigit(candidate) && !sizeTokens[strings.ToUpper(candidate)] {
		return strings.TrimSpace(name[:m[0]]), candidate
	}
	return name, ""
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

var (
	quotePattern = regexp.MustCompile("[\"“”‘’']+")
	spacePattern = regexp.MustCompile(`\s+`)
)

// newAccentStripper returns a fresh transformer chain; transformers carry
// state and must not be shared between requests.
func newAccentStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeName folds a name for comparison: accents stripped, lowercased,
// quotes removed, whitespace collapsed.
func NormalizeName(name string) string {
	if stripped, _, err := transform.String(newAccentStripper(), name); err == nil {
		name = stripped
	}
	name = quotePattern.ReplaceAllString(strings.ToLower(name), "")
	return strings.TrimSpace(spacePattern.ReplaceAllString(name, " "))
}

// VendorIndex resolves the official casing of a vendor from the uppercased
// catalog name. Entries are matched longest-first so "NEW BALANCE NUMERIC"
// wins over "NEW BALANCE".
type VendorIndex struct {
	keys     []string // uppercased, sorted by length descending
	official map[string]string
}

// BuildVendorIndex merges the hardcoded brand list with the vendors already
// present in the uploaded Shopify export. Shopify wins on casing since the
// export reflects what the store actually publishes; placeholder values
// are excluded.
func BuildVendorIndex(table *models.ShopifyTable, vendorColumn string) *VendorIndex {
	official := make(map[string]string, len(knownBrands))
	for _, b := range knownBrands {
		official[strings.ToUpper(b)] = b
	}

	if table != nil {
		for i := range table.Rows {
			v := strings.TrimSpace(table.Get(i, vendorColumn))
			if v == "" || strings.HasPrefix(v, "À") || strings.EqualFold(v, "a corriger") {
				continue
			}
			official[strings.ToUpper(v)] = v
		}
	}

	keys := make([]string, 0, len(official))
	for k := range official {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return &VendorIndex{keys: keys, official: official}
}

// SplitVendor extracts the vendor and the remaining product title from a
// SKU-stripped catalog name. When no known vendor prefixes the name the
// first word is used as the vendor, reported via matched=false.
func (idx *VendorIndex) SplitVendor(cleanName string) (vendor, title string, matched bool) {
	t := strings.ToUpper(strings.TrimSpace(cleanName))
	caser := cases.Title(language.Und)

	for _, key := range idx.keys {
		if t == key || strings.HasPrefix(t, key+" ") {
			remaining := strings.TrimSpace(t[len(key):])
			return idx.official[key], caser.String(strings.ToLower(remaining)), true
		}
	}

	parts := strings.SplitN(t, " ", 2)
	if len(parts) == 2 {
		return caser.String(strings.ToLower(parts[0])), caser.String(strings.ToLower(parts[1])), false
	}
	return caser.String(strings.ToLower(t)), "", false
}

var handleInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Handle builds a Shopify handle (URL slug) from a product title.
// Ex: "Cotton Trunks White + White" → "cotton-trunks-white-white"
func Handle(title string) string {
	h := NormalizeName(title)
	h = handleInvalid.ReplaceAllString(h, "-")
	return strings.Trim(h, "-")
}

// Fields is the result of extracting Shopify fields from a catalog name.
type Fields struct {
	CleanName   string // catalog name without the trailing SKU
	SKU         string
	Vendor      string
	Title       string // vendor + product title, official casing
	Handle      string
	NeedsReview bool // heuristics were inconclusive, raw name kept for review
}

// Describe runs the full extraction pipeline on one catalog name. It
// never fails: when nothing can be recognized the raw name is carried
// through and the item is flagged for review.
func Describe(catalogName string, idx *VendorIndex) Fields {
	clean, sku := SplitSKU(catalogName)
	vendor, productTitle, matched := idx.SplitVendor(clean)

	fullTitle := strings.TrimSpace(vendor + " " + productTitle)
	needsReview := !matched || productTitle == ""
	if fullTitle == "" {
		fullTitle = strings.TrimSpace(catalogName)
		needsReview = true
	}

	return Fields{
		CleanName:   clean,
		SKU:         sku,
		Vendor:      vendor,
		Title:       fullTitle,
		Handle:      Handle(fullTitle),
		NeedsReview: needsReview,
	}
}
