package services

import (
	"regexp"
	"sort"
	"strings"

	"stocksync-service/internal/extract"
	"stocksync-service/internal/models"
)

// A season suffix at the end of a name or title: "VESTE NOIRE S2" or
// "Veste Noire - S2".
var seasonSuffixPattern = regexp.MustCompile(`(?i)(?:\s*-)?\s+S(\d+)$`)

// SplitSeason returns the name without its season suffix and the season
// number, 0 when the name carries none.
func SplitSeason(name string) (string, int) {
	m := seasonSuffixPattern.FindStringSubmatchIndex(name)
	if m == nil {
		return name, 0
	}
	n := 0
	for _, c := range name[m[2]:m[3]] {
		n = n*10 + int(c-'0')
	}
	return strings.TrimSpace(name[:m[0]]), n
}

// ProductID extracts the product part of a barcode ({product_id}-{variant}).
func ProductID(barcode string) string {
	if i := strings.Index(barcode, "-"); i >= 0 {
		return barcode[:i]
	}
	return barcode
}

// carryKey identifies one seasonal incarnation of a product: the
// normalized base name plus the product ID of its barcode.
type carryKey struct {
	Base      string
	ProductID string
}

// seasonRegistry tracks season numbers in use per base product so suffixes
// assigned within a run are strictly increasing and never reused.
type seasonRegistry struct {
	highest map[string]int
}

func newSeasonRegistry() *seasonRegistry {
	return &seasonRegistry{highest: make(map[string]int)}
}

func (r *seasonRegistry) observe(base string, season int) {
	if season > r.highest[base] {
		r.highest[base] = season
	}
}

// next allocates the next free season number for a base product.
func (r *seasonRegistry) next(base string) int {
	n := r.highest[base] + 1
	r.highest[base] = n
	return n
}

// AnnotatePhysical fills the derived matching fields of each physical item:
// SKU-stripped clean name, normalized name, season-stripped base name and
// the product ID of the barcode.
func AnnotatePhysical(items []models.PhysicalItem) {
	for i := range items {
		it := &items[i]
		it.CleanName, it.SKU = extract.SplitSKU(it.CatalogName)
		it.NormName = extract.NormalizeName(it.CleanName)
		it.BaseName, it.Season = SplitSeason(it.NormName)
		it.ProductID = ProductID(it.Barcode)
	}
}

// DetectCarryOver finds carry-over products inside the physical stock:
// the same base name appearing under more than one product ID means the
// catalog reused a product identity across seasons, typically with a new
// manufacturer SKU and barcode:
//
//	season 1: "VESTE NOIRE I029375.931.XX" (barcode 65368-2)
//	season 2: "VESTE NOIRE I029375.932.XX" (barcode 75368-2)
//
// Each product ID gets a season label, assigned in sorted product-ID order
// so the result is stable across runs. The assignments are recorded in the
// registry so later allocations for the same base product do not reuse them.
func DetectCarryOver(items []models.PhysicalItem, reg *seasonRegistry) map[carryKey]int {
	pidsByBase := make(map[string][]string)
	for _, it := range items {
		if it.BaseName == "" {
			continue
		}
		pidsByBase[it.BaseName] = appendUnique(pidsByBase[it.BaseName], it.ProductID)
	}

	seasons := make(map[carryKey]int)
	for base, pids := range pidsByBase {
		if len(pids) < 2 {
			continue
		}
		sort.Strings(pids)
		for i, pid := range pids {
			seasons[carryKey{Base: base, ProductID: pid}] = i + 1
			reg.observe(base, i+1)
		}
	}
	return seasons
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
