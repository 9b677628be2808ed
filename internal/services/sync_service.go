package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"stocksync-service/internal/config"
	"stocksync-service/internal/extract"
	"stocksync-service/internal/models"
)

// SyncService reconciles a physical stock export against a Shopify export.
// It is a pure in-memory pass: all state is request scoped, nothing is
// shared between runs.
type SyncService struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(cfg *config.Config, logger *logrus.Logger) *SyncService {
	return &SyncService{cfg: cfg, logger: logger}
}

// MatchKey normalizes a barcode for joining: whitespace trimmed, case
// folded. The original casing stays untouched in the output.
func MatchKey(barcode string) string {
	return strings.ToUpper(strings.TrimSpace(barcode))
}

// Run executes one full reconciliation:
//
//   - Shopify rows whose barcode matches a physical item get the physical
//     quantity (overwrite, not additive).
//   - Physical items with no direct match can claim an unmatched Shopify
//     row with the same base name: the row is renamed to the next free
//     season suffix and adopts the item's barcode.
//   - Shopify rows left without a physical counterpart are zeroed out.
//   - Physical items left without a row become new products, with vendor,
//     title and SKU extracted from the catalog name.
//
// Every keyed Shopify row lands in exactly one of matched / zeroed /
// carry-over renamed, every physical item in exactly one of matched /
// carry-over renamed / new product.
func (s *SyncService) Run(physical []models.PhysicalItem, shopify *models.ShopifyTable) *models.SyncResult {
	cols := s.cfg.Shopify
	stats := models.SyncStats{
		RunID:            uuid.New().String(),
		TotalPhysical:    len(physical),
		TotalShopify:     len(shopify.Rows),
		QuantityChanges:  []models.QuantityChange{},
		SetToZero:        []models.ZeroedItem{},
		NotInShopify:     []models.NewProductItem{},
		CarryOverUpdates: []models.CarryOverUpdate{},
	}

	AnnotatePhysical(physical)

	// Seed the season registry with every suffix already in play, on both
	// sides, so suffixes allocated during this run are never reused.
	reg := newSeasonRegistry()
	for _, it := range physical {
		if it.Season > 0 {
			reg.observe(it.BaseName, it.Season)
		}
	}
	for i := range shopify.Rows {
		title := strings.TrimSpace(shopify.Get(i, cols.Title))
		if title == "" {
			continue
		}
		if base, season := SplitSeason(extract.NormalizeName(title)); season > 0 {
			reg.observe(base, season)
		}
	}

	carrySeasons := DetectCarryOver(physical, reg)

	// Index physical items by match key. Duplicate keys are reported and
	// resolved last-write-wins.
	physIndex := make(map[string]int, len(physical))
	for i, it := range physical {
		key := MatchKey(it.Barcode)
		if key == "" {
			continue
		}
		if _, dup := physIndex[key]; dup {
			stats.Warnings = append(stats.Warnings, models.SyncWarning{
				Code:    models.WarnDuplicateKey,
				Barcode: it.Barcode,
				Message: "duplicate barcode in physical stock, keeping the last occurrence",
			})
		}
		physIndex[key] = i
	}

	updated := Clone(shopify)
	matchedPhysical := make([]bool, len(physical))
	matchedKeys := make(map[string]bool, len(physical))
	seenKeys := make(map[string]bool, len(updated.Rows))
	var unmatchedRows []int

	// Pass 1: direct barcode matches.
	for i := range updated.Rows {
		barcode := strings.TrimSpace(updated.Get(i, cols.Barcode))
		key := MatchKey(barcode)
		if key == "" {
			// Rows without a barcode (variant continuation rows, images)
			// pass through untouched.
			continue
		}
		if seenKeys[key] {
			stats.Warnings = append(stats.Warnings, models.SyncWarning{
				Code:    models.WarnDuplicateKey,
				Barcode: barcode,
				Message: "duplicate barcode in Shopify export, every occurrence is updated",
			})
		}
		seenKeys[key] = true

		pi, ok := physIndex[key]
		if !ok {
			unmatchedRows = append(unmatchedRows, i)
			continue
		}

		phys := &physical[pi]
		matchedPhysical[pi] = true
		matchedKeys[key] = true
		outcome := models.OutcomeMatched

		oldQty := strings.TrimSpace(updated.Get(i, cols.Quantity))
		newQty := strconv.Itoa(phys.Quantity)
		if oldQty != newQty {
			stats.QuantityChanges = append(stats.QuantityChanges, models.QuantityChange{
				Barcode:     barcode,
				Title:       s.titleFor(updated, i),
				OldQuantity: oldQty,
				NewQuantity: newQty,
			})
		}
		updated.Set(i, cols.Quantity, newQty)

		if season, isCarry := carrySeasons[carryKey{Base: phys.BaseName, ProductID: phys.ProductID}]; isCarry {
			if upd, renamed := s.applySeasonSuffix(updated, i, barcode, season); renamed {
				stats.CarryOverUpdates = append(stats.CarryOverUpdates, upd)
				outcome = models.OutcomeCarryOverRenamed
			}
		}

		if outcome == models.OutcomeMatched {
			stats.Matched++
		}
		stats.Entries = append(stats.Entries, models.ReconciliationEntry{
			Barcode: barcode,
			Title:   s.titleFor(updated, i),
			Outcome: outcome,
			Detail:  fmt.Sprintf("qty %s -> %s", oldQty, newQty),
		})
	}

	// Duplicate physical barcodes shadowed by last-write-wins were still
	// matched through their key; they must not resurface as new products.
	for pi := range physical {
		if !matchedPhysical[pi] && matchedKeys[MatchKey(physical[pi].Barcode)] {
			matchedPhysical[pi] = true
		}
	}

	// Pass 2: carry-over claims. An unmatched physical item claims the
	// earliest unmatched Shopify row sharing its base name; the row is
	// renumbered to the next free season suffix and, since it now is the
	// new season's item, adopts the physical barcode.
	rowsByBase := make(map[string][]int)
	for _, i := range unmatchedRows {
		title := strings.TrimSpace(updated.Get(i, cols.Title))
		if title == "" {
			continue
		}
		base, _ := SplitSeason(extract.NormalizeName(title))
		rowsByBase[base] = append(rowsByBase[base], i)
	}

	claimed := make(map[int]bool)
	for pi := range physical {
		if matchedPhysical[pi] {
			continue
		}
		phys := &physical[pi]
		row := -1
		for _, i := range rowsByBase[phys.BaseName] {
			if !claimed[i] {
				row = i
				break
			}
		}
		if row < 0 {
			continue
		}
		claimed[row] = true
		matchedPhysical[pi] = true

		oldBarcode := strings.TrimSpace(updated.Get(row, cols.Barcode))
		oldTitle := strings.TrimSpace(updated.Get(row, cols.Title))
		label := fmt.Sprintf("S%d", reg.next(phys.BaseName))
		// Renumber, don't stack: a row already titled "... - S1" becomes
		// "... - S2", not "... - S1 - S2".
		baseTitle, _ := SplitSeason(oldTitle)
		newTitle := baseTitle + " - " + label

		oldQty := strings.TrimSpace(updated.Get(row, cols.Quantity))
		newQty := strconv.Itoa(phys.Quantity)
		if oldQty != newQty {
			stats.QuantityChanges = append(stats.QuantityChanges, models.QuantityChange{
				Barcode:     phys.Barcode,
				Title:       newTitle,
				OldQuantity: oldQty,
				NewQuantity: newQty,
			})
		}

		updated.Set(row, cols.Title, newTitle)
		updated.Set(row, cols.Quantity, newQty)
		updated.Set(row, cols.Barcode, phys.Barcode)

		stats.CarryOverUpdates = append(stats.CarryOverUpdates, models.CarryOverUpdate{
			Barcode:  phys.Barcode,
			OldTitle: oldTitle,
			NewTitle: newTitle,
			Season:   label,
		})
		stats.Entries = append(stats.Entries, models.ReconciliationEntry{
			Barcode: phys.Barcode,
			Title:   newTitle,
			Outcome: models.OutcomeCarryOverRenamed,
			Detail:  fmt.Sprintf("claimed row with barcode %s", oldBarcode),
		})
	}

	// Pass 3: remaining Shopify rows have no physical counterpart.
	for _, i := range unmatchedRows {
		if claimed[i] {
			continue
		}
		barcode := strings.TrimSpace(updated.Get(i, cols.Barcode))
		oldQty := strings.TrimSpace(updated.Get(i, cols.Quantity))
		if oldQty != "0" && oldQty != "" {
			updated.Set(i, cols.Quantity, "0")
			stats.SetToZero = append(stats.SetToZero, models.ZeroedItem{
				Barcode:     barcode,
				Title:       s.titleFor(updated, i),
				OldQuantity: oldQty,
			})
		}
		stats.Entries = append(stats.Entries, models.ReconciliationEntry{
			Barcode: barcode,
			Title:   s.titleFor(updated, i),
			Outcome: models.OutcomeZeroedOut,
			Detail:  fmt.Sprintf("was %s", oldQty),
		})
	}

	// Remaining physical items are new products.
	vendorIdx := extract.BuildVendorIndex(shopify, cols.Vendor)
	for pi := range physical {
		if matchedPhysical[pi] {
			continue
		}
		phys := &physical[pi]
		fields := extract.Describe(phys.CatalogName, vendorIdx)

		if fields.NeedsReview {
			stats.Warnings = append(stats.Warnings, models.SyncWarning{
				Code:    models.WarnExtractionAmbiguity,
				Barcode: phys.Barcode,
				Message: fmt.Sprintf("could not fully parse %q, needs review", phys.CatalogName),
			})
		}

		stats.NotInShopify = append(stats.NotInShopify, models.NewProductItem{
			Barcode:       phys.Barcode,
			Name:          phys.CatalogName,
			Size:          phys.Size,
			Quantity:      phys.Quantity,
			PurchasePrice: phys.PurchasePrice,
			SalePrice:     phys.SalePrice,
			Vendor:        fields.Vendor,
			Title:         fields.Title,
			SKU:           fields.SKU,
			Handle:        fields.Handle,
			NeedsReview:   fields.NeedsReview,
		})
		stats.Entries = append(stats.Entries, models.ReconciliationEntry{
			Barcode: phys.Barcode,
			Title:   fields.Title,
			Outcome: models.OutcomeNewProduct,
			Detail:  fmt.Sprintf("qty %d", phys.Quantity),
		})
	}

	newProducts := s.buildNewProducts(stats.NotInShopify, shopify)
	combined := Combine(newProducts, updated)
	filtered := FilterZeroStock(combined, cols.Title, cols.Quantity)

	s.logger.WithFields(logrus.Fields{
		"run_id":       stats.RunID,
		"physical":     stats.TotalPhysical,
		"shopify":      stats.TotalShopify,
		"matched":      stats.Matched,
		"zeroed":       len(stats.SetToZero),
		"carry_over":   len(stats.CarryOverUpdates),
		"new_products": len(stats.NotInShopify),
	}).Info("sync run completed")

	return &models.SyncResult{
		Updated:     updated,
		NewProducts: newProducts,
		Combined:    combined,
		Filtered:    filtered,
		Stats:       stats,
	}
}

// applySeasonSuffix appends " - S{n}" to the row title. Nothing happens
// when the title is empty (variant continuation rows) or already carries
// the suffix, which keeps a second run over the output from stacking
// suffixes.
func (s *SyncService) applySeasonSuffix(table *models.ShopifyTable, row int, barcode string, season int) (models.CarryOverUpdate, bool) {
	cols := s.cfg.Shopify
	label := fmt.Sprintf("S%d", season)

	cur := strings.TrimSpace(table.Get(row, cols.Title))
	if cur == "" || strings.Contains(cur, "- "+label) {
		return models.CarryOverUpdate{}, false
	}
	if _, existing := SplitSeason(cur); existing == season {
		return models.CarryOverUpdate{}, false
	}

	newTitle := cur + " - " + label
	table.Set(row, cols.Title, newTitle)
	return models.CarryOverUpdate{
		Barcode:  barcode,
		OldTitle: cur,
		NewTitle: newTitle,
		Season:   label,
	}, true
}

// titleFor returns the title of a row, falling back to nearby rows above
// since Shopify exports only carry the title on the first variant row.
func (s *SyncService) titleFor(table *models.ShopifyTable, row int) string {
	cols := s.cfg.Shopify
	if t := strings.TrimSpace(table.Get(row, cols.Title)); t != "" {
		return t
	}
	for i := row - 1; i >= 0 && i >= row-20; i-- {
		if t := strings.TrimSpace(table.Get(i, cols.Title)); t != "" {
			return t
		}
	}
	return fmt.Sprintf("(barcode: %s)", table.Get(row, cols.Barcode))
}
