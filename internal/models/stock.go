package models

// PhysicalItem represents one row of the physical stock export.
// CleanName, NormName, BaseName, Season and ProductID are derived fields
// filled in by the carry-over annotation pass before matching.
type PhysicalItem struct {
	Article       string  `json:"article"`
	Barcode       string  `json:"barcode"`
	CatalogName   string  `json:"catalogName"`
	Size          string  `json:"size"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	SalePrice     float64 `json:"salePrice"`

	// Derived
	CleanName string `json:"-"` // catalog name with the trailing SKU stripped
	SKU       string `json:"-"`
	NormName  string `json:"-"` // normalized CleanName, for comparison
	BaseName  string `json:"-"` // NormName with any season suffix stripped
	Season    int    `json:"-"` // season suffix parsed from the name, 0 if none
	ProductID string `json:"-"` // product part of the barcode
}

// ShopifyTable holds a Shopify export with its column order intact.
// Unknown columns are carried through untouched so the output file keeps
// full fidelity with the uploaded export.
type ShopifyTable struct {
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

// Get returns the value of a column for a row, empty string if absent.
func (t *ShopifyTable) Get(row int, column string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][column]
}

// Set writes a cell value, registering the column if it is new.
func (t *ShopifyTable) Set(row int, column, value string) {
	if row < 0 || row >= len(t.Rows) {
		return
	}
	t.EnsureColumn(column)
	t.Rows[row][column] = value
}

// EnsureColumn appends a column to the table schema if missing.
func (t *ShopifyTable) EnsureColumn(column string) {
	for _, c := range t.Columns {
		if c == column {
			return
		}
	}
	t.Columns = append(t.Columns, column)
}

// HasColumn reports whether the table schema contains a column.
func (t *ShopifyTable) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Outcome classifies what happened to a row during a sync run.
// Every Shopify row with a usable match key falls in exactly one of
// Matched, ZeroedOut or CarryOverRenamed; every physical row falls in
// exactly one of Matched, CarryOverRenamed or NewProduct.
type Outcome string

const (
	OutcomeMatched          Outcome = "MATCHED"
	OutcomeZeroedOut        Outcome = "ZEROED_OUT"
	OutcomeCarryOverRenamed Outcome = "CARRY_OVER_RENAMED"
	OutcomeNewProduct       Outcome = "NEW_PRODUCT"
)

// ReconciliationEntry is one traceability record per processed key.
type ReconciliationEntry struct {
	Barcode string  `json:"barcode"`
	Title   string  `json:"title"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// QuantityChange records a matched row whose quantity was updated.
type QuantityChange struct {
	Barcode     string `json:"barcode"`
	Title       string `json:"title"`
	OldQuantity string `json:"oldQuantity"`
	NewQuantity string `json:"newQuantity"`
}

// ZeroedItem records a Shopify row zeroed because it has no physical counterpart.
type ZeroedItem struct {
	Barcode     string `json:"barcode"`
	Title       string `json:"title"`
	OldQuantity string `json:"oldQuantity"`
}

// CarryOverUpdate records a row renamed to a new season label.
type CarryOverUpdate struct {
	Barcode  string `json:"barcode"`
	OldTitle string `json:"oldTitle"`
	NewTitle string `json:"newTitle"`
	Season   string `json:"season"`
}

// NewProductItem is a physical row with no Shopify counterpart together
// with the fields extracted from its catalog name. When extraction was
// ambiguous NeedsReview is set and the raw name is kept for manual review.
type NewProductItem struct {
	Barcode       string  `json:"barcode"`
	Name          string  `json:"name"`
	Size          string  `json:"size"`
	Quantity      int     `json:"quantity"`
	PurchasePrice float64 `json:"purchasePrice"`
	SalePrice     float64 `json:"salePrice"`

	Vendor      string `json:"vendor"`
	Title       string `json:"title"`
	SKU         string `json:"sku"`
	Handle      string `json:"handle"`
	NeedsReview bool   `json:"needsReview"`
}

// Warning codes surfaced in the report without aborting the run.
const (
	WarnDuplicateKey        = "DUPLICATE_KEY"
	WarnExtractionAmbiguity = "EXTRACTION_AMBIGUITY"
)

// SyncWarning is a non-fatal per-row anomaly recorded in the report.
type SyncWarning struct {
	Code    string `json:"code"`
	Barcode string `json:"barcode"`
	Message string `json:"message"`
}

// SyncStats aggregates the outcome of one sync run.
type SyncStats struct {
	RunID            string                `json:"runId"`
	TotalPhysical    int                   `json:"totalPhysical"`
	TotalShopify     int                   `json:"totalShopify"`
	Matched          int                   `json:"matched"`
	QuantityChanges  []QuantityChange      `json:"qtyChanges"`
	SetToZero        []ZeroedItem          `json:"setToZero"`
	NotInShopify     []NewProductItem      `json:"notInShopify"`
	CarryOverUpdates []CarryOverUpdate     `json:"carryOverUpdates"`
	Warnings         []SyncWarning         `json:"warnings,omitempty"`
	Entries          []ReconciliationEntry `json:"-"`
}

// SyncResult bundles everything one run produces.
type SyncResult struct {
	Updated     *ShopifyTable
	NewProducts *ShopifyTable
	Combined    *ShopifyTable
	Filtered    *ShopifyTable
	Stats       SyncStats
}

// SyncResponse is the JSON payload returned by POST /sync. CSV artifacts
// are base64 encoded so the browser can turn them into downloads.
type SyncResponse struct {
	Success           bool      `json:"success"`
	ShopifyCSVB64     string    `json:"shopifyCsvB64"`
	NewProductsCSVB64 string    `json:"newProductsCsvB64,omitempty"`
	CombinedCSVB64    string    `json:"combinedCsvB64"`
	FilteredCSVB64    string    `json:"filteredCsvB64"`
	ReportCSVB64      string    `json:"reportCsvB64"`
	HasNewProducts    bool      `json:"hasNewProducts"`
	Report            string    `json:"report"`
	Stats             SyncStats `json:"stats"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
