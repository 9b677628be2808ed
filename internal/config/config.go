package config

import (
	"os"
	"strconv"
	"strings"
)

// ShopifyColumns maps the logical Shopify fields to the column names used
// by a deployment's export. Defaults follow the current Shopify CSV schema.
type ShopifyColumns struct {
	Handle             string
	Title              string
	Vendor             string
	Barcode            string
	Quantity           string
	QuantityAliases    []string // older export versions name the quantity column differently
	SKU                string
	Price              string
	Cost               string
	Status             string
	Published          string
	InventoryTracker   string
	InventoryPolicy    string
	FulfillmentService string
	Option1Name        string
	Option1Value       string
}

// PhysicalLayout describes the field positions of the legacy point-of-sale
// export. Records are semicolon separated and start with a store marker,
// the indexes below are relative to the field after that marker.
type PhysicalLayout struct {
	ArticleIndex       int
	BarcodeIndex       int
	NameIndex          int
	SizeIndex          int
	QuantityIndex      int
	PurchasePriceIndex int
	SalePriceIndex     int
	MinFields          int
	StoreMarker        string // optional override, auto-detected when empty
}

// Config holds all configuration for the stock sync service
type Config struct {
	// Server
	Port        string
	Environment string

	// CORS
	CORSAllowedOrigins []string

	// Upload limits
	MaxUploadMB int64

	// Column mapping
	Shopify  ShopifyColumns
	Physical PhysicalLayout
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}),

		MaxUploadMB: int64(getEnvAsInt("MAX_UPLOAD_MB", 32)),

		Shopify: ShopifyColumns{
			Handle:             getEnv("SHOPIFY_HANDLE_COLUMN", "Handle"),
			Title:              getEnv("SHOPIFY_TITLE_COLUMN", "Title"),
			Vendor:             getEnv("SHOPIFY_VENDOR_COLUMN", "Vendor"),
			Barcode:            getEnv("SHOPIFY_BARCODE_COLUMN", "Variant Barcode"),
			Quantity:           getEnv("SHOPIFY_QUANTITY_COLUMN", "Variant Quantity"),
			QuantityAliases:    getEnvAsSlice("SHOPIFY_QUANTITY_ALIASES", []string{"Variant Inventory Qty"}),
			SKU:                getEnv("SHOPIFY_SKU_COLUMN", "Variant SKU"),
			Price:              getEnv("SHOPIFY_PRICE_COLUMN", "Variant Price"),
			Cost:               getEnv("SHOPIFY_COST_COLUMN", "Cost per item"),
			Status:             "Status",
			Published:          "Published",
			InventoryTracker:   "Variant Inventory Tracker",
			InventoryPolicy:    "Variant Inventory Policy",
			FulfillmentService: "Variant Fulfillment Service",
			Option1Name:        "Option1 Name",
			Option1Value:       "Option1 Value",
		},

		Physical: PhysicalLayout{
			ArticleIndex:       getEnvAsInt("PHYSICAL_ARTICLE_INDEX", 0),
			BarcodeIndex:       getEnvAsInt("PHYSICAL_BARCODE_INDEX", 1),
			NameIndex:          getEnvAsInt("PHYSICAL_NAME_INDEX", 2),
			SizeIndex:          getEnvAsInt("PHYSICAL_SIZE_INDEX", 3),
			QuantityIndex:      getEnvAsInt("PHYSICAL_QUANTITY_INDEX", 4),
			PurchasePriceIndex: getEnvAsInt("PHYSICAL_PURCHASE_PRICE_INDEX", 7),
			SalePriceIndex:     getEnvAsInt("PHYSICAL_SALE_PRICE_INDEX", 9),
			MinFields:          getEnvAsInt("PHYSICAL_MIN_FIELDS", 10),
			StoreMarker:        getEnv("PHYSICAL_STORE_MARKER", ""),
		},
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsSlice gets a comma separated environment variable as a slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
