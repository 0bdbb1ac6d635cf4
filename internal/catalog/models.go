package catalog

import "github.com/shopspring/decimal"

// Product mirrors the back office product record. Prices arrive as JSON
// numbers and are held as decimals end to end.
type Product struct {
	ID            int64           `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	SSTApplicable bool            `json:"is_sst_applicable"`
	ImageURL      string          `json:"image_url,omitempty"`
}
