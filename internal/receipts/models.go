// Package receipts journals committed sales locally and renders receipt
// documents for printing.
package receipts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the local journal record of one committed transaction. The
// authoritative record lives in the back office; this copy exists so
// receipts can be reprinted while offline.
type Sale struct {
	ID           uuid.UUID       `gorm:"type:text;primaryKey" json:"id"`
	RemoteSaleID int64           `gorm:"not null;index" json:"remote_sale_id"`
	ReceiptNo    int64           `gorm:"not null;default:0" json:"receipt_no"`
	TerminalID   string          `gorm:"not null" json:"terminal_id"`
	Subtotal     decimal.Decimal `gorm:"type:numeric;not null" json:"subtotal"`
	SSTTax       decimal.Decimal `gorm:"type:numeric;not null" json:"sst_tax"`
	GrandTotal   decimal.Decimal `gorm:"type:numeric;not null" json:"grand_total"`
	CommittedAt  time.Time       `gorm:"not null" json:"committed_at"`
	PrintedAt    *time.Time      `json:"printed_at,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`

	Items []SaleLineItem `gorm:"foreignKey:SaleID;references:ID" json:"items"`
}

func (Sale) TableName() string { return "sales" }

// SaleLineItem is one product line frozen at commit time. Prices are
// copied, not referenced, so later catalog edits never alter a receipt.
type SaleLineItem struct {
	ID            uuid.UUID       `gorm:"type:text;primaryKey" json:"id"`
	SaleID        uuid.UUID       `gorm:"type:text;not null;index" json:"sale_id"`
	Position      int             `gorm:"not null" json:"position"`
	ProductID     int64           `gorm:"not null" json:"product_id"`
	SKU           string          `gorm:"not null" json:"sku"`
	Name          string          `gorm:"not null" json:"name"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	SSTApplicable bool            `gorm:"not null" json:"sst_applicable"`
	LineTotal     decimal.Decimal `gorm:"type:numeric;not null" json:"line_total"`
}

func (SaleLineItem) TableName() string { return "sale_line_items" }
