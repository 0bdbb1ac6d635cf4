// Package display replicates cart state to customer-facing screens over a
// fire-and-forget pub/sub channel. Every message carries the full cart so
// subscribers never need history to render correctly.
package display

import (
	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/pkg/types"
)

// LineView is one cart line as shown to the customer. Money fields are
// rendered to two decimals at this boundary only.
type LineView struct {
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// Message is the complete cart state pushed to displays.
type Message struct {
	Items      []LineView `json:"items"`
	Subtotal   string     `json:"subtotal"`
	SSTTax     string     `json:"sst_tax"`
	GrandTotal string     `json:"grand_total"`
}

// NewMessage converts a cart snapshot into the wire representation.
func NewMessage(snap cart.Snapshot) Message {
	items := make([]LineView, len(snap.Items))
	for i, item := range snap.Items {
		lineTotal := item.Product.Price.Mul(types.QuantityDecimal(item.Quantity))
		items[i] = LineView{
			ProductID: item.Product.ID,
			SKU:       item.Product.SKU,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: types.MoneyString(item.Product.Price),
			LineTotal: types.MoneyString(lineTotal),
		}
	}
	return Message{
		Items:      items,
		Subtotal:   types.MoneyString(snap.Totals.Subtotal),
		SSTTax:     types.MoneyString(snap.Totals.SSTTax),
		GrandTotal: types.MoneyString(snap.Totals.GrandTotal),
	}
}
