package controllers

import (
	"net/http"

	"github.com/tillpoint/pos-terminal/api/responses"
	"github.com/tillpoint/pos-terminal/internal/checkout"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
	"github.com/tillpoint/pos-terminal/pkg/types"
)

type checkoutResponse struct {
	SaleID      int64  `json:"sale_id"`
	ReceiptID   string `json:"receipt_id"`
	Subtotal    string `json:"subtotal"`
	SSTTax      string `json:"sst_tax"`
	GrandTotal  string `json:"grand_total"`
	CommittedAt string `json:"committed_at"`
	// CloseCart tells the register UI to dismiss the cart view; the sale
	// is done and a receipt is on its way to the printer.
	CloseCart bool `json:"close_cart"`
}

// Checkout commits the cart to the sales ledger.
func Checkout(orch *checkout.Orchestrator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orch == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		sale, err := orch.Checkout(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, checkoutResponse{
			SaleID:      sale.RemoteSaleID,
			ReceiptID:   sale.ID.String(),
			Subtotal:    types.MoneyString(sale.Subtotal),
			SSTTax:      types.MoneyString(sale.SSTTax),
			GrandTotal:  types.MoneyString(sale.GrandTotal),
			CommittedAt: sale.CommittedAt.Format("2006-01-02T15:04:05.000Z07:00"),
			CloseCart:   true,
		})
	}
}

// CheckoutStatus exposes the orchestrator's lifecycle state.
func CheckoutStatus(orch *checkout.Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, orch.Status())
	}
}
