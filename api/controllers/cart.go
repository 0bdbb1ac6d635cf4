package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tillpoint/pos-terminal/api/responses"
	"github.com/tillpoint/pos-terminal/api/validators"
	"github.com/tillpoint/pos-terminal/internal/cart"
	"github.com/tillpoint/pos-terminal/internal/catalog"
	"github.com/tillpoint/pos-terminal/internal/display"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

// cachedCatalog is the lookup surface cart endpoints need when the operator
// taps a product tile instead of scanning it.
type cachedCatalog interface {
	Get(id int64) (catalog.Product, bool)
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

type adjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// The cart endpoints respond with the same full-state view the customer
// display receives, so both screens always agree on what they render.

// CartFetch returns the current cart.
func CartFetch(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, display.NewMessage(store.Snapshot()))
	}
}

// CartAddItem adds one unit of a cataloged product.
func CartAddItem(store *cart.Store, lookup cachedCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := lookup.Get(payload.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not in catalog"))
			return
		}

		responses.WriteSuccess(w, display.NewMessage(store.Add(product)))
	}
}

// CartAdjustQuantity applies a signed delta to one line. A decrement that
// would reach zero is ignored; the line survives at its current quantity.
func CartAdjustQuantity(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload adjustQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, ok := store.AdjustQuantity(productID, payload.Delta)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart"))
			return
		}
		responses.WriteSuccess(w, display.NewMessage(snap))
	}
}

// CartRemoveItem drops a line entirely.
func CartRemoveItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snap, ok := store.Remove(productID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart"))
			return
		}
		responses.WriteSuccess(w, display.NewMessage(snap))
	}
}

// CartClear empties the cart without a sale, e.g. a walked-away customer.
func CartClear(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, display.NewMessage(store.Clear()))
	}
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}
