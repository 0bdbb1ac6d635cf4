package controllers

import (
	"context"
	"net/http"

	"github.com/tillpoint/pos-terminal/api/responses"
	"github.com/tillpoint/pos-terminal/internal/catalog"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

// CatalogService is the catalog surface the product endpoints consume.
type CatalogService interface {
	Refresh(ctx context.Context) error
	List(category, search string) []catalog.Product
	FindByCode(ctx context.Context, code string) (*catalog.Product, error)
}

// ProductsList serves the cached catalog listing for the register grid.
func ProductsList(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		category := r.URL.Query().Get("category")
		search := r.URL.Query().Get("search")
		responses.WriteSuccess(w, svc.List(category, search))
	}
}

// ProductsRefresh re-fetches the listing from the back office.
func ProductsRefresh(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.Refresh(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "refreshed"})
	}
}

// ProductLookup resolves a barcode or SKU against the back office, used by
// the manual code-entry field.
func ProductLookup(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "code is required"))
			return
		}

		product, err := svc.FindByCode(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
