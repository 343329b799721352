package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/squareeyes/backend/api/responses"
	"github.com/squareeyes/backend/api/validators"
	catalogsvc "github.com/squareeyes/backend/internal/catalog"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/logger"
)

// CatalogProducts lists the full catalog, optionally narrowed by genre and
// free-text query.
func CatalogProducts(client *catalogsvc.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog client unavailable"))
			return
		}

		products, err := client.All(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		genre := validators.QueryString(r, "genre")
		query := validators.QueryString(r, "q")
		responses.WriteSuccess(w, toProductDTOs(catalogsvc.Filter(products, genre, query)))
	}
}

// CatalogSection lists one section (movies or series) with the same
// genre/query narrowing as the full listing.
func CatalogSection(client *catalogsvc.Client, kind catalogsvc.Kind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog client unavailable"))
			return
		}

		products, err := client.ByKind(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		genre := validators.QueryString(r, "genre")
		query := validators.QueryString(r, "q")
		responses.WriteSuccess(w, toProductDTOs(catalogsvc.Filter(products, genre, query)))
	}
}

// CatalogSectionGenres returns the sorted unique genres of a section, used
// to populate the category dropdown.
func CatalogSectionGenres(client *catalogsvc.Client, kind catalogsvc.Kind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog client unavailable"))
			return
		}

		products, err := client.ByKind(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, catalogsvc.Genres(products))
	}
}

// CatalogProductDetail fetches a single product by id.
func CatalogProductDetail(client *catalogsvc.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog client unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID)
		}

		product, err := client.ByID(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, toProductDTO(*product))
	}
}

// CatalogCacheClear resets the session cache so the next listing refetches.
func CatalogCacheClear(client *catalogsvc.Client, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog client unavailable"))
			return
		}

		client.ClearCache()
		if logg != nil {
			logg.Info(r.Context(), "catalog cache cleared")
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
