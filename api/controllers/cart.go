package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/squareeyes/backend/api/responses"
	"github.com/squareeyes/backend/api/validators"
	cartsvc "github.com/squareeyes/backend/internal/cart"
	"github.com/squareeyes/backend/internal/catalog"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/logger"
)

// CartFetch returns the current cart snapshot with line totals and count.
func CartFetch(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		items, err := svc.Items(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartDTO(items))
	}
}

type addCartItemRequest struct {
	ID              string   `json:"id" validate:"required"`
	Title           string   `json:"title"`
	Price           *float64 `json:"price"`
	OriginalPrice   *float64 `json:"originalPrice"`
	DiscountedPrice *float64 `json:"discountedPrice"`
	OnSale          bool     `json:"onSale"`
	Year            string   `json:"year"`
	Genre           string   `json:"genre"`
	Rating          string   `json:"rating"`
	Image           string   `json:"image"`
	ImageAlt        string   `json:"imageAlt"`
}

func (req addCartItemRequest) toProduct() catalog.Product {
	p := catalog.Product{
		ID:       req.ID,
		Title:    req.Title,
		OnSale:   req.OnSale,
		Year:     req.Year,
		Genre:    req.Genre,
		Rating:   req.Rating,
		Image:    req.Image,
		ImageAlt: req.ImageAlt,
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = decimalFromFloat(*req.OriginalPrice)
	}
	if req.DiscountedPrice != nil {
		d := decimalFromFloat(*req.DiscountedPrice)
		p.DiscountedPrice = &d
	}
	if req.Price != nil {
		p.Price = decimalFromFloat(*req.Price)
	} else {
		p.Price = p.EffectivePrice()
	}
	return p
}

// CartAddItem merges a product snapshot into the cart.
func CartAddItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Add(r.Context(), payload.toProduct())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toCartDTO(items))
	}
}

// updateQuantityRequest accepts whatever the client sends for quantity;
// normalization turns garbage into 1 instead of rejecting it.
type updateQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity" validate:"required"`
}

func (req updateQuantityRequest) quantity() int {
	var asNumber json.Number
	if err := json.Unmarshal(req.Quantity, &asNumber); err == nil {
		return cartsvc.NormalizeQuantity(asNumber)
	}
	var asString string
	if err := json.Unmarshal(req.Quantity, &asString); err == nil {
		return cartsvc.NormalizeQuantity(asString)
	}
	return 1
}

// CartUpdateQuantity sets the quantity of one line, clamping to >= 1.
func CartUpdateQuantity(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), payload.quantity())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartDTO(items))
	}
}

// CartRemoveItem deletes one line; a missing id reports not found.
func CartRemoveItem(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		items, err := svc.Remove(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartDTO(items))
	}
}

// CartClear empties the cart.
func CartClear(svc *cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		if err := svc.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toCartDTO(nil))
	}
}
