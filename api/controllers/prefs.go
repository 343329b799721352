package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/squareeyes/backend/api/responses"
	"github.com/squareeyes/backend/api/validators"
	"github.com/squareeyes/backend/internal/catalog"
	prefssvc "github.com/squareeyes/backend/internal/prefs"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/logger"
)

type setSelectedCategoryRequest struct {
	Category string `json:"category" validate:"required"`
}

// PrefsSetSelectedCategory stores the genre a listing page should
// pre-select after the next navigation.
func PrefsSetSelectedCategory(svc *prefssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prefs service unavailable"))
			return
		}

		kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalog kind"))
			return
		}

		var payload setSelectedCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetSelectedCategory(r.Context(), kind, payload.Category); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"kind": string(kind), "category": payload.Category})
	}
}

// PrefsConsumeSelectedCategory returns the bridged genre and deletes it.
func PrefsConsumeSelectedCategory(svc *prefssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prefs service unavailable"))
			return
		}

		kind, err := catalog.ParseKind(chi.URLParam(r, "kind"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid catalog kind"))
			return
		}

		category, err := svc.ConsumeSelectedCategory(r.Context(), kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"kind": string(kind), "category": category})
	}
}

// PrefsGetTheme returns the stored theme (dark when unset).
func PrefsGetTheme(svc *prefssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prefs service unavailable"))
			return
		}

		theme, err := svc.Theme(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"theme": theme})
	}
}

type setThemeRequest struct {
	Theme string `json:"theme" validate:"required"`
}

// PrefsSetTheme stores the theme choice.
func PrefsSetTheme(svc *prefssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "prefs service unavailable"))
			return
		}

		var payload setThemeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetTheme(r.Context(), payload.Theme); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"theme": payload.Theme})
	}
}
