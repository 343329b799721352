package prefs

import (
	"context"
	"fmt"
	"strings"

	"github.com/squareeyes/backend/internal/catalog"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/kv"
	"github.com/squareeyes/backend/pkg/logger"
)

// Theme values accepted by the storefront.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Service stores small user preferences: the read-once selected-category
// bridge used across page navigations, and the durable theme choice.
type Service struct {
	store kv.Store
	logg  *logger.Logger
}

func NewService(store kv.Store, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{store: store, logg: logg}, nil
}

// SetSelectedCategory stores the genre a listing page should pre-select
// after the next navigation.
func (s *Service) SetSelectedCategory(ctx context.Context, kind catalog.Kind, genre string) error {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if err := s.store.Set(ctx, kv.CategoryBridgeKey(string(kind)), genre); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store selected category")
	}
	return nil
}

// ConsumeSelectedCategory returns the bridged genre and deletes it, so it
// applies to exactly one navigation.
func (s *Service) ConsumeSelectedCategory(ctx context.Context, kind catalog.Kind) (string, error) {
	key := kv.CategoryBridgeKey(string(kind))

	value, found, err := s.store.Get(ctx, key)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read selected category")
	}
	if !found {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "no selected category")
	}

	if err := s.store.Del(ctx, key); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to consume selected category")
	}
	return value, nil
}

// Theme returns the stored theme, defaulting to dark when unset.
func (s *Service) Theme(ctx context.Context) (string, error) {
	value, found, err := s.store.Get(ctx, kv.ThemeKey())
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read theme")
	}
	if !found || (value != ThemeDark && value != ThemeLight) {
		return ThemeDark, nil
	}
	return value, nil
}

// SetTheme stores the theme choice. Unlike the category bridge it is
// durable, not read-once.
func (s *Service) SetTheme(ctx context.Context, theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if theme != ThemeDark && theme != ThemeLight {
		return pkgerrors.New(pkgerrors.CodeValidation, "theme must be dark or light")
	}
	if err := s.store.Set(ctx, kv.ThemeKey(), theme); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to store theme")
	}
	return nil
}
