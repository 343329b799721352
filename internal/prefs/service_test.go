package prefs

import (
	"context"
	"io"
	"testing"

	"github.com/squareeyes/backend/internal/catalog"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/kv"
	"github.com/squareeyes/backend/pkg/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "prefs-test", Output: io.Discard})
	svc, err := NewService(kv.NewMemory(), logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSelectedCategoryBridgeIsReadOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SetSelectedCategory(ctx, catalog.KindMovie, "Action"); err != nil {
		t.Fatalf("set: %v", err)
	}

	genre, err := svc.ConsumeSelectedCategory(ctx, catalog.KindMovie)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if genre != "Action" {
		t.Fatalf("expected Action, got %q", genre)
	}

	_, err = svc.ConsumeSelectedCategory(ctx, catalog.KindMovie)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second read, got %v", err)
	}
}

func TestSelectedCategoryKindsAreIndependent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.SetSelectedCategory(ctx, catalog.KindMovie, "Action"); err != nil {
		t.Fatalf("set movie: %v", err)
	}
	if err := svc.SetSelectedCategory(ctx, catalog.KindSeries, "Drama"); err != nil {
		t.Fatalf("set series: %v", err)
	}

	movieGenre, err := svc.ConsumeSelectedCategory(ctx, catalog.KindMovie)
	if err != nil || movieGenre != "Action" {
		t.Fatalf("movie bridge = %q, %v", movieGenre, err)
	}
	seriesGenre, err := svc.ConsumeSelectedCategory(ctx, catalog.KindSeries)
	if err != nil || seriesGenre != "Drama" {
		t.Fatalf("series bridge = %q, %v", seriesGenre, err)
	}
}

func TestSetSelectedCategoryRequiresGenre(t *testing.T) {
	svc := newTestService(t)
	err := svc.SetSelectedCategory(context.Background(), catalog.KindMovie, "  ")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTheme(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	t.Run("defaults to dark", func(t *testing.T) {
		theme, err := svc.Theme(ctx)
		if err != nil || theme != ThemeDark {
			t.Fatalf("theme = %q, %v", theme, err)
		}
	})

	t.Run("persists a valid choice", func(t *testing.T) {
		if err := svc.SetTheme(ctx, " Light "); err != nil {
			t.Fatalf("set theme: %v", err)
		}
		theme, err := svc.Theme(ctx)
		if err != nil || theme != ThemeLight {
			t.Fatalf("theme = %q, %v", theme, err)
		}
	})

	t.Run("rejects unknown values", func(t *testing.T) {
		err := svc.SetTheme(ctx, "sepia")
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}
