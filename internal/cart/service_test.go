package cart

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/backend/internal/catalog"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/kv"
	"github.com/squareeyes/backend/pkg/logger"
)

func newTestService(t *testing.T) (*Service, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	logg := logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
	svc, err := NewService(store, logg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func product(id, title string, price float64) catalog.Product {
	return catalog.Product{
		ID:    id,
		Title: title,
		Price: decimal.NewFromFloat(price),
	}
}

func TestAddMergesByID(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, product("1", "Heat", 10)); err != nil {
		t.Fatalf("first add: %v", err)
	}
	items, err := svc.Add(ctx, product("1", "Heat", 10))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(items) != 1 {
		t.Fatalf("expected one merged line, got %d", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestAddSnapshotsProductFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p := product("1", "Heat", 10)
	p.Genre = "Action"
	if _, err := svc.Add(ctx, p); err != nil {
		t.Fatalf("add: %v", err)
	}

	// mutating the source product must not affect the stored line
	p.Title = "Changed"
	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if items[0].Title != "Heat" || items[0].Genre != "Action" {
		t.Fatalf("expected add-time snapshot, got %+v", items[0])
	}
}

func TestAddMatchesNumericAndStringIDs(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, product(" 42 ", "Heat", 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, err := svc.Add(ctx, product("42", "Heat", 10))
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("expected whitespace-insensitive id merge, got %+v", items)
	}
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, product("1", "Heat", 10)); err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("sets valid quantity", func(t *testing.T) {
		items, err := svc.UpdateQuantity(ctx, "1", 5)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if items[0].Quantity != 5 {
			t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
		}
	})

	t.Run("clamps zero and negative to one", func(t *testing.T) {
		for _, qty := range []int{0, -5} {
			items, err := svc.UpdateQuantity(ctx, "1", qty)
			if err != nil {
				t.Fatalf("update %d: %v", qty, err)
			}
			if items[0].Quantity != 1 {
				t.Fatalf("expected quantity clamped to 1, got %d", items[0].Quantity)
			}
		}
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := svc.UpdateQuantity(ctx, "nope", 2)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		raw  any
		want int
	}{
		{3, 3},
		{0, 1},
		{-5, 1},
		{"abc", 1},
		{"4", 4},
		{2.9, 2},
		{nil, 1},
		{1e300, math.MaxInt32},
		{math.Inf(1), 1},
		{math.NaN(), 1},
	}
	for _, tc := range cases {
		if got := NormalizeQuantity(tc.raw); got < 1 {
			t.Errorf("NormalizeQuantity(%v) = %d, below 1", tc.raw, got)
		} else if got != tc.want {
			t.Errorf("NormalizeQuantity(%v) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestRemove(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, product("1", "Heat", 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, product("2", "Alien", 5)); err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("missing id leaves cart unchanged", func(t *testing.T) {
		before, _, err := store.Get(ctx, kv.CartKey())
		if err != nil {
			t.Fatalf("get: %v", err)
		}

		_, err = svc.Remove(ctx, "nope")
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
			t.Fatalf("expected not found, got %v", err)
		}

		after, _, err := store.Get(ctx, kv.CartKey())
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if before != after {
			t.Fatalf("storage mutated by failed remove")
		}
	})

	t.Run("existing id removes exactly one line", func(t *testing.T) {
		items, err := svc.Remove(ctx, "1")
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if len(items) != 1 || items[0].ID != "2" {
			t.Fatalf("unexpected remaining items: %+v", items)
		}
	})
}

func TestPersistRoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, product("1", "Heat", 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, product("2", "Alien", 5)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.UpdateQuantity(ctx, "1", 3); err != nil {
		t.Fatalf("update: %v", err)
	}

	// fresh service over the same storage sees the identical snapshot
	logg := logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
	fresh, err := NewService(store, logg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	items, err := fresh.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines after rehydrate, got %d", len(items))
	}
	if items[0].ID != "1" || items[0].Quantity != 3 {
		t.Fatalf("order or quantity lost in round trip: %+v", items)
	}
	if items[1].ID != "2" || items[1].Quantity != 1 {
		t.Fatalf("order or quantity lost in round trip: %+v", items)
	}
}

func TestCorruptStateYieldsEmptyCart(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if err := store.Set(ctx, kv.CartKey(), "{not json"); err != nil {
		t.Fatalf("seed corrupt state: %v", err)
	}

	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("expected corrupt state to rehydrate empty, got %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}

func TestRehydrateClampsStoredQuantities(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	stored, _ := json.Marshal([]LineItem{{ID: "1", Title: "Heat", Quantity: 0}})
	if err := store.Set(ctx, kv.CartKey(), string(stored)); err != nil {
		t.Fatalf("seed state: %v", err)
	}

	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if items[0].Quantity != 1 {
		t.Fatalf("expected stored quantity clamped to 1, got %d", items[0].Quantity)
	}
}

func TestTotalAndCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, product("1", "Heat", 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, product("1", "Heat", 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, product("2", "Alien", 5)); err != nil {
		t.Fatalf("add: %v", err)
	}

	total, err := svc.Total(ctx)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected total 25, got %s", total)
	}

	count, err := svc.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestClear(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, product("1", "Heat", 10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	items, err := svc.Items(ctx)
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}

	value, found, err := store.Get(ctx, kv.CartKey())
	if err != nil || !found {
		t.Fatalf("expected persisted empty state, got found=%v err=%v", found, err)
	}
	if value != "[]" {
		t.Fatalf("expected empty array persisted, got %q", value)
	}
}
