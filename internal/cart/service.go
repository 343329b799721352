package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/backend/internal/catalog"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/kv"
	"github.com/squareeyes/backend/pkg/logger"
	"github.com/squareeyes/backend/pkg/metrics"
)

// LineItem is a denormalized snapshot of a product at add-time plus a
// quantity. Later catalog changes never affect lines already in the cart.
type LineItem struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   decimal.Decimal  `json:"originalPrice"`
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
	OnSale          bool             `json:"onSale"`
	Year            string           `json:"year"`
	Genre           string           `json:"genre"`
	Rating          string           `json:"rating"`
	Image           string           `json:"image"`
	ImageAlt        string           `json:"imageAlt"`
	Quantity        int              `json:"quantity"`
}

// Service owns the cart and keeps durable storage consistent with it.
// The in-memory list is authoritative between mutations; every mutation
// writes the full snapshot back through the kv port.
type Service struct {
	store   kv.Store
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics

	mu     sync.Mutex
	items  []LineItem
	loaded bool
}

// NewService builds a cart service backed by the provided storage port.
func NewService(store kv.Store, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{store: store, logg: logg, metrics: m}, nil
}

// normalizeID makes numeric and string identifiers compare consistently.
func normalizeID(id any) string {
	switch v := id.(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// NormalizeQuantity coerces arbitrary client input to a valid quantity.
// Anything non-numeric, non-finite or below 1 becomes 1; absurdly large
// values are capped so the conversion to int cannot overflow.
func NormalizeQuantity(raw any) int {
	switch v := raw.(type) {
	case int:
		if v < 1 {
			return 1
		}
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 {
			return 1
		}
		if v >= math.MaxInt32 {
			return math.MaxInt32
		}
		return int(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 1
		}
		return NormalizeQuantity(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 1
		}
		return NormalizeQuantity(f)
	default:
		return 1
	}
}

// load rehydrates the cart from storage on first use. A missing or corrupt
// stored value yields an empty cart, never an error.
func (s *Service) load(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	value, found, err := s.store.Get(ctx, kv.CartKey())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read cart storage")
	}
	if !found {
		s.items = []LineItem{}
		s.loaded = true
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("corrupt cart state, resetting to empty: %v", err))
		s.items = []LineItem{}
		s.loaded = true
		return nil
	}

	for i := range items {
		if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
	}
	s.items = items
	s.loaded = true
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	payload, err := json.Marshal(s.items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode cart")
	}
	if err := s.store.Set(ctx, kv.CartKey(), string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to persist cart")
	}
	return nil
}

func (s *Service) indexOf(id string) int {
	id = normalizeID(id)
	for i := range s.items {
		if normalizeID(s.items[i].ID) == id {
			return i
		}
	}
	return -1
}

// Add merges a product into the cart: an existing line for the same id has
// its quantity incremented, otherwise a new line snapshots the product.
func (s *Service) Add(ctx context.Context, product catalog.Product) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	if normalizeID(product.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if i := s.indexOf(product.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, LineItem{
			ID:              product.ID,
			Title:           product.Title,
			Price:           product.Price,
			OriginalPrice:   product.OriginalPrice,
			DiscountedPrice: product.DiscountedPrice,
			OnSale:          product.OnSale,
			Year:            product.Year,
			Genre:           product.Genre,
			Rating:          product.Rating,
			Image:           product.Image,
			ImageAlt:        product.ImageAlt,
			Quantity:        1,
		})
	}

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("add")
	return s.snapshot(), nil
}

// UpdateQuantity sets the quantity of an existing line, clamping to >= 1.
func (s *Service) UpdateQuantity(ctx context.Context, id string, quantity int) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	if quantity < 1 {
		quantity = 1
	}
	s.items[i].Quantity = quantity

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("update")
	return s.snapshot(), nil
}

// Remove deletes the line matching id. A missing id is reported as a
// not-found outcome and leaves storage untouched.
func (s *Service) Remove(ctx context.Context, id string) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}

	s.items = append(s.items[:i], s.items[i+1:]...)

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("remove")
	return s.snapshot(), nil
}

// Clear empties the cart and persists the empty state.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return err
	}

	s.items = []LineItem{}
	if err := s.persist(ctx); err != nil {
		return err
	}
	s.metrics.IncCartMutation("clear")
	return nil
}

// Items returns a copy of the current snapshot.
func (s *Service) Items(ctx context.Context) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s.snapshot(), nil
}

// Total sums price x quantity over all lines.
func (s *Service) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return SnapshotTotal(items), nil
}

// Count sums quantities over all lines (the cart badge number).
func (s *Service) Count(ctx context.Context) (int, error) {
	items, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count, nil
}

// SnapshotTotal sums price x quantity over an arbitrary snapshot.
func SnapshotTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *Service) snapshot() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}
