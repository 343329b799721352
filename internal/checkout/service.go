package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/squareeyes/backend/internal/cart"
	pkgerrors "github.com/squareeyes/backend/pkg/errors"
	"github.com/squareeyes/backend/pkg/kv"
	"github.com/squareeyes/backend/pkg/logger"
	"github.com/squareeyes/backend/pkg/metrics"
)

// taxRate is the flat 10% applied to every order subtotal.
var taxRate = decimal.NewFromFloat(0.10)

// Totals carries the money breakdown of an order. Values stay unrounded;
// display DTOs round to 2dp at the edge.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// OrderRecord is the one-shot snapshot of a completed cart. It is written
// at checkout completion and deleted the first time it is read.
type OrderRecord struct {
	ID       string          `json:"id"`
	Items    []cart.LineItem `json:"items"`
	Totals   Totals          `json:"totals"`
	PlacedAt time.Time       `json:"placedAt"`
}

// Service finalizes purchases.
type Service struct {
	cart    *cart.Service
	store   kv.Store
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewService builds a checkout service over the cart and storage port.
func NewService(cartSvc *cart.Service, store kv.Store, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{cart: cartSvc, store: store, logg: logg, metrics: m}, nil
}

// ComputeTotals derives subtotal, tax and total from a cart snapshot.
func ComputeTotals(items []cart.LineItem) Totals {
	subtotal := cart.SnapshotTotal(items)
	tax := subtotal.Mul(taxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Totals returns the breakdown for the current live cart.
func (s *Service) Totals(ctx context.Context) (Totals, error) {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(items), nil
}

// Complete finalizes the purchase: it refuses an empty cart without
// touching storage, otherwise writes the one-shot order record and clears
// the live cart.
func (s *Service) Complete(ctx context.Context) (*OrderRecord, error) {
	items, err := s.cart.Items(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot checkout an empty cart")
	}

	record := &OrderRecord{
		ID:       uuid.NewString(),
		Items:    items,
		Totals:   ComputeTotals(items),
		PlacedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode order record")
	}
	if err := s.store.Set(ctx, kv.OrderKey(), string(payload)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to persist order record")
	}

	if err := s.cart.Clear(ctx); err != nil {
		return nil, err
	}

	s.metrics.IncOrderPlaced()
	s.logg.Info(s.logg.WithField(ctx, "order_id", record.ID), "checkout completed")
	return record, nil
}

// ConsumeLastOrder returns the one-shot order record and deletes it, so a
// second read reports not found.
func (s *Service) ConsumeLastOrder(ctx context.Context) (*OrderRecord, error) {
	value, found, err := s.store.Get(ctx, kv.OrderKey())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to read order record")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no recent order found")
	}

	var record OrderRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		// a corrupt record is unrecoverable; drop it so the key does not wedge
		if delErr := s.store.Del(ctx, kv.OrderKey()); delErr != nil {
			s.logg.Error(ctx, "failed to drop corrupt order record", delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "order record is unreadable")
	}

	if err := s.store.Del(ctx, kv.OrderKey()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to consume order record")
	}
	return &record, nil
}
