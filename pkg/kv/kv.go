// Package kv defines the durable key-value port that cart, order and
// preference state persists through. Backends: the sqlite/gorm store in this
// package and the redis client in pkg/redis.
package kv

import (
	"context"
	"strings"
)

// Store is the storage surface the storefront state lives behind. Get
// reports missing keys via the boolean rather than an error so callers can
// treat absent state as empty.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

const (
	keyNamespace   = "se"
	cartSuffix     = "cart"
	orderSuffix    = "last_order"
	bridgePrefix   = "bridge"
	categorySuffix = "selected_category"
	themeSuffix    = "theme"
)

// CartKey is the single key holding the serialized cart snapshot.
func CartKey() string {
	return buildKey(cartSuffix)
}

// OrderKey is the one-shot key holding the last completed order.
func OrderKey() string {
	return buildKey(orderSuffix)
}

// CategoryBridgeKey carries a selected category across a page navigation;
// it is read once and deleted.
func CategoryBridgeKey(kind string) string {
	return buildKey(bridgePrefix, categorySuffix, kind)
}

// ThemeKey stores the display theme preference.
func ThemeKey() string {
	return buildKey(themeSuffix)
}

func buildKey(parts ...string) string {
	if len(parts) == 0 {
		return keyNamespace
	}
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
