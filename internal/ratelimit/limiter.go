// Package ratelimit implements an approximate fixed-window counter over
// a shared key-value store.
//
// The store's get-then-put is not atomic, so concurrent hits on one key
// may overcount or undercount by a small margin. That is an accepted
// trade-off: the limiter deters abuse, it does not bill anyone.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// CounterStore is the key-value collaborator backing the limiter.
// Put must persist the value with the given TTL; Get reports absence
// via found=false.
type CounterStore interface {
	Get(ctx context.Context, key string) (count int64, found bool, err error)
	Put(ctx context.Context, key string, count int64, ttl time.Duration) error
}

// Result reports a single limiter decision. Note carries an advisory
// message when the store is missing or degraded; it is for logs only
// and never reaches the caller of the HTTP API.
type Result struct {
	Allowed bool
	Count   int64
	Note    string
}

// Limiter counts hits per composite key across fixed windows.
// A nil Store disables limiting entirely (deployment-time escape hatch).
type Limiter struct {
	Store CounterStore

	// FailClosed rejects hits when the store read or write fails.
	// Default is fail-open: availability over strict enforcement.
	FailClosed bool
}

func New(store CounterStore, failClosed bool) *Limiter {
	return &Limiter{Store: store, FailClosed: failClosed}
}

// Hit increments the counter for (key, windowSec) and compares it against
// limit. The attempt that tips the count over the limit is not persisted,
// so the stored count never exceeds limit and rejected retries do not
// extend the window.
func (l *Limiter) Hit(ctx context.Context, key string, limit int, windowSec int) Result {
	if l == nil || l.Store == nil {
		return Result{Allowed: true, Note: "counter store not configured"}
	}

	storeKey := fmt.Sprintf("rl:%s:%d", key, windowSec)

	cur, found, err := l.Store.Get(ctx, storeKey)
	if err != nil {
		if l.FailClosed {
			return Result{Allowed: false, Note: "counter read failed"}
		}
		cur = 0
	} else if !found {
		cur = 0
	}

	next := cur + 1
	if next > int64(limit) {
		return Result{Allowed: false, Count: next}
	}

	if err := l.Store.Put(ctx, storeKey, next, time.Duration(windowSec)*time.Second); err != nil {
		if l.FailClosed {
			return Result{Allowed: false, Count: next, Note: "counter write failed"}
		}
		return Result{Allowed: true, Count: next, Note: "counter write failed (allowed)"}
	}

	return Result{Allowed: true, Count: next}
}
