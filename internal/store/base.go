// Package store holds the reactive state containers for each resource family
// (shopping lists, list items, products, categories, purchases, profile).
// Every store owns one Snapshot that only the store mutates; the UI holds a
// read reference and re-renders on notifications.
//
// Store operations are blocking methods. The host UI runs them on goroutines
// so the render loop never waits on the network; concurrent operations on the
// same store are allowed, and the store keeps itself consistent by tagging
// every request with a per-store sequence number and discarding responses
// that arrive after a newer one has already been applied.
package store

import (
	"context"
	"sync"

	"github.com/l-mendez/listita/internal/domain"
)

const defaultPerPage = 25

// Snapshot is the observable state of one resource store.
type Snapshot[T any] struct {
	// Items is in server order. Treat as read-only.
	Items          []T
	Loading        bool
	LoadingMore    bool
	Error          string
	SuccessMessage string
	Page           domain.Pagination
}

// fetchPage retrieves one page of records from the gateway.
type fetchPage[T any] func(ctx context.Context, page int) ([]T, domain.Pagination, error)

// base carries the state, subscriptions and ordering bookkeeping shared by
// every concrete store.
//
// Ordering model: seq increases on every issued request. A load response is
// applied only when its seq is above BOTH high-water marks, so a stale load
// can never overwrite a delete that completed after it was issued. A mutation
// response only needs to beat the mutation mark. Reset bumps the epoch, which
// invalidates every response issued before it — this is what keeps a logout
// reset from being overwritten by an in-flight pre-logout load.
type base[T any] struct {
	mu   sync.Mutex
	snap Snapshot[T]
	idOf func(T) string

	subs    map[int]func(Snapshot[T])
	nextSub int

	seq         uint64
	appliedLoad uint64
	appliedMut  uint64
	epoch       uint64

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func newBase[T any](parent context.Context, idOf func(T) string) *base[T] {
	ctx, cancel := context.WithCancel(parent)
	return &base[T]{
		idOf:   idOf,
		subs:   make(map[int]func(Snapshot[T])),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Snapshot returns the current state.
func (b *base[T]) Snapshot() Snapshot[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snap
}

// Subscribe registers a listener called with every new snapshot. The returned
// function unsubscribes; call it on teardown to avoid leaks.
func (b *base[T]) Subscribe(fn func(Snapshot[T])) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Context is the lifetime of this store; background work owned by the store
// should be bound to it.
func (b *base[T]) Context() context.Context {
	return b.ctx
}

// Reset hard-clears items, messages and the pagination cursor, and
// invalidates every in-flight request.
func (b *base[T]) Reset() {
	b.mu.Lock()
	b.epoch++
	b.snap = Snapshot[T]{}
	snap, subs := b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)
}

// Close cancels in-flight work and detaches the store for good.
func (b *base[T]) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.cancel()
}

// ClearMessages clears error and success. Clearing an already-clear field is
// a no-op and does not notify.
func (b *base[T]) ClearMessages() {
	b.mu.Lock()
	if b.snap.Error == "" && b.snap.SuccessMessage == "" {
		b.mu.Unlock()
		return
	}
	b.snap.Error = ""
	b.snap.SuccessMessage = ""
	snap, subs := b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)
}

// PostError surfaces an error message produced outside the store's own
// operations (the completion orchestrator reports its background transaction
// failure onto the list collection store through this).
func (b *base[T]) PostError(message string) {
	b.post("", message)
}

// PostSuccess surfaces a success message produced outside the store's own
// operations.
func (b *base[T]) PostSuccess(message string) {
	b.post(message, "")
}

func (b *base[T]) post(success, failure string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.seq++
	b.appliedMut = b.seq
	b.snap.Error = failure
	b.snap.SuccessMessage = success
	snap, subs := b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)
}

// doLoad runs a page-1 fetch and replaces items on success. A failed refresh
// keeps the previous items: stale-but-present beats empty.
func (b *base[T]) doLoad(ctx context.Context, fetch fetchPage[T], onApply func()) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.seq++
	seq, epoch := b.seq, b.epoch
	b.snap.Loading = true
	b.snap.Error = ""
	b.snap.SuccessMessage = ""
	snap, subs := b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)

	items, page, err := fetch(ctx, 1)

	b.mu.Lock()
	if b.closed || epoch != b.epoch || seq <= b.appliedLoad || seq <= b.appliedMut {
		b.mu.Unlock()
		return
	}
	b.appliedLoad = seq
	b.snap.Loading = false
	if err != nil {
		b.snap.Error = err.Error()
	} else {
		b.snap.Items = items
		b.snap.Page = page
		if onApply != nil {
			onApply()
		}
	}
	snap, subs = b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)
}

// doLoadMore appends the next page, de-duplicating by id because a concurrent
// mutation may have already inserted the same record.
func (b *base[T]) doLoadMore(ctx context.Context, fetch fetchPage[T]) {
	b.mu.Lock()
	if b.closed || b.snap.Loading || b.snap.LoadingMore || !b.snap.Page.HasNext {
		b.mu.Unlock()
		return
	}
	b.seq++
	seq, epoch := b.seq, b.epoch
	next := b.snap.Page.Page + 1
	b.snap.LoadingMore = true
	b.snap.Error = ""
	b.snap.SuccessMessage = ""
	snap, subs := b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)

	items, page, err := fetch(ctx, next)

	b.mu.Lock()
	if b.closed || epoch != b.epoch || seq <= b.appliedLoad || seq <= b.appliedMut {
		b.mu.Unlock()
		return
	}
	b.appliedLoad = seq
	b.snap.LoadingMore = false
	if err != nil {
		b.snap.Error = err.Error()
	} else {
		b.snap.Items = appendDedupe(b.idOf, b.snap.Items, items)
		b.snap.Page = page
	}
	snap, subs = b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)
}

// beginOp tags a mutation with its sequence number and clears messages.
// ok is false when the store is closed.
func (b *base[T]) beginOp() (seq, epoch uint64, ctx context.Context, ok bool) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0, 0, nil, false
	}
	b.seq++
	seq, epoch = b.seq, b.epoch
	b.snap.Error = ""
	b.snap.SuccessMessage = ""
	snap, subs := b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)
	return seq, epoch, b.ctx, true
}

// endMutation applies the outcome of a mutation under the ordering rules and
// reports whether it was applied (false means it arrived stale). Exactly one
// of Error or SuccessMessage is set.
func (b *base[T]) endMutation(seq, epoch uint64, message string, apply func(*Snapshot[T]), err error) bool {
	b.mu.Lock()
	if b.closed || epoch != b.epoch || seq <= b.appliedMut {
		b.mu.Unlock()
		return false
	}
	b.appliedMut = seq
	if err != nil {
		b.snap.Error = err.Error()
	} else {
		if apply != nil {
			apply(&b.snap)
		}
		b.snap.SuccessMessage = message
	}
	snap, subs := b.gatherLocked()
	b.mu.Unlock()
	publish(snap, subs)
	return err == nil
}

func (b *base[T]) gatherLocked() (Snapshot[T], []func(Snapshot[T])) {
	subs := make([]func(Snapshot[T]), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	return b.snap, subs
}

// publish runs outside the store lock so a subscriber may call back into the
// store.
func publish[T any](snap Snapshot[T], subs []func(Snapshot[T])) {
	for _, fn := range subs {
		fn(snap)
	}
}

func appendDedupe[T any](idOf func(T) string, existing, incoming []T) []T {
	seen := make(map[string]bool, len(existing))
	for _, it := range existing {
		seen[idOf(it)] = true
	}
	merged := make([]T, len(existing), len(existing)+len(incoming))
	copy(merged, existing)
	for _, it := range incoming {
		if seen[idOf(it)] {
			continue
		}
		seen[idOf(it)] = true
		merged = append(merged, it)
	}
	return merged
}

func replaceByID[T any](idOf func(T) string, items []T, updated T) []T {
	out := make([]T, len(items))
	copy(out, items)
	for i, it := range out {
		if idOf(it) == idOf(updated) {
			out[i] = updated
			break
		}
	}
	return out
}

func removeByID[T any](idOf func(T) string, items []T, id string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if idOf(it) == id {
			continue
		}
		out = append(out, it)
	}
	return out
}
