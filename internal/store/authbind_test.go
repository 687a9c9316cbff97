package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/l-mendez/listita/internal/session"
)

type memBackend struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemBackend() *memBackend {
	return &memBackend{values: map[string]string{}}
}

func (m *memBackend) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memBackend) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// trackedResource records reloads and resets; reloads are signalled on a
// channel because the binder runs them on goroutines.
type trackedResource struct {
	mu       sync.Mutex
	resets   int
	reloads  int
	reloaded chan struct{}
}

func newTrackedResource() *trackedResource {
	return &trackedResource{reloaded: make(chan struct{}, 16)}
}

func (r *trackedResource) Reload() {
	r.mu.Lock()
	r.reloads++
	r.mu.Unlock()
	r.reloaded <- struct{}{}
}

func (r *trackedResource) Reset() {
	r.mu.Lock()
	r.resets++
	r.mu.Unlock()
}

func (r *trackedResource) counts() (reloads, resets int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reloads, r.resets
}

func awaitReload(t *testing.T, r *trackedResource) {
	t.Helper()
	select {
	case <-r.reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a reload")
	}
}

func TestAuthBinderLoginReloads(t *testing.T) {
	ctx := context.Background()
	sess := session.NewStore(ctx, newMemBackend())
	res := newTrackedResource()

	binder := NewAuthBinder(sess, res)
	binder.Bind()
	defer binder.Unbind()

	sess.SetToken(ctx, "tok-1")
	awaitReload(t, res)

	reloads, resets := res.counts()
	if reloads != 1 || resets != 0 {
		t.Errorf("Expected 1 reload and 0 resets, got %d and %d", reloads, resets)
	}
}

func TestAuthBinderLogoutResetsSynchronously(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	backend.values["session.token"] = "tok-1"
	sess := session.NewStore(ctx, backend)
	res := newTrackedResource()

	binder := NewAuthBinder(sess, res)
	binder.Bind()
	defer binder.Unbind()

	// Already authenticated at bind time: initial reload.
	awaitReload(t, res)

	sess.ClearToken(ctx)

	// No waiting: the reset must have happened before ClearToken returned.
	if _, resets := res.counts(); resets != 1 {
		t.Errorf("Expected a synchronous reset on logout, got %d resets", resets)
	}
}

func TestAuthBinderBindIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sess := session.NewStore(ctx, newMemBackend())
	res := newTrackedResource()

	binder := NewAuthBinder(sess, res)
	binder.Bind()
	binder.Bind()
	defer binder.Unbind()

	sess.SetToken(ctx, "tok-1")
	awaitReload(t, res)

	// A double Bind would have subscribed twice and reloaded twice.
	select {
	case <-res.reloaded:
		t.Error("Expected exactly one reload per login")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAuthBinderUnbind(t *testing.T) {
	ctx := context.Background()
	sess := session.NewStore(ctx, newMemBackend())
	res := newTrackedResource()

	binder := NewAuthBinder(sess, res)
	binder.Bind()
	binder.Unbind()

	sess.SetToken(ctx, "tok-1")

	select {
	case <-res.reloaded:
		t.Error("Expected no reloads after Unbind")
	case <-time.After(50 * time.Millisecond):
	}
}
