package store

import (
	"sync"

	"github.com/l-mendez/listita/internal/session"
)

// Resource is the slice of a store the auth binder needs: refresh on login,
// wipe on logout.
type Resource interface {
	Reload()
	Reset()
}

// AuthBinder keeps a set of resource stores in step with the session. On
// login every store reloads; on logout every store is reset synchronously
// before the notification returns, so no post-logout apply can resurrect the
// previous account's data.
type AuthBinder struct {
	session   *session.Store
	resources []Resource
	once      sync.Once
	unsub     func()
}

// NewAuthBinder creates a binder over the given stores.
func NewAuthBinder(sess *session.Store, resources ...Resource) *AuthBinder {
	return &AuthBinder{session: sess, resources: resources}
}

// Bind subscribes to the session and applies the current auth state once.
// Calling Bind more than once has no effect.
func (b *AuthBinder) Bind() {
	b.once.Do(func() {
		if b.session.Authenticated() {
			b.reloadAll()
		}
		b.unsub = b.session.Subscribe(func(authenticated bool) {
			if authenticated {
				b.reloadAll()
				return
			}
			// Synchronous: each Reset bumps the store epoch before this
			// callback returns, so in-flight pre-logout responses land dead.
			for _, r := range b.resources {
				r.Reset()
			}
		})
	})
}

// Unbind detaches the binder from the session. Stores keep their state.
func (b *AuthBinder) Unbind() {
	if b.unsub != nil {
		b.unsub()
		b.unsub = nil
	}
}

func (b *AuthBinder) reloadAll() {
	for _, r := range b.resources {
		go r.Reload()
	}
}
