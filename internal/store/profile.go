package store

import (
	"context"

	"github.com/l-mendez/listita/internal/domain"
)

type profileAPI interface {
	Profile(ctx context.Context) (domain.User, error)
}

// ProfileStore holds the authenticated user's account record. It reuses the
// generic container with at most one item so it behaves like every other
// resource store under auth transitions.
type ProfileStore struct {
	*base[domain.User]
	api profileAPI
}

// NewProfileStore creates the profile store.
func NewProfileStore(parent context.Context, gateway profileAPI) *ProfileStore {
	return &ProfileStore{
		base: newBase(parent, func(u domain.User) string { return u.ID }),
		api:  gateway,
	}
}

// Load refreshes the profile from the server.
func (s *ProfileStore) Load() {
	s.doLoad(s.Context(), func(ctx context.Context, page int) ([]domain.User, domain.Pagination, error) {
		user, err := s.api.Profile(ctx)
		if err != nil {
			return nil, domain.Pagination{}, err
		}
		return []domain.User{user}, domain.Pagination{Page: 1, PerPage: 1, Total: 1, TotalPages: 1}, nil
	}, nil)
}

// Reload is Load; the profile has no filter state.
func (s *ProfileStore) Reload() { s.Load() }

// User returns the loaded profile, if any.
func (s *ProfileStore) User() (domain.User, bool) {
	snap := s.Snapshot()
	if len(snap.Items) == 0 {
		return domain.User{}, false
	}
	return snap.Items[0], true
}
