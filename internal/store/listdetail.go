package store

import (
	"context"
	"fmt"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

type detailAPI interface {
	GetShoppingList(ctx context.Context, id string) (domain.ShoppingList, error)
	ListItems(ctx context.Context, listID string, q api.ListQuery) (api.Page[domain.ListItem], error)
	AddItem(ctx context.Context, listID string, input api.ItemInput) (domain.ListItem, error)
	UpdateItem(ctx context.Context, listID, itemID string, patch api.ItemPatch) (domain.ListItem, error)
	DeleteItem(ctx context.Context, listID, itemID string) error
	ShareList(ctx context.Context, listID, email string) (domain.User, error)
	RevokeShare(ctx context.Context, listID, userID string) error
	SharedUsers(ctx context.Context, listID string) ([]domain.User, error)
}

// ListDetailStore holds one open shopping list: its metadata and its items.
// Items whose product was deleted server-side are filtered out before they
// ever reach the snapshot.
//
// The store outlives individual screens; Open rescopes it to a list and
// Clear (navigation away) cancels that scope, so in-flight detail loads stop
// while collection-level loads elsewhere keep running.
type ListDetailStore struct {
	*base[domain.ListItem]
	api     detailAPI
	perPage int

	// guarded by base.mu
	listID     string
	list       *domain.ShoppingList
	openCtx    context.Context
	cancelOpen context.CancelFunc
}

// NewListDetailStore creates the detail store.
func NewListDetailStore(parent context.Context, gateway detailAPI) *ListDetailStore {
	return &ListDetailStore{
		base:    newBase(parent, func(it domain.ListItem) string { return it.ID }),
		api:     gateway,
		perPage: defaultPerPage,
	}
}

// Open points the store at a list and loads it. Any previously open list is
// cleared and its in-flight work cancelled.
func (s *ListDetailStore) Open(listID string) {
	s.mu.Lock()
	if s.cancelOpen != nil {
		s.cancelOpen()
	}
	s.listID = listID
	s.list = nil
	s.openCtx, s.cancelOpen = context.WithCancel(s.base.ctx)
	s.mu.Unlock()

	s.base.Reset()
	s.Load()
}

// Clear empties the store and cancels detail-scoped work; used when the user
// navigates away or when the completion flow archives the open list.
func (s *ListDetailStore) Clear() {
	s.Reset()
}

// Reset hard-clears the open list along with the item state.
func (s *ListDetailStore) Reset() {
	s.mu.Lock()
	s.listID = ""
	s.list = nil
	if s.cancelOpen != nil {
		s.cancelOpen()
		s.openCtx, s.cancelOpen = nil, nil
	}
	s.mu.Unlock()
	s.base.Reset()
}

// Context returns the open-list scope when a list is open, otherwise the
// store lifetime. Detail-bound work (toggles, item loads) uses this so
// navigating away cancels it.
func (s *ListDetailStore) Context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openCtx != nil {
		return s.openCtx
	}
	return s.base.ctx
}

// List returns a copy of the open list's metadata, or nil when nothing is
// open (or metadata has not arrived yet).
func (s *ListDetailStore) List() *domain.ShoppingList {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.list == nil {
		return nil
	}
	l := *s.list
	return &l
}

// Load fetches the open list's metadata and first page of items.
func (s *ListDetailStore) Load() {
	s.mu.Lock()
	listID := s.listID
	ctx := s.openCtx
	s.mu.Unlock()
	if listID == "" {
		return
	}

	var meta domain.ShoppingList
	fetch := func(fctx context.Context, page int) ([]domain.ListItem, domain.Pagination, error) {
		list, err := s.api.GetShoppingList(fctx, listID)
		if err != nil {
			return nil, domain.Pagination{}, err
		}
		res, err := s.api.ListItems(fctx, listID, api.ListQuery{Page: page, PerPage: s.perPage})
		if err != nil {
			return nil, domain.Pagination{}, err
		}
		meta = list
		return domain.VisibleItems(res.Items), res.Pagination, nil
	}
	// onApply runs under the same ordering gate as the item page, so stale
	// metadata can not overwrite a newer response either.
	s.doLoad(ctx, fetch, func() {
		if s.listID == listID {
			m := meta
			s.list = &m
		}
	})
}

// Reload re-fetches the open list; no-op when nothing is open.
func (s *ListDetailStore) Reload() { s.Load() }

// LoadMore appends the next page of items.
func (s *ListDetailStore) LoadMore() {
	s.mu.Lock()
	listID := s.listID
	ctx := s.openCtx
	s.mu.Unlock()
	if listID == "" {
		return
	}
	s.doLoadMore(ctx, func(fctx context.Context, page int) ([]domain.ListItem, domain.Pagination, error) {
		res, err := s.api.ListItems(fctx, listID, api.ListQuery{Page: page, PerPage: s.perPage})
		if err != nil {
			return nil, domain.Pagination{}, err
		}
		return domain.VisibleItems(res.Items), res.Pagination, nil
	})
}

// AddItem creates an item on the open list (pessimistic create: nothing is
// inserted until the server assigns the id), then reconciles with a reload.
func (s *ListDetailStore) AddItem(input api.ItemInput) {
	s.mu.Lock()
	listID := s.listID
	s.mu.Unlock()
	seq, epoch, _, ok := s.beginOp()
	if !ok {
		return
	}
	if listID == "" {
		s.endMutation(seq, epoch, "", nil, api.NotFoundLocally("no list is open"))
		return
	}
	created, err := s.api.AddItem(s.Context(), listID, input)
	if err != nil {
		s.endMutation(seq, epoch, "", nil, err)
		return
	}
	s.Reload()
	s.endMutation(seq, epoch, "item added", func(sn *Snapshot[domain.ListItem]) {
		if created.Product == nil {
			return
		}
		sn.Items = appendDedupe(s.idOf, sn.Items, []domain.ListItem{created})
	}, nil)
}

// UpdateItem patches an item in place. An item that comes back dangling is
// removed instead of shown.
func (s *ListDetailStore) UpdateItem(itemID string, patch api.ItemPatch) {
	s.mu.Lock()
	listID := s.listID
	s.mu.Unlock()
	seq, epoch, _, ok := s.beginOp()
	if !ok {
		return
	}
	if listID == "" {
		s.endMutation(seq, epoch, "", nil, api.NotFoundLocally("no list is open"))
		return
	}
	updated, err := s.api.UpdateItem(s.Context(), listID, itemID, patch)
	s.endMutation(seq, epoch, "item updated", func(sn *Snapshot[domain.ListItem]) {
		if updated.Product == nil {
			sn.Items = removeByID(s.idOf, sn.Items, itemID)
			return
		}
		sn.Items = replaceByID(s.idOf, sn.Items, updated)
	}, err)
}

// DeleteItem removes an item from the open list.
func (s *ListDetailStore) DeleteItem(itemID string) {
	s.mu.Lock()
	listID := s.listID
	s.mu.Unlock()
	seq, epoch, _, ok := s.beginOp()
	if !ok {
		return
	}
	if listID == "" {
		s.endMutation(seq, epoch, "", nil, api.NotFoundLocally("no list is open"))
		return
	}
	err := s.api.DeleteItem(s.Context(), listID, itemID)
	s.endMutation(seq, epoch, "item removed", func(sn *Snapshot[domain.ListItem]) {
		sn.Items = removeByID(s.idOf, sn.Items, itemID)
	}, err)
}

// Share invites another user to the open list by email.
func (s *ListDetailStore) Share(email string) {
	s.mu.Lock()
	listID := s.listID
	s.mu.Unlock()
	seq, epoch, _, ok := s.beginOp()
	if !ok {
		return
	}
	if listID == "" {
		s.endMutation(seq, epoch, "", nil, api.NotFoundLocally("no list is open"))
		return
	}
	user, err := s.api.ShareList(s.Context(), listID, email)
	s.endMutation(seq, epoch, fmt.Sprintf("shared with %s", email), func(sn *Snapshot[domain.ListItem]) {
		if s.list == nil || user.ID == s.list.Owner.ID {
			return
		}
		shared := make([]domain.User, 0, len(s.list.SharedWith)+1)
		for _, u := range s.list.SharedWith {
			if u.ID == user.ID {
				continue
			}
			shared = append(shared, u)
		}
		s.list.SharedWith = append(shared, user)
	}, err)
}

// Revoke removes a collaborator from the open list.
func (s *ListDetailStore) Revoke(userID string) {
	s.mu.Lock()
	listID := s.listID
	s.mu.Unlock()
	seq, epoch, _, ok := s.beginOp()
	if !ok {
		return
	}
	if listID == "" {
		s.endMutation(seq, epoch, "", nil, api.NotFoundLocally("no list is open"))
		return
	}
	err := s.api.RevokeShare(s.Context(), listID, userID)
	s.endMutation(seq, epoch, "access revoked", func(sn *Snapshot[domain.ListItem]) {
		if s.list == nil {
			return
		}
		shared := make([]domain.User, 0, len(s.list.SharedWith))
		for _, u := range s.list.SharedWith {
			if u.ID == userID {
				continue
			}
			shared = append(shared, u)
		}
		s.list.SharedWith = shared
	}, err)
}

// SharedUsers fetches the current collaborator set for the open list.
func (s *ListDetailStore) SharedUsers() ([]domain.User, error) {
	s.mu.Lock()
	listID := s.listID
	s.mu.Unlock()
	if listID == "" {
		return nil, api.NotFoundLocally("no list is open")
	}
	return s.api.SharedUsers(s.Context(), listID)
}
