package store

import (
	"context"
	"fmt"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

// ListFilter narrows the shopping-list collection.
type ListFilter struct {
	Search    string
	Recurring *bool
	SortBy    string
	Order     string
}

type listAPI interface {
	ListShoppingLists(ctx context.Context, q api.ListQuery) (api.Page[domain.ShoppingList], error)
	CreateShoppingList(ctx context.Context, input api.ListInput) (domain.ShoppingList, error)
	UpdateShoppingList(ctx context.Context, id string, patch api.ListPatch) (domain.ShoppingList, error)
	DeleteShoppingList(ctx context.Context, id string) error
}

// ListStore is the resource store for the shopping-list collection.
type ListStore struct {
	*base[domain.ShoppingList]
	api     listAPI
	filter  ListFilter
	perPage int
}

// NewListStore creates the collection store. Its lifetime spans the whole
// authenticated session, which also makes it the scope that completion
// transactions outlive navigation on.
func NewListStore(parent context.Context, gateway listAPI) *ListStore {
	return &ListStore{
		base:    newBase(parent, func(l domain.ShoppingList) string { return l.ID }),
		api:     gateway,
		perPage: defaultPerPage,
	}
}

// Load replaces the collection with page 1 for the given filter.
func (s *ListStore) Load(filter ListFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.doLoad(s.Context(), s.fetch, nil)
}

// Reload re-runs the last load with the same filter.
func (s *ListStore) Reload() {
	s.doLoad(s.Context(), s.fetch, nil)
}

// LoadMore appends the next page. No-op while another load is running or when
// there is no next page.
func (s *ListStore) LoadMore() {
	s.doLoadMore(s.Context(), s.fetch)
}

func (s *ListStore) fetch(ctx context.Context, page int) ([]domain.ShoppingList, domain.Pagination, error) {
	s.mu.Lock()
	f := s.filter
	s.mu.Unlock()

	res, err := s.api.ListShoppingLists(ctx, api.ListQuery{
		Page:      page,
		PerPage:   s.perPage,
		Search:    f.Search,
		Recurring: f.Recurring,
		SortBy:    f.SortBy,
		Order:     f.Order,
	})
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return res.Items, res.Pagination, nil
}

// Create asks the server for the new list first (ids are server-assigned, so
// nothing is inserted optimistically), reconciles with a full reload, and
// keeps the created record present even if the reload raced or failed.
func (s *ListStore) Create(input api.ListInput) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	created, err := s.api.CreateShoppingList(ctx, input)
	if err != nil {
		s.endMutation(seq, epoch, "", nil, err)
		return
	}
	s.Reload()
	s.endMutation(seq, epoch, fmt.Sprintf("%q created", created.Name), func(sn *Snapshot[domain.ShoppingList]) {
		sn.Items = appendDedupe(s.idOf, sn.Items, []domain.ShoppingList{created})
	}, nil)
}

// Update replaces the matching entry in place on success; a failure leaves
// the collection untouched.
func (s *ListStore) Update(id string, patch api.ListPatch) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	updated, err := s.api.UpdateShoppingList(ctx, id, patch)
	s.endMutation(seq, epoch, fmt.Sprintf("%q updated", updated.Name), func(sn *Snapshot[domain.ShoppingList]) {
		sn.Items = replaceByID(s.idOf, sn.Items, updated)
	}, err)
}

// Delete removes the entry on success.
func (s *ListStore) Delete(id string) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	err := s.api.DeleteShoppingList(ctx, id)
	s.endMutation(seq, epoch, "list deleted", func(sn *Snapshot[domain.ShoppingList]) {
		sn.Items = removeByID(s.idOf, sn.Items, id)
	}, err)
}

// AdoptRestored inserts a list handed over by the purchase store after a
// restore, so the restored list shows up without a manual full reload.
func (s *ListStore) AdoptRestored(list domain.ShoppingList) {
	seq, epoch, _, ok := s.beginOp()
	if !ok {
		return
	}
	s.endMutation(seq, epoch, fmt.Sprintf("%q restored", list.Name), func(sn *Snapshot[domain.ShoppingList]) {
		sn.Items = appendDedupe(s.idOf, sn.Items, []domain.ShoppingList{list})
	}, nil)
}
