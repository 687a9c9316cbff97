package store

import (
	"context"
	"fmt"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

// CatalogFilter narrows the product and category collections.
type CatalogFilter struct {
	Search string
	SortBy string
	Order  string
}

type categoryAPI interface {
	ListCategories(ctx context.Context, q api.ListQuery) (api.Page[domain.Category], error)
	CreateCategory(ctx context.Context, input api.CategoryInput) (domain.Category, error)
	UpdateCategory(ctx context.Context, id string, patch api.CategoryPatch) (domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// CategoryStore is the resource store for product categories.
type CategoryStore struct {
	*base[domain.Category]
	api     categoryAPI
	filter  CatalogFilter
	perPage int

	// onDeleted reloads dependent aggregates (the product collection keeps
	// per-category assignments that a category delete invalidates).
	onDeleted func()
}

// NewCategoryStore creates the category store. onDeleted may be nil.
func NewCategoryStore(parent context.Context, gateway categoryAPI, onDeleted func()) *CategoryStore {
	return &CategoryStore{
		base:      newBase(parent, func(c domain.Category) string { return c.ID }),
		api:       gateway,
		perPage:   defaultPerPage,
		onDeleted: onDeleted,
	}
}

func (s *CategoryStore) Load(filter CatalogFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.doLoad(s.Context(), s.fetch, nil)
}

func (s *CategoryStore) Reload() {
	s.doLoad(s.Context(), s.fetch, nil)
}

func (s *CategoryStore) LoadMore() {
	s.doLoadMore(s.Context(), s.fetch)
}

func (s *CategoryStore) fetch(ctx context.Context, page int) ([]domain.Category, domain.Pagination, error) {
	s.mu.Lock()
	f := s.filter
	s.mu.Unlock()

	res, err := s.api.ListCategories(ctx, api.ListQuery{
		Page:    page,
		PerPage: s.perPage,
		Search:  f.Search,
		SortBy:  f.SortBy,
		Order:   f.Order,
	})
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return res.Items, res.Pagination, nil
}

func (s *CategoryStore) Create(input api.CategoryInput) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	created, err := s.api.CreateCategory(ctx, input)
	if err != nil {
		s.endMutation(seq, epoch, "", nil, err)
		return
	}
	s.Reload()
	s.endMutation(seq, epoch, fmt.Sprintf("%q created", created.Name), func(sn *Snapshot[domain.Category]) {
		sn.Items = appendDedupe(s.idOf, sn.Items, []domain.Category{created})
	}, nil)
}

func (s *CategoryStore) Update(id string, patch api.CategoryPatch) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	updated, err := s.api.UpdateCategory(ctx, id, patch)
	s.endMutation(seq, epoch, fmt.Sprintf("%q updated", updated.Name), func(sn *Snapshot[domain.Category]) {
		sn.Items = replaceByID(s.idOf, sn.Items, updated)
	}, err)
}

// Delete removes the category and triggers a reload of dependent aggregates.
func (s *CategoryStore) Delete(id string) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	err := s.api.DeleteCategory(ctx, id)
	applied := s.endMutation(seq, epoch, "category deleted", func(sn *Snapshot[domain.Category]) {
		sn.Items = removeByID(s.idOf, sn.Items, id)
	}, err)
	if applied && s.onDeleted != nil {
		go s.onDeleted()
	}
}
