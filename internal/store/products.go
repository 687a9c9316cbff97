package store

import (
	"context"
	"fmt"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

// ProductFilter narrows the product collection.
type ProductFilter struct {
	Search     string
	CategoryID string
	SortBy     string
	Order      string
}

type productAPI interface {
	ListProducts(ctx context.Context, q api.ListQuery) (api.Page[domain.Product], error)
	CreateProduct(ctx context.Context, input api.ProductInput) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch api.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// ProductStore is the resource store for products.
type ProductStore struct {
	*base[domain.Product]
	api     productAPI
	filter  ProductFilter
	perPage int
}

// NewProductStore creates the product store.
func NewProductStore(parent context.Context, gateway productAPI) *ProductStore {
	return &ProductStore{
		base:    newBase(parent, func(p domain.Product) string { return p.ID }),
		api:     gateway,
		perPage: defaultPerPage,
	}
}

func (s *ProductStore) Load(filter ProductFilter) {
	s.mu.Lock()
	s.filter = filter
	s.mu.Unlock()
	s.doLoad(s.Context(), s.fetch, nil)
}

func (s *ProductStore) Reload() {
	s.doLoad(s.Context(), s.fetch, nil)
}

func (s *ProductStore) LoadMore() {
	s.doLoadMore(s.Context(), s.fetch)
}

func (s *ProductStore) fetch(ctx context.Context, page int) ([]domain.Product, domain.Pagination, error) {
	s.mu.Lock()
	f := s.filter
	s.mu.Unlock()

	res, err := s.api.ListProducts(ctx, api.ListQuery{
		Page:       page,
		PerPage:    s.perPage,
		Search:     f.Search,
		CategoryID: f.CategoryID,
		SortBy:     f.SortBy,
		Order:      f.Order,
	})
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return res.Items, res.Pagination, nil
}

func (s *ProductStore) Create(input api.ProductInput) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	created, err := s.api.CreateProduct(ctx, input)
	if err != nil {
		s.endMutation(seq, epoch, "", nil, err)
		return
	}
	s.Reload()
	s.endMutation(seq, epoch, fmt.Sprintf("%q created", created.Name), func(sn *Snapshot[domain.Product]) {
		sn.Items = appendDedupe(s.idOf, sn.Items, []domain.Product{created})
	}, nil)
}

func (s *ProductStore) Update(id string, patch api.ProductPatch) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	updated, err := s.api.UpdateProduct(ctx, id, patch)
	s.endMutation(seq, epoch, fmt.Sprintf("%q updated", updated.Name), func(sn *Snapshot[domain.Product]) {
		sn.Items = replaceByID(s.idOf, sn.Items, updated)
	}, err)
}

func (s *ProductStore) Delete(id string) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	err := s.api.DeleteProduct(ctx, id)
	s.endMutation(seq, epoch, "product deleted", func(sn *Snapshot[domain.Product]) {
		sn.Items = removeByID(s.idOf, sn.Items, id)
	}, err)
}
