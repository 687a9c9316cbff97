package store

import (
	"context"
	"fmt"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

type purchaseAPI interface {
	ListPurchases(ctx context.Context, q api.ListQuery) (api.Page[domain.Purchase], error)
	RestorePurchase(ctx context.Context, purchaseID string) (domain.ShoppingList, error)
}

// PurchaseStore is the resource store for purchase history.
type PurchaseStore struct {
	*base[domain.Purchase]
	api     purchaseAPI
	perPage int

	// onRestored hands the re-created list to the shopping-list collection
	// store (AdoptRestored), so it shows up there without a full reload.
	onRestored func(domain.ShoppingList)
}

// NewPurchaseStore creates the purchase-history store. onRestored may be nil.
func NewPurchaseStore(parent context.Context, gateway purchaseAPI, onRestored func(domain.ShoppingList)) *PurchaseStore {
	return &PurchaseStore{
		base:       newBase(parent, func(p domain.Purchase) string { return p.ID }),
		api:        gateway,
		perPage:    defaultPerPage,
		onRestored: onRestored,
	}
}

// Load replaces the history with the most recent page.
func (s *PurchaseStore) Load() {
	s.doLoad(s.Context(), s.fetch, nil)
}

// Reload is Load; history has no filter state.
func (s *PurchaseStore) Reload() { s.Load() }

// LoadMore appends the next page of history.
func (s *PurchaseStore) LoadMore() {
	s.doLoadMore(s.Context(), s.fetch)
}

func (s *PurchaseStore) fetch(ctx context.Context, page int) ([]domain.Purchase, domain.Pagination, error) {
	res, err := s.api.ListPurchases(ctx, api.ListQuery{
		Page:    page,
		PerPage: s.perPage,
		SortBy:  "createdAt",
		Order:   "DESC",
	})
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return res.Items, res.Pagination, nil
}

// Restore undoes a purchase. On success the purchase leaves the history and
// the restored list is handed to the collection store.
func (s *PurchaseStore) Restore(purchaseID string) {
	seq, epoch, ctx, ok := s.beginOp()
	if !ok {
		return
	}
	list, err := s.api.RestorePurchase(ctx, purchaseID)
	applied := s.endMutation(seq, epoch, fmt.Sprintf("%q restored", list.Name), func(sn *Snapshot[domain.Purchase]) {
		sn.Items = removeByID(s.idOf, sn.Items, purchaseID)
	}, err)
	if applied && s.onRestored != nil {
		s.onRestored(list)
	}
}
