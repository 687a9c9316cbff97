package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

type fakePurchaseAPI struct {
	purchases  []domain.Purchase
	restored   domain.ShoppingList
	restoreErr error
}

func (f *fakePurchaseAPI) ListPurchases(ctx context.Context, q api.ListQuery) (api.Page[domain.Purchase], error) {
	return api.Page[domain.Purchase]{
		Items:      f.purchases,
		Pagination: domain.Pagination{Page: 1, Total: len(f.purchases)},
	}, nil
}

func (f *fakePurchaseAPI) RestorePurchase(ctx context.Context, purchaseID string) (domain.ShoppingList, error) {
	return f.restored, f.restoreErr
}

func purchase(id, listName string) domain.Purchase {
	return domain.Purchase{
		ID:        id,
		List:      &domain.ShoppingList{ID: "l-" + id, Name: listName},
		CreatedAt: time.Now(),
	}
}

func TestPurchaseStoreLoad(t *testing.T) {
	gateway := &fakePurchaseAPI{
		purchases: []domain.Purchase{purchase("pur-1", "Groceries"), purchase("pur-2", "Party")},
	}
	s := NewPurchaseStore(context.Background(), gateway, nil)
	defer s.Close()

	s.Load()

	snap := s.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("Expected 2 purchases, got %d", len(snap.Items))
	}
}

func TestPurchaseStoreRestore(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gateway := &fakePurchaseAPI{
			purchases: []domain.Purchase{purchase("pur-1", "Groceries")},
			restored:  domain.ShoppingList{ID: "l-pur-1", Name: "Groceries"},
		}

		var adopted []domain.ShoppingList
		s := NewPurchaseStore(context.Background(), gateway, func(l domain.ShoppingList) {
			adopted = append(adopted, l)
		})
		defer s.Close()

		s.Load()
		s.Restore("pur-1")

		snap := s.Snapshot()
		if len(snap.Items) != 0 {
			t.Errorf("Expected the purchase removed from history, got %+v", snap.Items)
		}
		if snap.SuccessMessage != `"Groceries" restored` {
			t.Errorf("Unexpected message: %q", snap.SuccessMessage)
		}
		if len(adopted) != 1 || adopted[0].ID != "l-pur-1" {
			t.Errorf("Expected the restored list handed over, got %+v", adopted)
		}
	})

	t.Run("Failure", func(t *testing.T) {
		gateway := &fakePurchaseAPI{
			purchases:  []domain.Purchase{purchase("pur-1", "Groceries")},
			restoreErr: fmt.Errorf("purchase not found"),
		}

		handovers := 0
		s := NewPurchaseStore(context.Background(), gateway, func(domain.ShoppingList) { handovers++ })
		defer s.Close()

		s.Load()
		s.Restore("pur-1")

		snap := s.Snapshot()
		if snap.Error != "purchase not found" {
			t.Errorf("Expected the error surfaced, got %q", snap.Error)
		}
		if len(snap.Items) != 1 {
			t.Error("A failed restore must keep the purchase in history")
		}
		if handovers != 0 {
			t.Error("A failed restore must not hand anything over")
		}
	})
}
