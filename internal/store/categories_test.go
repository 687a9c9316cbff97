package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
)

type fakeCategoryAPI struct {
	categories []domain.Category
	deleteErr  error
}

func (f *fakeCategoryAPI) ListCategories(ctx context.Context, q api.ListQuery) (api.Page[domain.Category], error) {
	return api.Page[domain.Category]{
		Items:      f.categories,
		Pagination: domain.Pagination{Page: 1, Total: len(f.categories)},
	}, nil
}

func (f *fakeCategoryAPI) CreateCategory(ctx context.Context, input api.CategoryInput) (domain.Category, error) {
	return domain.Category{ID: "c-new", Name: input.Name}, nil
}

func (f *fakeCategoryAPI) UpdateCategory(ctx context.Context, id string, patch api.CategoryPatch) (domain.Category, error) {
	return domain.Category{ID: id}, nil
}

func (f *fakeCategoryAPI) DeleteCategory(ctx context.Context, id string) error {
	return f.deleteErr
}

func TestCategoryDeleteTriggersDependentReload(t *testing.T) {
	gateway := &fakeCategoryAPI{
		categories: []domain.Category{{ID: "c-1", Name: "Dairy"}},
	}

	reloaded := make(chan struct{}, 1)
	s := NewCategoryStore(context.Background(), gateway, func() {
		reloaded <- struct{}{}
	})
	defer s.Close()

	s.Load(CatalogFilter{})
	s.Delete("c-1")

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected the dependent reload hook to fire")
	}
	if got := len(s.Snapshot().Items); got != 0 {
		t.Errorf("Expected the category removed, got %d items", got)
	}
}

func TestCategoryDeleteFailureSkipsHook(t *testing.T) {
	gateway := &fakeCategoryAPI{
		categories: []domain.Category{{ID: "c-1", Name: "Dairy"}},
		deleteErr:  fmt.Errorf("category still in use"),
	}

	s := NewCategoryStore(context.Background(), gateway, func() {
		t.Error("The hook must not fire on a failed delete")
	})
	defer s.Close()

	s.Load(CatalogFilter{})
	s.Delete("c-1")

	snap := s.Snapshot()
	if snap.Error != "category still in use" {
		t.Errorf("Expected the error surfaced, got %q", snap.Error)
	}
	if len(snap.Items) != 1 {
		t.Error("A failed delete must keep the category")
	}
}
