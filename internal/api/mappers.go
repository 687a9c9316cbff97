package api

import "github.com/l-mendez/listita/internal/domain"

// Mapping between wire DTOs and domain records. The network shape stops here.

func mapUser(w userDTO) domain.User {
	return domain.User{
		ID:        w.ID,
		Name:      w.Name,
		Email:     w.Email,
		Verified:  w.Verified,
		CreatedAt: w.CreatedAt,
	}
}

func mapCategory(w categoryDTO) domain.Category {
	return domain.Category{
		ID:           w.ID,
		Name:         w.Name,
		Color:        w.Color,
		ProductCount: w.ProductCount,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func mapProduct(w productDTO) domain.Product {
	return domain.Product{
		ID:         w.ID,
		Name:       w.Name,
		CategoryID: w.CategoryID,
		Notes:      w.Notes,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

// mapList drops the owner from the shared set. The backend should never send
// the owner there, but the invariant belongs to the domain record, so it is
// enforced at the boundary.
func mapList(w shoppingListDTO) domain.ShoppingList {
	shared := make([]domain.User, 0, len(w.SharedWith))
	for _, u := range w.SharedWith {
		if u.ID == w.Owner.ID {
			continue
		}
		shared = append(shared, mapUser(u))
	}
	return domain.ShoppingList{
		ID:              w.ID,
		Name:            w.Name,
		Description:     w.Description,
		Recurring:       w.Recurring,
		Owner:           mapUser(w.Owner),
		SharedWith:      shared,
		LastPurchasedAt: w.LastPurchasedAt,
		Metadata:        w.Metadata,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

// mapItem leaves Product nil when the backend omits the product or marks it
// deleted. Such dangling items are filtered out of every rendered collection
// by domain.VisibleItems.
func mapItem(w listItemDTO) domain.ListItem {
	var product *domain.Product
	if w.Product != nil && !w.Product.Deleted {
		p := mapProduct(*w.Product)
		product = &p
	}
	return domain.ListItem{
		ID:              w.ID,
		Quantity:        w.Quantity,
		Unit:            w.Unit,
		Purchased:       w.Purchased,
		LastPurchasedAt: w.LastPurchasedAt,
		Product:         product,
	}
}

func mapPurchase(w purchaseDTO) domain.Purchase {
	var list *domain.ShoppingList
	if w.List != nil {
		l := mapList(*w.List)
		list = &l
	}
	items := make([]domain.ListItem, 0, len(w.Items))
	for _, it := range w.Items {
		items = append(items, mapItem(it))
	}
	return domain.Purchase{
		ID:        w.ID,
		List:      list,
		Items:     items,
		CreatedAt: w.CreatedAt,
	}
}

func mapPagination(w paginationDTO) domain.Pagination {
	return domain.Pagination{
		Page:       w.Page,
		PerPage:    w.PerPage,
		TotalPages: w.TotalPages,
		Total:      w.Total,
		HasNext:    w.HasNext,
		HasPrev:    w.HasPrev,
	}
}
