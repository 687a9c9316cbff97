// Package domain holds the internal records for the shopping-list client.
// Nothing in here knows about the wire format; internal/api maps backend
// responses into these types.
package domain

import "time"

// User is a registered account on the shopping-list service.
type User struct {
	ID        string
	Name      string
	Email     string
	Verified  bool
	CreatedAt time.Time
}

// Category groups products.
type Category struct {
	ID           string
	Name         string
	Color        string
	ProductCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Product is a purchasable article, optionally assigned to a category.
type Product struct {
	ID         string
	Name       string
	CategoryID string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ShoppingList is a private or shared list of items. Owner is immutable after
// creation and is never part of SharedWith.
type ShoppingList struct {
	ID              string
	Name            string
	Description     string
	Recurring       bool
	Owner           User
	SharedWith      []User
	LastPurchasedAt *time.Time
	Metadata        map[string]string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ListItem is an entry on a shopping list. Product is nil when the referenced
// product was deleted server-side; such items are excluded from every rendered
// collection and from completion checks (see VisibleItems).
type ListItem struct {
	ID              string
	Quantity        float64
	Unit            string
	Purchased       bool
	LastPurchasedAt *time.Time
	Product         *Product
}

// Purchase is an archived list transaction. It is created server-side when a
// list completes and is restorable exactly once.
type Purchase struct {
	ID        string
	List      *ShoppingList
	Items     []ListItem
	CreatedAt time.Time
}

// Pagination is the cursor attached to every paginated fetch.
type Pagination struct {
	Page       int
	PerPage    int
	TotalPages int
	Total      int
	HasNext    bool
	HasPrev    bool
}
