package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/l-mendez/listita/internal/domain"
)

// Auth operations. Login and Register are the only unprotected calls.

// Login exchanges credentials for a bearer token and the account record.
func (c *Client) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return "", domain.User{}, err
	}
	return resp.Token, mapUser(resp.User), nil
}

// Register creates a new account. The account still needs verification.
func (c *Client) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	var resp userDTO
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, input, &resp, false); err != nil {
		return domain.User{}, err
	}
	return mapUser(resp), nil
}

// Verify confirms a freshly registered account with the emailed code.
func (c *Client) Verify(ctx context.Context, email, code string) error {
	return c.do(ctx, http.MethodPost, "/auth/verify", nil, verifyRequest{Email: email, Code: code}, nil, false)
}

// Profile fetches the authenticated user's account record.
func (c *Client) Profile(ctx context.Context) (domain.User, error) {
	var resp userDTO
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &resp, true); err != nil {
		return domain.User{}, err
	}
	return mapUser(resp), nil
}

// Categories.

func (c *Client) ListCategories(ctx context.Context, q ListQuery) (Page[domain.Category], error) {
	return fetchPage(ctx, c, "/categories", q, mapCategory)
}

func (c *Client) CreateCategory(ctx context.Context, input CategoryInput) (domain.Category, error) {
	var resp categoryDTO
	if err := c.do(ctx, http.MethodPost, "/categories", nil, input, &resp, true); err != nil {
		return domain.Category{}, err
	}
	return mapCategory(resp), nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) (domain.Category, error) {
	var resp categoryDTO
	if err := c.do(ctx, http.MethodPatch, "/categories/"+url.PathEscape(id), nil, patch, &resp, true); err != nil {
		return domain.Category{}, err
	}
	return mapCategory(resp), nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil, nil, true)
}

// Products.

func (c *Client) ListProducts(ctx context.Context, q ListQuery) (Page[domain.Product], error) {
	return fetchPage(ctx, c, "/products", q, mapProduct)
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (domain.Product, error) {
	var resp productDTO
	if err := c.do(ctx, http.MethodPost, "/products", nil, input, &resp, true); err != nil {
		return domain.Product{}, err
	}
	return mapProduct(resp), nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (domain.Product, error) {
	var resp productDTO
	if err := c.do(ctx, http.MethodPatch, "/products/"+url.PathEscape(id), nil, patch, &resp, true); err != nil {
		return domain.Product{}, err
	}
	return mapProduct(resp), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, nil, nil, true)
}

// Shopping lists.

func (c *Client) ListShoppingLists(ctx context.Context, q ListQuery) (Page[domain.ShoppingList], error) {
	return fetchPage(ctx, c, "/shopping-lists", q, mapList)
}

func (c *Client) GetShoppingList(ctx context.Context, id string) (domain.ShoppingList, error) {
	var resp shoppingListDTO
	if err := c.do(ctx, http.MethodGet, "/shopping-lists/"+url.PathEscape(id), nil, nil, &resp, true); err != nil {
		return domain.ShoppingList{}, err
	}
	return mapList(resp), nil
}

func (c *Client) CreateShoppingList(ctx context.Context, input ListInput) (domain.ShoppingList, error) {
	var resp shoppingListDTO
	if err := c.do(ctx, http.MethodPost, "/shopping-lists", nil, input, &resp, true); err != nil {
		return domain.ShoppingList{}, err
	}
	return mapList(resp), nil
}

func (c *Client) UpdateShoppingList(ctx context.Context, id string, patch ListPatch) (domain.ShoppingList, error) {
	var resp shoppingListDTO
	if err := c.do(ctx, http.MethodPatch, "/shopping-lists/"+url.PathEscape(id), nil, patch, &resp, true); err != nil {
		return domain.ShoppingList{}, err
	}
	return mapList(resp), nil
}

func (c *Client) DeleteShoppingList(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/shopping-lists/"+url.PathEscape(id), nil, nil, nil, true)
}

// List items.

func (c *Client) ListItems(ctx context.Context, listID string, q ListQuery) (Page[domain.ListItem], error) {
	return fetchPage(ctx, c, "/shopping-lists/"+url.PathEscape(listID)+"/items", q, mapItem)
}

func (c *Client) AddItem(ctx context.Context, listID string, input ItemInput) (domain.ListItem, error) {
	var resp listItemDTO
	if err := c.do(ctx, http.MethodPost, "/shopping-lists/"+url.PathEscape(listID)+"/items", nil, input, &resp, true); err != nil {
		return domain.ListItem{}, err
	}
	return mapItem(resp), nil
}

func (c *Client) UpdateItem(ctx context.Context, listID, itemID string, patch ItemPatch) (domain.ListItem, error) {
	var resp listItemDTO
	path := "/shopping-lists/" + url.PathEscape(listID) + "/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodPatch, path, nil, patch, &resp, true); err != nil {
		return domain.ListItem{}, err
	}
	return mapItem(resp), nil
}

func (c *Client) DeleteItem(ctx context.Context, listID, itemID string) error {
	path := "/shopping-lists/" + url.PathEscape(listID) + "/items/" + url.PathEscape(itemID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

// Sharing.

func (c *Client) ShareList(ctx context.Context, listID, email string) (domain.User, error) {
	var resp userDTO
	path := "/shopping-lists/" + url.PathEscape(listID) + "/share"
	if err := c.do(ctx, http.MethodPost, path, nil, shareRequest{Email: email}, &resp, true); err != nil {
		return domain.User{}, err
	}
	return mapUser(resp), nil
}

func (c *Client) RevokeShare(ctx context.Context, listID, userID string) error {
	path := "/shopping-lists/" + url.PathEscape(listID) + "/share/" + url.PathEscape(userID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, true)
}

func (c *Client) SharedUsers(ctx context.Context, listID string) ([]domain.User, error) {
	var resp []userDTO
	path := "/shopping-lists/" + url.PathEscape(listID) + "/shared-users"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp, true); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(resp))
	for _, u := range resp {
		users = append(users, mapUser(u))
	}
	return users, nil
}

// Purchases.

// PurchaseList archives the given list into a purchase. The backend marks the
// list purchased and moves its items into the returned purchase record.
func (c *Client) PurchaseList(ctx context.Context, listID string) (domain.Purchase, error) {
	var resp purchaseDTO
	path := "/shopping-lists/" + url.PathEscape(listID) + "/purchase"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &resp, true); err != nil {
		return domain.Purchase{}, err
	}
	return mapPurchase(resp), nil
}

func (c *Client) ListPurchases(ctx context.Context, q ListQuery) (Page[domain.Purchase], error) {
	return fetchPage(ctx, c, "/purchases", q, mapPurchase)
}

// RestorePurchase undoes a purchase: the backend removes it from history and
// re-creates (or updates) the referenced shopping list, which is returned.
func (c *Client) RestorePurchase(ctx context.Context, purchaseID string) (domain.ShoppingList, error) {
	var resp shoppingListDTO
	path := "/purchases/" + url.PathEscape(purchaseID) + "/restore"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, &resp, true); err != nil {
		return domain.ShoppingList{}, err
	}
	return mapList(resp), nil
}
