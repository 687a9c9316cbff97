package api

import (
	"net/url"
	"strconv"
	"time"

	"github.com/l-mendez/listita/internal/domain"
)

// ListQuery carries the filter, sort and pagination fields accepted by every
// paginated listing endpoint. Zero values are omitted from the query string.
type ListQuery struct {
	Page       int
	PerPage    int
	SortBy     string
	Order      string // "ASC" or "DESC"
	Search     string
	CategoryID string
	Recurring  *bool
}

// Values encodes the query for the request URL.
func (q ListQuery) Values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		v.Set("perPage", strconv.Itoa(q.PerPage))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		v.Set("categoryId", q.CategoryID)
	}
	if q.Recurring != nil {
		v.Set("recurring", strconv.FormatBool(*q.Recurring))
	}
	return v
}

// Page pairs one page of mapped records with its pagination cursor.
type Page[T any] struct {
	Items      []T
	Pagination domain.Pagination
}

// paginationDTO is the wire shape of the pagination block.
type paginationDTO struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PerPage    int  `json:"perPage"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Input and patch types for mutating calls. Patches use pointer fields so
// only the provided fields are sent.

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type CategoryPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type ProductInput struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

type ProductPatch struct {
	Name       *string `json:"name,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type ListInput struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Recurring   bool              `json:"recurring"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type ListPatch struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Recurring   *bool             `json:"recurring,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type ItemInput struct {
	ProductID string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
}

type ItemPatch struct {
	Quantity  *float64 `json:"quantity,omitempty"`
	Unit      *string  `json:"unit,omitempty"`
	Purchased *bool    `json:"purchased,omitempty"`
}

// Wire DTOs. These mirror the backend's JSON shapes and never leave this
// package; mappers.go converts them into domain records.

type userDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

type categoryDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	ProductCount int       `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type productDTO struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"categoryId"`
	Notes      string    `json:"notes"`
	Deleted    bool      `json:"deleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type shoppingListDTO struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Recurring       bool              `json:"recurring"`
	Owner           userDTO           `json:"owner"`
	SharedWith      []userDTO         `json:"sharedWith"`
	LastPurchasedAt *time.Time        `json:"lastPurchasedAt"`
	Metadata        map[string]string `json:"metadata"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type listItemDTO struct {
	ID              string      `json:"id"`
	Quantity        float64     `json:"quantity"`
	Unit            string      `json:"unit"`
	Purchased       bool        `json:"purchased"`
	LastPurchasedAt *time.Time  `json:"lastPurchasedAt"`
	Product         *productDTO `json:"product"`
}

type purchaseDTO struct {
	ID        string           `json:"id"`
	List      *shoppingListDTO `json:"list"`
	Items     []listItemDTO    `json:"items"`
	CreatedAt time.Time        `json:"createdAt"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type shareRequest struct {
	Email string `json:"email"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// listEnvelope is the generic shape of every paginated listing response.
type listEnvelope[T any] struct {
	Data       []T           `json:"data"`
	Pagination paginationDTO `json:"pagination"`
}
