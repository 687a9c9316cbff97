// Package checkout drives the list-completion flow: toggling the last open
// item on a shopping list purchases the whole list and navigates the user
// back to the collection.
package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/l-mendez/listita/internal/api"
	"github.com/l-mendez/listita/internal/domain"
	"github.com/l-mendez/listita/internal/store"
)

// State is the phase of the completion flow.
type State int

const (
	// Idle means no toggle is in flight.
	Idle State = iota
	// TogglingItem means the purchased flag is being written.
	TogglingItem
	// Completing means the toggle landed and the completion check is running.
	Completing
	// NavigatingAway means completion was confirmed and the user is being
	// sent back while the purchase runs in the background.
	NavigatingAway
)

// Navigator sends the user back to the collection screen.
type Navigator interface {
	NavigateBack()
}

type gatewayAPI interface {
	UpdateItem(ctx context.Context, listID, itemID string, patch api.ItemPatch) (domain.ListItem, error)
	ListItems(ctx context.Context, listID string, q api.ListQuery) (api.Page[domain.ListItem], error)
	PurchaseList(ctx context.Context, listID string) (domain.Purchase, error)
}

// Orchestrator serializes item toggles on the open list and runs the
// completion transaction when the last item is checked off.
//
// The purchase call is deliberately bound to the collection store's lifetime,
// not the detail store's: the user has already navigated away when it runs,
// so cancelling detail-scoped work must not abort it.
type Orchestrator struct {
	api    gatewayAPI
	detail *store.ListDetailStore
	lists  *store.ListStore
	nav    Navigator

	mu    sync.Mutex
	state State
}

// New creates the orchestrator.
func New(gateway gatewayAPI, detail *store.ListDetailStore, lists *store.ListStore, nav Navigator) *Orchestrator {
	return &Orchestrator{api: gateway, detail: detail, lists: lists, nav: nav}
}

// State returns the current phase.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// ToggleItem flips the purchased flag on one item of the open list. When the
// toggle would check off the last open item of a non-recurring list, the
// flow re-reads the items from the server, confirms completion, navigates
// back and purchases the list in the background. Calls made while a toggle is
// already in flight are dropped.
func (o *Orchestrator) ToggleItem(itemID string) {
	o.mu.Lock()
	if o.state != Idle {
		o.mu.Unlock()
		return
	}
	o.state = TogglingItem
	o.mu.Unlock()

	list := o.detail.List()
	if list == nil {
		o.detail.PostError("no list is open")
		o.setState(Idle)
		return
	}
	items := o.detail.Snapshot().Items

	var current *domain.ListItem
	for i := range items {
		if items[i].ID == itemID {
			current = &items[i]
			break
		}
	}
	if current == nil {
		// The item vanished under us (another device deleted it). Re-sync,
		// then surface the error so the reload does not wipe it.
		o.detail.Reload()
		o.detail.PostError(api.NotFoundLocally("item is no longer on the list").Error())
		o.setState(Idle)
		return
	}

	// Predict from local state so a completing toggle can skip the usual
	// reload and go straight to the confirmation read.
	predicted := domain.WouldComplete(items, itemID, list.Recurring)

	purchased := !current.Purchased
	ctx := o.detail.Context()
	if _, err := o.api.UpdateItem(ctx, list.ID, itemID, api.ItemPatch{Purchased: &purchased}); err != nil {
		o.detail.PostError(err.Error())
		o.setState(Idle)
		return
	}

	if !predicted {
		o.detail.Reload()
		o.setState(Idle)
		return
	}

	o.setState(Completing)
	fresh, err := o.fetchAllItems(ctx, list.ID)
	if err != nil {
		// The toggle itself succeeded; fall back to a normal refresh.
		o.detail.Reload()
		o.setState(Idle)
		return
	}

	// Re-validate against the server's view: another device may have added
	// an item, deleted the toggled one, or unchecked something since the
	// prediction was made.
	visible := domain.VisibleItems(fresh)
	complete := !list.Recurring &&
		domain.ContainsItem(visible, itemID) &&
		domain.AllPurchased(visible)
	if !complete {
		o.detail.Reload()
		o.setState(Idle)
		return
	}

	o.setState(NavigatingAway)
	o.nav.NavigateBack()
	o.detail.Clear()

	listID, listName := list.ID, list.Name
	go func() {
		defer o.setState(Idle)
		if _, err := o.api.PurchaseList(o.lists.Context(), listID); err != nil {
			// Recoverable: the list stays open on the server and the user
			// retries from the collection screen.
			o.lists.PostError(fmt.Sprintf("could not complete %q: %s", listName, err))
			return
		}
		// Reload first: a load in progress clears messages, so the success
		// message is posted once the collection is fresh.
		o.lists.Reload()
		o.lists.PostSuccess(fmt.Sprintf("%q completed", listName))
	}()
}

// fetchAllItems pages through the full item set so the completion check never
// judges from a truncated page.
func (o *Orchestrator) fetchAllItems(ctx context.Context, listID string) ([]domain.ListItem, error) {
	var all []domain.ListItem
	for page := 1; ; page++ {
		res, err := o.api.ListItems(ctx, listID, api.ListQuery{Page: page, PerPage: 100})
		if err != nil {
			return nil, err
		}
		all = append(all, res.Items...)
		if !res.Pagination.HasNext {
			return all, nil
		}
	}
}
