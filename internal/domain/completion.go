package domain

// VisibleItems filters out items whose product reference was deleted
// server-side. Dangling items are never rendered and never counted when
// deciding whether a list is complete.
func VisibleItems(items []ListItem) []ListItem {
	visible := make([]ListItem, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		visible = append(visible, it)
	}
	return visible
}

// AllPurchased reports whether every visible item is purchased. An empty set
// is NOT considered purchased: an empty list completing itself would produce
// a phantom purchase with zero items.
func AllPurchased(items []ListItem) bool {
	visible := VisibleItems(items)
	if len(visible) == 0 {
		return false
	}
	for _, it := range visible {
		if !it.Purchased {
			return false
		}
	}
	return true
}

// ContainsItem reports whether an item with the given id is present.
func ContainsItem(items []ListItem, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// WouldComplete predicts, from the local pre-toggle state, whether toggling
// the given item would leave every visible item purchased on a non-recurring
// list. The prediction only selects the completion path; the caller must
// re-validate against the server's post-toggle item set before firing the
// purchase transaction.
func WouldComplete(items []ListItem, toggledID string, recurring bool) bool {
	if recurring {
		return false
	}
	visible := VisibleItems(items)
	if len(visible) == 0 {
		return false
	}
	found := false
	for _, it := range visible {
		if it.ID == toggledID {
			if it.Purchased {
				// Toggling a purchased item un-purchases it.
				return false
			}
			found = true
			continue
		}
		if !it.Purchased {
			return false
		}
	}
	return found
}
