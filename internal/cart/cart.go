// Package cart is the session's order aggregate: an ordered list of line
// items owned by one checkout session. There is exactly one cart per session;
// all mutation goes through the aggregate so the single-writer discipline
// holds even when timers and listeners touch it from other goroutines.
package cart

import (
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/Tykillita/LaCocinadeAnitaMenu/internal/menu"
)

const maxNotesLen = 200

var (
	ErrIndexOutOfRange = errors.New("cart: line item index out of range")
	ErrNotesTooLong    = errors.New("cart: notes exceed 200 characters")
)

// LineItem is one cart entry: a resolved menu item (option already folded
// in) with its quantity and per-item notes. Repeated adds of the same item
// are kept as separate entries, never merged.
type LineItem struct {
	Item     menu.Item
	Quantity int
	Notes    string
}

func (li LineItem) Subtotal() float64 {
	return li.Item.Price * float64(li.Quantity)
}

type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

func New() *Cart { return &Cart{} }

// Add appends a line item. The quantity is clamped into the item's valid
// range (10..99 for the bulk item, 1..99 otherwise) so the aggregate
// invariant holds regardless of what the caller validated.
func (c *Cart) Add(item menu.Item, quantity int, notes string) error {
	if utf8.RuneCountInString(notes) > maxNotesLen {
		return ErrNotesTooLong
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, LineItem{
		Item:     item,
		Quantity: menu.ClampQuantity(item, quantity),
		Notes:    notes,
	})
	return nil
}

// Remove drops the line item at the given position.
func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// ItemCount is the sum of all quantities, recomputed on demand.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, li := range c.items {
		count += li.Quantity
	}
	return count
}

// Total is the sum of price×quantity over all lines, using the resolved
// (option-aware) price. Callers needing a stable value across suspension
// points must snapshot via Items first.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0.0
	for _, li := range c.items {
		total += li.Subtotal()
	}
	return total
}

// Items returns a snapshot copy in insertion order.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Clear empties the cart. Called only after a confirmed submission or an
// explicit reset.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}
