// Package menu holds the weekly catalog. Items are immutable data the rest
// of the system consumes; the cart never mutates them.
package menu

import "fmt"

type Option struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Available   bool     `json:"available"`
	HasOptions  bool     `json:"hasOptions,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// BulkOptionName is the one catalog entry sold by the dozen; it carries a
// higher minimum quantity than everything else.
const BulkOptionName = "Hallaca x Decena"

const (
	minQuantityDefault = 1
	minQuantityBulk    = 10
	maxQuantity        = 99
)

// Resolve folds a chosen option into its parent item: distinct id, the
// option's name and price, and the option's description when it has one.
// The resolved item has no further options.
func Resolve(item Item, opt Option) Item {
	desc := opt.Description
	if desc == "" {
		desc = item.Description
	}
	return Item{
		ID:          fmt.Sprintf("%s-%s", item.ID, opt.ID),
		Name:        opt.Name,
		Description: desc,
		Price:       opt.Price,
		Category:    item.Category,
		Available:   item.Available,
	}
}

// MinQuantity is 10 for the bulk item and 1 for everything else.
func MinQuantity(item Item) int {
	if item.Name == BulkOptionName {
		return minQuantityBulk
	}
	return minQuantityDefault
}

// ClampQuantity forces q into [MinQuantity(item), 99].
func ClampQuantity(item Item, q int) int {
	if min := MinQuantity(item); q < min {
		return min
	}
	if q > maxQuantity {
		return maxQuantity
	}
	return q
}
