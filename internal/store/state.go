// ABOUTME: Application state for the shopping view
// ABOUTME: Catalog view, highlight, cart and checkout flag
package store

import "github.com/harperreed/voicecart/internal/catalog"

// CartItem is one cart line. Quantity is always at least 1.
type CartItem struct {
	Product  catalog.Product
	Quantity int
}

// State is a snapshot of the application state. Empty HighlightedID and
// FilterCriteria mean none.
type State struct {
	Products       []catalog.Product
	Filtered       []catalog.Product
	HighlightedID  string
	HighlightGen   uint64
	Cart           []CartItem
	IsCheckout     bool
	FilterCriteria string
}

// NewState returns the initial state showing the whole catalog
func NewState(products []catalog.Product) State {
	return State{
		Products: cloneProducts(products),
		Filtered: cloneProducts(products),
	}
}

// CartTotal sums price times quantity over the cart
func (s State) CartTotal() float64 {
	total := 0.0
	for _, item := range s.Cart {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// CartCount is the number of units in the cart
func (s State) CartCount() int {
	n := 0
	for _, item := range s.Cart {
		n += item.Quantity
	}
	return n
}

// Highlighted returns the highlighted product if it is in the catalog
func (s State) Highlighted() (catalog.Product, bool) {
	if s.HighlightedID == "" {
		return catalog.Product{}, false
	}
	for _, p := range s.Products {
		if p.ID == s.HighlightedID {
			return p, true
		}
	}
	return catalog.Product{}, false
}

func cloneProducts(in []catalog.Product) []catalog.Product {
	if in == nil {
		return nil
	}
	out := make([]catalog.Product, len(in))
	copy(out, in)
	return out
}

func cloneCart(in []CartItem) []CartItem {
	if in == nil {
		return nil
	}
	out := make([]CartItem, len(in))
	copy(out, in)
	return out
}
