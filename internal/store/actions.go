// ABOUTME: State transition actions
// ABOUTME: One type per transition the reducer understands
package store

import "github.com/harperreed/voicecart/internal/catalog"

// Action is a state transition request
type Action interface {
	isAction()
}

// FilterProducts applies a raw filter criteria string
type FilterProducts struct {
	Criteria string
}

// HighlightProduct highlights a product id and starts a new generation
type HighlightProduct struct {
	ID string
}

// ClearHighlight clears the highlight if Gen is still current
type ClearHighlight struct {
	Gen uint64
}

// AddToCart adds one unit of a product
type AddToCart struct {
	Product catalog.Product
}

// NavigateCheckout opens the checkout view
type NavigateCheckout struct{}

// NavigateHome leaves the checkout view
type NavigateHome struct{}

// ResetView leaves checkout and clears the filter in one step
type ResetView struct{}

func (FilterProducts) isAction()   {}
func (HighlightProduct) isAction() {}
func (ClearHighlight) isAction()   {}
func (AddToCart) isAction()        {}
func (NavigateCheckout) isAction() {}
func (NavigateHome) isAction()     {}
func (ResetView) isAction()        {}
