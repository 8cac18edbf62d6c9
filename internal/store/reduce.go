// ABOUTME: Pure state reducer
// ABOUTME: Applies one action to a state and returns the new state
package store

import "log"

// Reduce applies action to state. It never mutates the input; slices in
// the result are fresh copies whenever they change.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case FilterProducts:
		state.Filtered, state.FilterCriteria = Filter(state.Products, a.Criteria)

	case HighlightProduct:
		state.HighlightedID = a.ID
		state.HighlightGen++

	case ClearHighlight:
		if a.Gen == state.HighlightGen {
			state.HighlightedID = ""
		}

	case AddToCart:
		state.Cart = addToCart(state.Cart, a)

	case NavigateCheckout:
		state.IsCheckout = true

	case NavigateHome:
		state.IsCheckout = false

	case ResetView:
		state.IsCheckout = false
		state.Filtered, state.FilterCriteria = Filter(state.Products, "")

	default:
		log.Printf("Ignoring unknown store action %T", action)
	}

	return state
}

func addToCart(cart []CartItem, a AddToCart) []CartItem {
	out := cloneCart(cart)
	for i := range out {
		if out[i].Product.ID == a.Product.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, CartItem{Product: a.Product, Quantity: 1})
}
