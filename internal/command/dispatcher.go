// ABOUTME: Command dispatcher for assistant tool calls
// ABOUTME: Maps update_ui arguments to store transitions and acknowledgements
package command

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/voicecart/internal/catalog"
	"github.com/harperreed/voicecart/internal/store"
	"github.com/harperreed/voicecart/pkg/protocol"
)

const defaultHighlightDelay = 5 * time.Second

var (
	// ErrUnresolvedReference is returned when ADD_TO_CART names no product
	ErrUnresolvedReference = errors.New("unresolved product reference")

	// ErrUnknownAction is returned for actions outside the dispatch table
	ErrUnknownAction = errors.New("unknown action")
)

// Catalog provides the ordered product list
type Catalog interface {
	Products() []catalog.Product
}

// Notifier receives best-effort acknowledgements for display
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(message string)

// Notify calls f
func (f NotifierFunc) Notify(message string) {
	f(message)
}

// Config holds dispatcher configuration
type Config struct {
	HighlightDelay time.Duration

	// OnDispatch is called with each action name and whether it applied
	OnDispatch func(action string, err error)
}

// Dispatcher applies tool calls to a store
type Dispatcher struct {
	store    *store.Store
	catalog  Catalog
	notifier Notifier
	config   Config

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
	closed bool
}

// New creates a dispatcher. notifier may be nil.
func New(s *store.Store, c Catalog, notifier Notifier, config Config) *Dispatcher {
	if config.HighlightDelay <= 0 {
		config.HighlightDelay = defaultHighlightDelay
	}
	return &Dispatcher{
		store:    s,
		catalog:  c,
		notifier: notifier,
		config:   config,
		timers:   make(map[*time.Timer]struct{}),
	}
}

// Dispatch applies exactly one transition for args
func (d *Dispatcher) Dispatch(args protocol.ToolCallArgs) error {
	err := d.dispatch(args)
	if d.config.OnDispatch != nil {
		d.config.OnDispatch(args.Action, err)
	}
	return err
}

func (d *Dispatcher) dispatch(args protocol.ToolCallArgs) error {
	switch args.Action {
	case protocol.ActionFilter:
		d.store.Dispatch(store.FilterProducts{Criteria: args.Target})
		d.notify(fmt.Sprintf("Filtering: %s", args.Target))

	case protocol.ActionHighlight:
		state := d.store.Dispatch(store.HighlightProduct{ID: args.Target})
		d.scheduleClear(state.HighlightGen)
		d.notify(fmt.Sprintf("Highlighting: %s", args.Target))

	case protocol.ActionAddToCart:
		product, ok := Resolve(d.catalog.Products(), args.Target)
		if !ok {
			log.Printf("No product matches %q", args.Target)
			return fmt.Errorf("%w: %q", ErrUnresolvedReference, args.Target)
		}
		d.store.Dispatch(store.AddToCart{Product: product})
		d.notify(fmt.Sprintf("Added to Cart: %s", product.Name))

	case protocol.ActionNavigate:
		if strings.Contains(strings.ToLower(args.Target), "checkout") {
			d.store.Dispatch(store.NavigateCheckout{})
			d.notify("Navigating to Checkout")
		} else {
			d.store.Dispatch(store.ResetView{})
			d.notify("Resetting View")
		}

	default:
		log.Printf("Warning: unknown action %q (target=%q)", args.Action, args.Target)
		return fmt.Errorf("%w: %q", ErrUnknownAction, args.Action)
	}

	return nil
}

// Resolve finds the product for target: an exact id match, else the first
// product in catalog order whose name contains target. The name match is
// case-sensitive, so an empty target resolves to the first product.
func Resolve(products []catalog.Product, target string) (catalog.Product, bool) {
	for _, p := range products {
		if p.ID == target {
			return p, true
		}
	}
	for _, p := range products {
		if strings.Contains(p.Name, target) {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// scheduleClear clears the highlight after the delay if gen is still current
func (d *Dispatcher) scheduleClear(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(d.config.HighlightDelay, func() {
		d.mu.Lock()
		_, live := d.timers[timer]
		delete(d.timers, timer)
		d.mu.Unlock()

		if live {
			d.store.Dispatch(store.ClearHighlight{Gen: gen})
		}
	})
	d.timers[timer] = struct{}{}
}

// Cancel stops pending highlight clears. The dispatcher stays usable.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for timer := range d.timers {
		timer.Stop()
		delete(d.timers, timer)
	}
}

// Pending returns the number of scheduled highlight clears
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Close stops pending timers and rejects new ones
func (d *Dispatcher) Close() {
	d.Cancel()

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
}

func (d *Dispatcher) notify(message string) {
	if d.notifier != nil {
		d.notifier.Notify(message)
	}
}
