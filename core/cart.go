package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/bikepoint/sprocket/internal/apiclient"
	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/session"
	"github.com/bikepoint/sprocket/schema"
)

// Basket reconciles the shopping cart across three sources of truth: the
// server-side cart (identified by an id persisted in the session store), a
// pending item staged in the session store before login, and the in-memory
// item list. All mutations for a basket are serialized through one mutex so
// the existence check and the add call for the same service cannot
// interleave.
//
// Failure semantics are best-effort throughout: server errors on mutations
// are logged and the local state is trusted over the unconfirmed server
// state. Nothing here blocks the user on consistency.
type Basket struct {
	sf *Storefront

	mu     sync.Mutex
	state  schema.CartState
	cartID int
	items  []schema.CartItem
	total  string
}

// NewBasket creates an empty basket bound to a storefront. Call Load to
// populate it from the session store and the server.
func NewBasket(sf *Storefront) *Basket {
	return &Basket{sf: sf, state: schema.NoCart}
}

// Load bootstraps the basket. If a cart id is stored, the server cart is
// fetched fresh; a 404 means the server no longer knows the cart, so the
// stale id is dropped, a reset event is published, and the flow starts over.
// Whatever the fetch produced, a staged pending item is then recovered into
// the list. Load never fails the caller; errors degrade to an empty or
// error-state basket.
func (b *Basket) Load(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = schema.CartLoading
	b.items = nil
	b.total = ""

	var fetchFailed bool
	if id, ok := b.storedCartID(); ok {
		b.cartID = id
		cart, err := b.fetchCart(ctx, id)
		switch {
		case err == nil:
			b.items = cart.Items
			b.total = cart.Total
		case isNotFound(err):
			b.sf.session.Delete(session.KeyCartID)
			b.cartID = 0
			contract.LogWarn("cart reset: server no longer knows this cart", err)
			b.sf.bus.Publish(contract.Event{Topic: schema.TopicCartReset})
		default:
			fetchFailed = true
			contract.LogWarn("failed to load cart", err)
		}
	}

	b.recoverPending(ctx)

	switch {
	case len(b.items) > 0:
		b.state = schema.CartLoaded
	case fetchFailed:
		b.state = schema.CartError
	default:
		b.state = schema.NoCart
	}
}

// AddService adds a repair service to the basket. Without a login the item
// is staged in the session store and displayed with id 0; with one, a server
// cart is ensured and the item added server-side, unless the service is
// already in the cart (duplicate adds are suppressed, not merged).
func (b *Basket) AddService(ctx context.Context, svc schema.Service, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.sf.LoggedIn() {
		pending := schema.PendingItem{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Price:       svc.Price,
			Quantity:    quantity,
		}
		if !b.sf.session.SetJSON(session.KeyPendingItem, pending) {
			return errors.New("failed to stage item in session storage")
		}
		if b.findByService(svc.ID) == nil {
			b.items = append(b.items, stagedItem(pending))
			b.total = ""
		}
		b.state = schema.CartLoaded
		b.publishUpdate()
		return nil
	}

	cartID, err := b.ensureCart(ctx)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	// Existence check right before the add. The basket mutex keeps two
	// rapid adds for the same service from interleaving here.
	if cart, err := b.fetchCart(ctx, cartID); err == nil {
		if findItem(cart.Items, svc.ID) != nil {
			b.items = cart.Items
			b.total = cart.Total
			b.state = schema.CartLoaded
			return nil
		}
	}

	if err := b.addItem(ctx, cartID, svc.ID, quantity); err != nil {
		return err
	}
	b.refresh(ctx, cartID)
	b.publishUpdate()
	return nil
}

// Remove deletes an item from the basket. Id 0 marks the staged local item:
// removal just clears the pending session key. For server items the local
// copy is removed first; a failed DELETE is logged, not restored.
func (b *Basket) Remove(ctx context.Context, itemID int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.findByID(itemID) == nil {
		return fmt.Errorf("no cart item with id %d", itemID)
	}
	b.removeLocal(itemID)
	b.total = ""

	if itemID == 0 {
		b.sf.session.Delete(session.KeyPendingItem)
	} else if err := b.sf.api.Delete(ctx, fmt.Sprintf("/repairing_service/cart/items/%d/", itemID)); err != nil {
		contract.LogWarn("failed to remove cart item server-side", err)
	}

	if len(b.items) == 0 {
		b.state = schema.NoCart
	}
	b.publishUpdate()
	return nil
}

// UpdateQuantity sets the quantity of an item. Quantities below 1 are a
// no-op. The local copy is updated first; for the staged item the pending
// session record is rewritten, for server items the server is updated and an
// update event is published regardless of the result.
func (b *Basket) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	if quantity < 1 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	item := b.findByID(itemID)
	if item == nil {
		return fmt.Errorf("no cart item with id %d", itemID)
	}
	item.Quantity = quantity
	b.total = ""

	if itemID == 0 {
		var pending schema.PendingItem
		if b.sf.session.GetJSON(session.KeyPendingItem, &pending) {
			pending.Quantity = quantity
			b.sf.session.SetJSON(session.KeyPendingItem, pending)
		}
	} else {
		payload := map[string]int{"item_id": itemID, "quantity": quantity}
		path := fmt.Sprintf("/repairing_service/cart/%d/update-item/", b.cartID)
		if err := b.sf.api.Post(ctx, path, payload, nil); err != nil {
			contract.LogWarn("failed to update cart item server-side", err)
		}
	}

	b.publishUpdate()
	return nil
}

// Clear empties the basket. The pending session key is always removed and
// the local state always cleared; a server cart, if one exists, gets a
// best-effort clear call. Confirmation is the caller's job.
func (b *Basket) Clear(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sf.session.Delete(session.KeyPendingItem)
	if b.cartID > 0 {
		if err := b.sf.api.Delete(ctx, fmt.Sprintf("/repairing_service/cart/%d/clear/", b.cartID)); err != nil {
			contract.LogWarn("failed to clear cart server-side", err)
		}
	}

	b.items = nil
	b.total = ""
	b.state = schema.NoCart
	b.publishUpdate()
}

// Checkout places an order for the current cart. Any staged item is synced
// to the server first so the order covers the whole basket. The completed
// order is recorded in the local history trail, cached cart responses are
// invalidated, and the cart id is dropped so the next add starts a new cart.
func (b *Basket) Checkout(ctx context.Context) (schema.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.sf.LoggedIn() {
		return schema.Order{}, ErrNotLoggedIn
	}

	var pending schema.PendingItem
	if b.sf.session.GetJSON(session.KeyPendingItem, &pending) {
		b.syncPending(ctx, pending)
	}
	if b.cartID == 0 || len(b.items) == 0 {
		return schema.Order{}, errors.New("cart is empty")
	}

	var order schema.Order
	path := fmt.Sprintf("/repairing_service/cart/%d/checkout/", b.cartID)
	if err := b.sf.api.Post(ctx, path, nil, &order); err != nil {
		return schema.Order{}, err
	}

	if b.sf.history != nil {
		if err := b.sf.history.RecordOrder(order); err != nil {
			contract.LogWarn("failed to record order locally", err)
		}
	}
	b.sf.api.ClearCache("/repairing_service/cart/")
	b.sf.session.Delete(session.KeyCartID)
	b.cartID = 0
	b.items = nil
	b.total = ""
	b.state = schema.NoCart
	b.publishUpdate()
	return order, nil
}

// State returns the current lifecycle state.
func (b *Basket) State() schema.CartState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// CartID returns the server cart id, or 0 when no server cart exists.
func (b *Basket) CartID() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cartID
}

// Items returns a snapshot of the displayed items.
func (b *Basket) Items() []schema.CartItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := make([]schema.CartItem, len(b.items))
	copy(items, b.items)
	return items
}

// Total returns the server-reported cart total. Local mutations drop the
// server figure, so after an update or remove the total is recomputed from
// the displayed items until the next server refresh.
func (b *Basket) Total() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.total != "" {
		return b.total
	}
	return schema.FormatPrice(schema.CartTotal(b.items))
}

// recoverPending folds a staged pending item into the basket. The item is
// appended locally with id 0 first; the server sync afterwards is
// best-effort and never reverts the optimistic append. Callers hold b.mu.
func (b *Basket) recoverPending(ctx context.Context) {
	var pending schema.PendingItem
	if !b.sf.session.GetJSON(session.KeyPendingItem, &pending) {
		return
	}
	if pending.Quantity < 1 {
		pending.Quantity = 1
	}
	if b.findByService(pending.ServiceID) != nil {
		// Already in the cart server-side; the staged copy is redundant.
		b.sf.session.Delete(session.KeyPendingItem)
		return
	}
	b.items = append(b.items, stagedItem(pending))
	b.total = ""
	b.syncPending(ctx, pending)
}

// syncPending pushes a staged item to the server: ensure a cart, check the
// service is not already in it, add, then swap the synthesized local item
// for the server copy. Failures are logged and leave the staged item in
// place for the next attempt. Requires a login; without one the item stays
// staged until the user authenticates. Callers hold b.mu.
func (b *Basket) syncPending(ctx context.Context, pending schema.PendingItem) {
	if !b.sf.LoggedIn() {
		return
	}

	cartID, err := b.ensureCart(ctx)
	if err != nil {
		contract.LogWarn("failed to create cart for staged item", err)
		return
	}

	if cart, err := b.fetchCart(ctx, cartID); err == nil {
		if findItem(cart.Items, pending.ServiceID) != nil {
			b.sf.session.Delete(session.KeyPendingItem)
			b.items = cart.Items
			b.total = cart.Total
			return
		}
	}

	if err := b.addItem(ctx, cartID, pending.ServiceID, pending.Quantity); err != nil {
		contract.LogWarn("failed to sync staged item", err)
		return
	}
	b.sf.session.Delete(session.KeyPendingItem)
	b.refresh(ctx, cartID)
}

// ensureCart returns the server cart id, creating a cart when neither the
// basket nor the session store has one. Callers hold b.mu.
func (b *Basket) ensureCart(ctx context.Context) (int, error) {
	if b.cartID > 0 {
		return b.cartID, nil
	}
	if id, ok := b.storedCartID(); ok {
		b.cartID = id
		return id, nil
	}

	var cart schema.Cart
	if err := b.sf.api.Post(ctx, "/repairing_service/cart/create/", nil, &cart); err != nil {
		return 0, err
	}
	b.cartID = cart.ID
	b.sf.session.Set(session.KeyCartID, []byte(strconv.Itoa(cart.ID)))
	return cart.ID, nil
}

// fetchCart reads the server cart fresh, bypassing caches, under the
// tighter cart-flow timeout.
func (b *Basket) fetchCart(ctx context.Context, cartID int) (schema.Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, b.sf.cfg.CartTimeout)
	defer cancel()

	var cart schema.Cart
	err := b.sf.api.GetFresh(ctx, fmt.Sprintf("/repairing_service/cart/%d/", cartID), &cart)
	return cart, err
}

func (b *Basket) addItem(ctx context.Context, cartID, serviceID, quantity int) error {
	payload := map[string]int{"service_id": serviceID, "quantity": quantity}
	return b.sf.api.Post(ctx, fmt.Sprintf("/repairing_service/cart/%d/add/", cartID), payload, nil)
}

// refresh replaces the local items with the server cart. A failed read
// keeps whatever is displayed. Callers hold b.mu.
func (b *Basket) refresh(ctx context.Context, cartID int) {
	cart, err := b.fetchCart(ctx, cartID)
	if err != nil {
		contract.LogWarn("failed to refresh cart", err)
		return
	}
	b.items = cart.Items
	b.total = cart.Total
	b.state = schema.CartLoaded
}

func (b *Basket) storedCartID() (int, bool) {
	raw := b.sf.session.Get(session.KeyCartID)
	if len(raw) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(string(raw))
	if err != nil || id <= 0 {
		b.sf.session.Delete(session.KeyCartID)
		return 0, false
	}
	return id, true
}

func (b *Basket) findByService(serviceID int) *schema.CartItem {
	return findItem(b.items, serviceID)
}

func (b *Basket) findByID(itemID int) *schema.CartItem {
	for i := range b.items {
		if b.items[i].ID == itemID {
			return &b.items[i]
		}
	}
	return nil
}

func (b *Basket) removeLocal(itemID int) {
	for i := range b.items {
		if b.items[i].ID == itemID {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return
		}
	}
}

func (b *Basket) publishUpdate() {
	snapshot := make([]schema.CartItem, len(b.items))
	copy(snapshot, b.items)
	b.sf.bus.Publish(contract.Event{Topic: schema.TopicCartUpdated, Payload: snapshot})
}

func findItem(items []schema.CartItem, serviceID int) *schema.CartItem {
	for i := range items {
		if items[i].ServiceID == serviceID {
			return &items[i]
		}
	}
	return nil
}

func stagedItem(pending schema.PendingItem) schema.CartItem {
	return schema.CartItem{
		ID:          0,
		ServiceID:   pending.ServiceID,
		ServiceName: pending.ServiceName,
		Quantity:    pending.Quantity,
		UnitPrice:   pending.Price,
	}
}

func isNotFound(err error) bool {
	var apiErr *apiclient.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
