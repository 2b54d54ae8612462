package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/history"
	"github.com/bikepoint/sprocket/internal/session"
	"github.com/bikepoint/sprocket/schema"
)

func TestBasketPendingItemBeforeLogin(t *testing.T) {
	api := newFakeAPI()
	sf, store := newTestStorefront(t, api)
	stagePending(store, 42, "Basic Service", "₹999", 1)

	basket := NewBasket(sf)
	basket.Load(context.Background())

	items := basket.Items()
	require.Len(t, items, 1, "Staged item must be displayed")
	assert.Equal(t, 0, items[0].ID, "Staged item carries the local id marker")
	assert.Equal(t, "Basic Service", items[0].ServiceName)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, schema.CartLoaded, basket.State())

	// Without a login, nothing reaches the server.
	assert.Zero(t, api.cartCount(), "No server cart should be created before login")
	var pending schema.PendingItem
	assert.True(t, store.GetJSON(session.KeyPendingItem, &pending), "Staged item stays in session storage")
}

func TestBasketCartNotFoundRecovery(t *testing.T) {
	t.Run("with pending item", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		seedCartID(store, 999) // server never heard of this cart
		stagePending(store, 42, "Basic Service", "₹999", 1)

		resets := 0
		sf.Bus().Subscribe(schema.TopicCartReset, func(contract.Event) { resets++ })

		basket := NewBasket(sf)
		basket.Load(context.Background())

		assert.Nil(t, store.Get(session.KeyCartID), "Stale cart id must be dropped")
		assert.Equal(t, 1, resets, "Cart reset must be announced")

		items := basket.Items()
		require.Len(t, items, 1, "Recovery falls back to the staged item")
		assert.Equal(t, 0, items[0].ID)
		assert.Equal(t, schema.CartLoaded, basket.State())
	})

	t.Run("without pending item", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		seedCartID(store, 999)

		basket := NewBasket(sf)
		basket.Load(context.Background())

		assert.Nil(t, store.Get(session.KeyCartID))
		assert.Empty(t, basket.Items())
		assert.Equal(t, schema.NoCart, basket.State())
	})
}

func TestBasketLoadExistingCart(t *testing.T) {
	api := newFakeAPI()
	sf, store := newTestStorefront(t, api)
	cartID := api.seedCart(schema.CartItem{ID: 1001, ServiceID: 43, ServiceName: "Brake Overhaul", Quantity: 2, UnitPrice: "₹1,499"})
	seedCartID(store, cartID)

	basket := NewBasket(sf)
	basket.Load(context.Background())

	require.Len(t, basket.Items(), 1)
	assert.Equal(t, schema.CartLoaded, basket.State())
	assert.Equal(t, cartID, basket.CartID())
	assert.Equal(t, "₹2998", basket.Total())
}

func TestBasketDuplicateSuppression(t *testing.T) {
	api := newFakeAPI()
	sf, store := newTestStorefront(t, api)
	login(store)

	basket := NewBasket(sf)
	basket.Load(context.Background())

	svc := schema.Service{ID: 42, Name: "Basic Service", Price: "₹999"}
	require.NoError(t, basket.AddService(context.Background(), svc, 1))
	require.NoError(t, basket.AddService(context.Background(), svc, 1))

	serverItems := api.cartItems(basket.CartID())
	require.Len(t, serverItems, 1, "Second add for the same service must be suppressed")
	assert.Equal(t, 42, serverItems[0].ServiceID)
	assert.Equal(t, 1, serverItems[0].Quantity, "Suppression does not merge quantities")
	require.Len(t, basket.Items(), 1)
}

func TestBasketStagedItemSyncsAfterLogin(t *testing.T) {
	api := newFakeAPI()
	sf, store := newTestStorefront(t, api)
	stagePending(store, 42, "Basic Service", "₹999", 1)
	login(store)

	basket := NewBasket(sf)
	basket.Load(context.Background())

	items := basket.Items()
	require.Len(t, items, 1)
	assert.Positive(t, items[0].ID, "Synced item carries a server id")
	assert.Equal(t, 42, items[0].ServiceID)

	var pending schema.PendingItem
	assert.False(t, store.GetJSON(session.KeyPendingItem, &pending), "Staged item is consumed once synced")
	assert.NotNil(t, store.Get(session.KeyCartID), "Created cart id is persisted")
}

func TestBasketRemove(t *testing.T) {
	t.Run("staged item clears pending key only", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		stagePending(store, 42, "Basic Service", "₹999", 1)

		basket := NewBasket(sf)
		basket.Load(context.Background())
		require.Len(t, basket.Items(), 1)

		require.NoError(t, basket.Remove(context.Background(), 0))
		assert.Empty(t, basket.Items())
		var pending schema.PendingItem
		assert.False(t, store.GetJSON(session.KeyPendingItem, &pending))
		assert.Zero(t, api.cartCount(), "No server call for a staged removal")
	})

	t.Run("server item issues delete", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		cartID := api.seedCart(schema.CartItem{ID: 1001, ServiceID: 42, ServiceName: "Basic Service", Quantity: 1, UnitPrice: "₹999"})
		seedCartID(store, cartID)

		basket := NewBasket(sf)
		basket.Load(context.Background())

		require.NoError(t, basket.Remove(context.Background(), 1001))
		assert.Empty(t, basket.Items())
		assert.Empty(t, api.cartItems(cartID), "Item must be deleted server-side")
	})

	t.Run("unknown item is an error", func(t *testing.T) {
		api := newFakeAPI()
		sf, _ := newTestStorefront(t, api)
		basket := NewBasket(sf)
		basket.Load(context.Background())
		assert.Error(t, basket.Remove(context.Background(), 77))
	})
}

func TestBasketQuantityFloor(t *testing.T) {
	api := newFakeAPI()
	sf, store := newTestStorefront(t, api)
	cartID := api.seedCart(schema.CartItem{ID: 1001, ServiceID: 42, ServiceName: "Basic Service", Quantity: 3, UnitPrice: "₹999"})
	seedCartID(store, cartID)

	basket := NewBasket(sf)
	basket.Load(context.Background())

	for _, quantity := range []int{0, -1} {
		require.NoError(t, basket.UpdateQuantity(context.Background(), 1001, quantity))
		assert.Equal(t, 3, basket.Items()[0].Quantity, "Quantity below 1 must be a no-op")
		assert.Equal(t, 3, api.cartItems(cartID)[0].Quantity)
	}
}

func TestBasketUpdateQuantity(t *testing.T) {
	t.Run("server item", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		cartID := api.seedCart(schema.CartItem{ID: 1001, ServiceID: 42, ServiceName: "Basic Service", Quantity: 1, UnitPrice: "₹999"})
		seedCartID(store, cartID)

		basket := NewBasket(sf)
		basket.Load(context.Background())

		updates := 0
		sf.Bus().Subscribe(schema.TopicCartUpdated, func(e contract.Event) {
			updates++
			items, ok := e.Payload.([]schema.CartItem)
			require.True(t, ok, "Cart update events carry an item snapshot")
			require.Len(t, items, 1)
			assert.Equal(t, 2, items[0].Quantity)
		})

		require.NoError(t, basket.UpdateQuantity(context.Background(), 1001, 2))
		assert.Equal(t, 2, api.cartItems(cartID)[0].Quantity, "Quantity change must reach the server")
		assert.Equal(t, 1, updates, "Other components are signalled via the bus")
	})

	t.Run("staged item rewrites pending record", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		stagePending(store, 42, "Basic Service", "₹999", 1)

		basket := NewBasket(sf)
		basket.Load(context.Background())

		require.NoError(t, basket.UpdateQuantity(context.Background(), 0, 4))
		assert.Equal(t, 4, basket.Items()[0].Quantity)

		var pending schema.PendingItem
		require.True(t, store.GetJSON(session.KeyPendingItem, &pending))
		assert.Equal(t, 4, pending.Quantity)
	})
}

func TestBasketClear(t *testing.T) {
	api := newFakeAPI()
	sf, store := newTestStorefront(t, api)
	cartID := api.seedCart(schema.CartItem{ID: 1001, ServiceID: 42, ServiceName: "Basic Service", Quantity: 1, UnitPrice: "₹999"})
	seedCartID(store, cartID)
	stagePending(store, 43, "Brake Overhaul", "₹1,499", 1)
	login(store)

	basket := NewBasket(sf)
	basket.Load(context.Background())

	basket.Clear(context.Background())
	assert.Empty(t, basket.Items())
	assert.Equal(t, schema.NoCart, basket.State(), "An emptied basket reads as no cart, matching Load")
	assert.Empty(t, api.cartItems(cartID), "Server cart must be emptied")
	var pending schema.PendingItem
	assert.False(t, store.GetJSON(session.KeyPendingItem, &pending))
}

func TestBasketTotalTracksLocalMutations(t *testing.T) {
	api := newFakeAPI()
	sf, store := newTestStorefront(t, api)
	cartID := api.seedCart(schema.CartItem{ID: 1001, ServiceID: 42, ServiceName: "Basic Service", Quantity: 1, UnitPrice: "₹999"})
	seedCartID(store, cartID)

	basket := NewBasket(sf)
	basket.Load(context.Background())
	require.Equal(t, "₹999", basket.Total())

	// The server-reported figure must not survive a quantity change.
	require.NoError(t, basket.UpdateQuantity(context.Background(), 1001, 3))
	assert.Equal(t, "₹2997", basket.Total())

	require.NoError(t, basket.Remove(context.Background(), 1001))
	assert.Equal(t, "₹0", basket.Total())
}

func TestBasketCheckout(t *testing.T) {
	t.Run("requires login", func(t *testing.T) {
		api := newFakeAPI()
		sf, _ := newTestStorefront(t, api)
		basket := NewBasket(sf)
		basket.Load(context.Background())
		_, err := basket.Checkout(context.Background())
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("empty cart is an error", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		login(store)
		basket := NewBasket(sf)
		basket.Load(context.Background())
		_, err := basket.Checkout(context.Background())
		assert.Error(t, err)
	})

	t.Run("places order and resets", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		login(store)

		recorder := &history.MockHistoryStore{}
		recorder.On("RecordOrder", mock.AnythingOfType("schema.Order")).Return(nil)
		sf.history = recorder

		basket := NewBasket(sf)
		basket.Load(context.Background())
		require.NoError(t, basket.AddService(context.Background(), schema.Service{ID: 42, Name: "Basic Service", Price: "₹999"}, 2))

		cartID := basket.CartID()
		order, err := basket.Checkout(context.Background())
		require.NoError(t, err)
		assert.Equal(t, cartID, order.CartID)
		assert.Equal(t, 1, order.ItemCount)
		assert.Equal(t, "₹1998", order.Total)

		assert.Zero(t, basket.CartID(), "Checkout consumes the cart")
		assert.Nil(t, store.Get(session.KeyCartID))
		assert.Empty(t, basket.Items())
		assert.Equal(t, schema.NoCart, basket.State())
		recorder.AssertCalled(t, "RecordOrder", order)
	})

	t.Run("staged item is synced before checkout", func(t *testing.T) {
		api := newFakeAPI()
		sf, store := newTestStorefront(t, api)
		stagePending(store, 42, "Basic Service", "₹999", 1)
		login(store)

		basket := NewBasket(sf)
		basket.Load(context.Background())

		order, err := basket.Checkout(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, order.ItemCount, "Checkout covers the staged item")
	})
}
