package core

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bikepoint/sprocket/internal/apiclient"
	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/session"
	"github.com/bikepoint/sprocket/schema"
)

// fakeAPI is an in-memory storefront backend. It implements the routes the
// cart flow and the typed API surface depend on, tracks per-route call
// counts, and hands out server-assigned ids the way the real API does.
type fakeAPI struct {
	mu          sync.Mutex
	nextCartID  int
	nextItemID  int
	nextOrder   int
	nextBooking int
	carts       map[int][]schema.CartItem
	services    map[int]schema.Service
	calls       map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		nextCartID: 100,
		nextItemID: 1000,
		nextOrder:  500,
		carts:      make(map[int][]schema.CartItem),
		services: map[int]schema.Service{
			42: {ID: 42, Name: "Basic Service", Price: "₹999", Category: "maintenance"},
			43: {ID: 43, Name: "Brake Overhaul", Price: "₹1,499", Category: "brakes"},
		},
		calls: make(map[string]int),
	}
}

var (
	cartPathRe = regexp.MustCompile(`^/api/repairing_service/cart/(\d+)/$`)
	cartOpRe   = regexp.MustCompile(`^/api/repairing_service/cart/(\d+)/(add|update-item|clear|checkout)/$`)
	itemPathRe = regexp.MustCompile(`^/api/repairing_service/cart/items/(\d+)/$`)
)

func (f *fakeAPI) Do(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := req.URL.Path
	f.calls[req.Method+" "+path]++

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
	}

	switch {
	case req.Method == http.MethodPost && path == "/api/auth/login/":
		return jsonResponse(http.StatusOK, `{"token":"opaque-session-token"}`), nil

	case req.Method == http.MethodGet && path == "/api/repairing_service/services/":
		return f.encode(http.StatusOK, f.serviceList())

	case req.Method == http.MethodPost && path == "/api/repairing_service/bookings/create/":
		var payload struct {
			ServiceID   int    `json:"service_id"`
			ScheduledAt string `json:"scheduled_at"`
		}
		_ = json.Unmarshal(body, &payload)
		svc, ok := f.services[payload.ServiceID]
		if !ok {
			return jsonResponse(http.StatusBadRequest, `{"detail":"Unknown service."}`), nil
		}
		when, _ := time.Parse(time.RFC3339, payload.ScheduledAt)
		f.nextBooking++
		return f.encode(http.StatusOK, schema.Booking{
			ID:          f.nextBooking,
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			ScheduledAt: when,
			Status:      "confirmed",
			Price:       svc.Price,
		})

	case req.Method == http.MethodPost && path == "/api/repairing_service/cart/create/":
		f.nextCartID++
		id := f.nextCartID
		f.carts[id] = []schema.CartItem{}
		return f.encode(http.StatusOK, schema.Cart{ID: id, Items: []schema.CartItem{}, Total: "₹0"})

	case req.Method == http.MethodGet && cartPathRe.MatchString(path):
		id, _ := strconv.Atoi(cartPathRe.FindStringSubmatch(path)[1])
		items, ok := f.carts[id]
		if !ok {
			return jsonResponse(http.StatusNotFound, `{"detail":"Cart not found."}`), nil
		}
		return f.encode(http.StatusOK, f.cart(id, items))

	case cartOpRe.MatchString(path):
		m := cartOpRe.FindStringSubmatch(path)
		id, _ := strconv.Atoi(m[1])
		if _, ok := f.carts[id]; !ok {
			return jsonResponse(http.StatusNotFound, `{"detail":"Cart not found."}`), nil
		}
		return f.cartOp(req.Method, id, m[2], body)

	case req.Method == http.MethodDelete && itemPathRe.MatchString(path):
		itemID, _ := strconv.Atoi(itemPathRe.FindStringSubmatch(path)[1])
		for cartID, items := range f.carts {
			for i := range items {
				if items[i].ID == itemID {
					f.carts[cartID] = append(items[:i], items[i+1:]...)
					return jsonResponse(http.StatusOK, `{}`), nil
				}
			}
		}
		return jsonResponse(http.StatusNotFound, `{"detail":"Item not found."}`), nil
	}
	return jsonResponse(http.StatusNotFound, `{"detail":"No such route."}`), nil
}

func (f *fakeAPI) cartOp(method string, cartID int, op string, body []byte) (*http.Response, error) {
	switch op {
	case "add":
		if method != http.MethodPost {
			break
		}
		var payload struct {
			ServiceID int `json:"service_id"`
			Quantity  int `json:"quantity"`
		}
		_ = json.Unmarshal(body, &payload)
		svc, ok := f.services[payload.ServiceID]
		if !ok {
			return jsonResponse(http.StatusBadRequest, `{"detail":"Unknown service."}`), nil
		}
		f.nextItemID++
		f.carts[cartID] = append(f.carts[cartID], schema.CartItem{
			ID:          f.nextItemID,
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Quantity:    payload.Quantity,
			UnitPrice:   svc.Price,
		})
		return jsonResponse(http.StatusOK, `{}`), nil

	case "update-item":
		if method != http.MethodPost {
			break
		}
		var payload struct {
			ItemID   int `json:"item_id"`
			Quantity int `json:"quantity"`
		}
		_ = json.Unmarshal(body, &payload)
		items := f.carts[cartID]
		for i := range items {
			if items[i].ID == payload.ItemID {
				items[i].Quantity = payload.Quantity
				return jsonResponse(http.StatusOK, `{}`), nil
			}
		}
		return jsonResponse(http.StatusNotFound, `{"detail":"Item not found."}`), nil

	case "clear":
		if method != http.MethodDelete {
			break
		}
		f.carts[cartID] = []schema.CartItem{}
		return jsonResponse(http.StatusOK, `{}`), nil

	case "checkout":
		if method != http.MethodPost {
			break
		}
		items := f.carts[cartID]
		if len(items) == 0 {
			return jsonResponse(http.StatusBadRequest, `{"detail":"Cart is empty."}`), nil
		}
		f.nextOrder++
		order := schema.Order{
			ID:        f.nextOrder,
			CartID:    cartID,
			Total:     schema.FormatPrice(schema.CartTotal(items)),
			ItemCount: len(items),
			PlacedAt:  time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC),
		}
		delete(f.carts, cartID)
		return f.encode(http.StatusOK, order)
	}
	return jsonResponse(http.StatusMethodNotAllowed, `{"detail":"Method not allowed."}`), nil
}

func (f *fakeAPI) encode(status int, v any) (*http.Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jsonResponse(status, string(data)), nil
}

func (f *fakeAPI) cart(id int, items []schema.CartItem) schema.Cart {
	return schema.Cart{ID: id, Items: items, Total: schema.FormatPrice(schema.CartTotal(items))}
}

func (f *fakeAPI) serviceList() []schema.Service {
	list := make([]schema.Service, 0, len(f.services))
	for _, svc := range f.services {
		list = append(list, svc)
	}
	return list
}

// cartItems returns a snapshot of a server cart's items.
func (f *fakeAPI) cartItems(cartID int) []schema.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]schema.CartItem, len(f.carts[cartID]))
	copy(items, f.carts[cartID])
	return items
}

// cartCount returns the number of server-side carts.
func (f *fakeAPI) cartCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.carts)
}

func (f *fakeAPI) callCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

// seedCart installs a server cart with the given items and returns its id.
func (f *fakeAPI) seedCart(items ...schema.CartItem) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCartID++
	f.carts[f.nextCartID] = items
	return f.nextCartID
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		APIBaseURL:     "http://api.test/api",
		MediaBaseURL:   contract.DefaultMediaBaseURL,
		CacheTTL:       contract.DefaultCacheTTL,
		RequestTimeout: contract.DefaultRequestTimeout,
		CartTimeout:    contract.DefaultCartTimeout,
		MaxRetries:     0,
	}
}

// newTestStorefront wires a storefront against the fake backend with a real
// bolt-backed session store. The history store is nil unless a test installs
// one on the returned storefront.
func newTestStorefront(t *testing.T, api *fakeAPI) (*Storefront, contract.SessionStore) {
	t.Helper()
	cfg := testConfig()
	store := session.Open(filepath.Join(t.TempDir(), "session.db"), 0)
	t.Cleanup(func() { _ = store.Close() })
	client := apiclient.New(cfg, api, store, nil)
	return NewStorefront(cfg, client, store, contract.NewBus(), nil), store
}

func login(store contract.SessionStore) {
	store.Set(session.KeyAuthToken, []byte("opaque-session-token"))
}

func stagePending(store contract.SessionStore, serviceID int, name, price string, quantity int) {
	store.SetJSON(session.KeyPendingItem, schema.PendingItem{
		ServiceID:   serviceID,
		ServiceName: name,
		Price:       price,
		Quantity:    quantity,
	})
}

func seedCartID(store contract.SessionStore, id int) {
	store.Set(session.KeyCartID, []byte(fmt.Sprint(id)))
}
