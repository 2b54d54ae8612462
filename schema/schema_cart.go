package schema

// CartItem is a single line in a cart. An ID of zero marks an item that was
// staged locally (before login or cart creation) and has not been persisted
// server-side yet; server-assigned IDs are always positive.
type CartItem struct {
	ID          int    `json:"id"`
	ServiceID   int    `json:"service_id"`
	ServiceName string `json:"service_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"price"`
}

// Staged reports whether the item exists only in local session storage.
func (ci CartItem) Staged() bool {
	return ci.ID == 0
}

// Cart is the server-tracked collection of selected repair services.
type Cart struct {
	ID    int        `json:"id"`
	Items []CartItem `json:"items"`
	Total string     `json:"total"`
}

// PendingItem is a cart item selected before authentication existed or a
// server cart was created. It lives only in session storage until the cart
// flow manages to sync it to the server.
type PendingItem struct {
	ServiceID   int    `json:"id"`
	ServiceName string `json:"name"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
}
