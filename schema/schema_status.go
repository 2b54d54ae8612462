package schema

import "time"

// NetworkStatus is the cached connectivity state maintained by the network
// monitor. It is mutated only by the monitor; everyone else reads a copy.
type NetworkStatus struct {
	Online       bool          `json:"online"`
	LastChecked  time.Time     `json:"last_checked"`
	Endpoint     string        `json:"endpoint"`
	ResponseTime time.Duration `json:"response_time"`
}

// CacheStatus represents the status of the durable response cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// SessionStatus represents the status of the local session store.
type SessionStatus struct {
	Path        string    `json:"path"`
	Available   bool      `json:"available"`
	TotalKeys   int       `json:"total_keys"`
	TotalBytes  int64     `json:"total_bytes"`
	OldestEntry time.Time `json:"oldest_entry"`
}

// HistoryStatus represents the status of the local order history store.
type HistoryStatus struct {
	Backend       string    `json:"backend"`
	Connected     bool      `json:"connected"`
	TotalOrders   int       `json:"total_orders"`
	TotalBookings int       `json:"total_bookings"`
	LastOrderTime time.Time `json:"last_order_time"`
}

// OrderRecord is a row from the local order history table.
type OrderRecord struct {
	OrderID   int64
	CartID    int64
	Total     string
	ItemCount int32
	PlacedAt  time.Time
}

// BookingRecord is a row from the local booking history table.
type BookingRecord struct {
	BookingID   int64
	ServiceID   int64
	ServiceName string
	ScheduledAt time.Time
	Status      string
	Price       string
}
