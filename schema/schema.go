// Package schema holds the shared types and constants exchanged between the
// BikePoint API client, the cart flow, and the output layer.
package schema

import "time"

// Service represents a repair service offered by the storefront.
type Service struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	DurationMin int    `json:"duration_minutes"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
}

// VehicleImages is the structured image block attached to marketplace records.
type VehicleImages struct {
	Main      string   `json:"main"`
	Thumbnail string   `json:"thumbnail"`
	Gallery   []string `json:"gallery"`
}

// Vehicle represents a used vehicle listed on the marketplace.
type Vehicle struct {
	ID       int    `json:"id"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Year     int    `json:"year"`
	Price    string `json:"price"`
	KmDriven int    `json:"km_driven"`
	FuelType string `json:"fuel_type"`
	Location string `json:"location"`
	Seller   string `json:"seller"`

	// Image fields, any subset of which may be present on a record.
	ImageURL string         `json:"image_url"`
	Images   *VehicleImages `json:"images"`
	Photo    string         `json:"photo"` // legacy single-photo field
}

// Booking represents a scheduled repair service appointment.
type Booking struct {
	ID          int       `json:"id"`
	ServiceID   int       `json:"service_id"`
	ServiceName string    `json:"service_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	Price       string    `json:"price"`
}

// Order represents a completed checkout of a cart.
type Order struct {
	ID        int       `json:"id"`
	CartID    int       `json:"cart_id"`
	Total     string    `json:"total"`
	ItemCount int       `json:"item_count"`
	PlacedAt  time.Time `json:"placed_at"`
}

// LoginResponse is the payload returned by the auth endpoint.
type LoginResponse struct {
	Token string `json:"token"`
}
