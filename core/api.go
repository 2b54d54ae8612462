package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/internal/session"
	"github.com/bikepoint/sprocket/schema"
)

// ErrNotLoggedIn is returned by operations that require an authenticated
// session when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in: run sprocket login first")

// Login authenticates against the storefront API and persists the returned
// token in the session store. Any previously stored token is replaced.
func (s *Storefront) Login(ctx context.Context, email, password string) error {
	payload := map[string]string{"email": email, "password": password}
	var resp schema.LoginResponse
	if err := s.api.Post(ctx, "/auth/login/", payload, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return errors.New("login succeeded but no token was returned")
	}
	if !s.session.Set(session.KeyAuthToken, []byte(resp.Token)) {
		return errors.New("failed to persist auth token")
	}
	return nil
}

// Logout clears the stored token. The server session, if any, is left to
// expire on its own.
func (s *Storefront) Logout() {
	s.session.Delete(session.KeyAuthToken)
}

// LoggedIn reports whether a token is stored. It does not verify the token
// with the server; an expired token still counts until a request fails.
func (s *Storefront) LoggedIn() bool {
	return len(s.session.Get(session.KeyAuthToken)) > 0
}

// ListServices returns the repair services catalog. Responses are cached.
func (s *Storefront) ListServices(ctx context.Context) ([]schema.Service, error) {
	var services []schema.Service
	if err := s.api.Get(ctx, "/repairing_service/services/", &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetService returns a single repair service by id.
func (s *Storefront) GetService(ctx context.Context, id int) (schema.Service, error) {
	var svc schema.Service
	if err := s.api.Get(ctx, fmt.Sprintf("/repairing_service/services/%d/", id), &svc); err != nil {
		return schema.Service{}, err
	}
	return svc, nil
}

// ListVehicles returns the used-vehicle marketplace listings. Responses are
// cached.
func (s *Storefront) ListVehicles(ctx context.Context) ([]schema.Vehicle, error) {
	var vehicles []schema.Vehicle
	if err := s.api.Get(ctx, "/vehicle/listings/", &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// GetVehicle returns a single marketplace listing by id.
func (s *Storefront) GetVehicle(ctx context.Context, id int) (schema.Vehicle, error) {
	var v schema.Vehicle
	if err := s.api.Get(ctx, fmt.Sprintf("/vehicle/listings/%d/", id), &v); err != nil {
		return schema.Vehicle{}, err
	}
	return v, nil
}

// CreateBooking schedules a repair service appointment and records it in the
// local history trail. A history write failure does not fail the booking.
func (s *Storefront) CreateBooking(ctx context.Context, serviceID int, scheduledAt time.Time) (schema.Booking, error) {
	if !s.LoggedIn() {
		return schema.Booking{}, ErrNotLoggedIn
	}
	payload := map[string]any{
		"service_id":   serviceID,
		"scheduled_at": scheduledAt.Format(time.RFC3339),
	}
	var booking schema.Booking
	if err := s.api.Post(ctx, "/repairing_service/bookings/create/", payload, &booking); err != nil {
		return schema.Booking{}, err
	}
	if s.history != nil {
		if err := s.history.RecordBooking(booking); err != nil {
			contract.LogWarn("failed to record booking locally", err)
		}
	}
	return booking, nil
}
