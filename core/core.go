// Package core has the storefront logic: the typed API surface, the cart
// reconciliation flow, and the image URL resolver.
package core

import (
	"github.com/bikepoint/sprocket/internal/apiclient"
	"github.com/bikepoint/sprocket/internal/contract"
)

// Storefront bundles the dependencies every storefront operation needs. It
// is constructed once at startup and passed to consumers; nothing in this
// package reads module-level state.
type Storefront struct {
	cfg     *contract.Config
	api     *apiclient.Client
	session contract.SessionStore
	bus     *contract.Bus
	history contract.HistoryStore
	images  ImageResolver
}

// NewStorefront creates a Storefront. The history store may be nil, in which
// case completed checkouts and bookings are not recorded locally.
func NewStorefront(cfg *contract.Config, api *apiclient.Client, sessionStore contract.SessionStore, bus *contract.Bus, historyStore contract.HistoryStore) *Storefront {
	if bus == nil {
		bus = contract.NewBus()
	}
	return &Storefront{
		cfg:     cfg,
		api:     api,
		session: sessionStore,
		bus:     bus,
		history: historyStore,
		images:  NewImageResolver(cfg.MediaBaseURL),
	}
}

// Bus returns the event bus shared by the cart flow and the network monitor.
func (s *Storefront) Bus() *contract.Bus {
	return s.bus
}

// Images returns the image URL resolver configured for this storefront.
func (s *Storefront) Images() ImageResolver {
	return s.images
}
