// Package netmon tracks connectivity to the storefront API. It keeps a
// cached status object updated by active HEAD probes against the health
// endpoint and broadcasts transitions on the event bus, so the rest of the
// CLI can consult connectivity without issuing probes of its own.
package netmon

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bikepoint/sprocket/internal/contract"
	"github.com/bikepoint/sprocket/schema"
)

// DefaultProbeInterval is how often the background loop probes the health
// endpoint.
const DefaultProbeInterval = 30 * time.Second

// probeTimeout bounds a single health probe.
const probeTimeout = 5 * time.Second

// Monitor maintains the cached network status. Construct with New; the zero
// value is not usable.
type Monitor struct {
	mu     sync.RWMutex
	status schema.NetworkStatus

	doer      contract.Doer
	bus       *contract.Bus
	healthURL string
	now       contract.Clock

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	started  bool
}

// New creates a Monitor probing healthURL. The status starts optimistically
// online, the way a fresh browser tab assumes connectivity until told
// otherwise. A nil doer gets a default http.Client.
func New(healthURL string, doer contract.Doer, bus *contract.Bus) *Monitor {
	if doer == nil {
		doer = &http.Client{Timeout: probeTimeout}
	}
	return &Monitor{
		status: schema.NetworkStatus{
			Online:   true,
			Endpoint: healthURL,
		},
		doer:      doer,
		bus:       bus,
		healthURL: healthURL,
		now:       time.Now,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// WithClock overrides the monitor's clock. For tests.
func (m *Monitor) WithClock(clock contract.Clock) *Monitor {
	m.now = clock
	return m
}

// Status returns a copy of the cached status. It never blocks on a probe.
func (m *Monitor) Status() schema.NetworkStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Check performs an active probe and updates the cached status. An empty
// url probes the configured health endpoint. A status flip is broadcast on
// the bus; steady states are not.
func (m *Monitor) Check(ctx context.Context, url string) schema.NetworkStatus {
	if url == "" {
		url = m.healthURL
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := m.now()
	online := m.probe(probeCtx, url)
	rtt := m.now().Sub(start)

	m.mu.Lock()
	flipped := m.status.Online != online
	m.status = schema.NetworkStatus{
		Online:       online,
		LastChecked:  m.now(),
		Endpoint:     url,
		ResponseTime: rtt,
	}
	updated := m.status
	m.mu.Unlock()

	if flipped && m.bus != nil {
		m.bus.Publish(contract.Event{Topic: schema.TopicNetworkChange, Payload: updated})
	}
	return updated
}

// probe issues a single HEAD request. Any 2xx-4xx response proves the
// network path works; only transport failures and 5xx count as offline.
func (m *Monitor) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := m.doer.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode < 500
}

// Start launches the background probe loop. It probes once immediately and
// then on every interval tick until Stop is called or ctx is cancelled.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	m.started = true

	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.Check(ctx, "")
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				m.Check(ctx, "")
			}
		}
	}()
}

// Stop ends the background loop and waits for it to exit. It is safe to
// call more than once, or without a prior Start.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	if m.started {
		<-m.done
	}
}
