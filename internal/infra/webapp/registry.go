package webapp

import (
	"context"
	"sync"
	"time"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
	"github.com/xavierca1/partners-miniapp/internal/usecase"
)

// GatewayFactory binds a backend gateway to one page host and user.
type GatewayFactory func(host usecase.Host, userID int64) usecase.PartnersGateway

type Entry struct {
	Host    *Host
	View    *presenter.Dashboard
	Session *usecase.Session

	bootOnce sync.Once
	lastSeen time.Time
}

// Boot runs fn once for the lifetime of the entry and reports whether this
// call ran it.
func (e *Entry) Boot(ctx context.Context, fn func(ctx context.Context, s *usecase.Session)) bool {
	ran := false
	e.bootOnce.Do(func() {
		fn(ctx, e.Session)
		ran = true
	})
	return ran
}

// Registry holds one in-memory session per Telegram user. Nothing survives a
// restart, and a session idle for longer than the TTL is dropped.
type Registry struct {
	gateways GatewayFactory
	ttl      time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[int64]*Entry
}

// NewRegistry builds a registry whose sessions expire after ttl without
// requests. ttl <= 0 keeps sessions until their page closes.
func NewRegistry(gateways GatewayFactory, ttl time.Duration) *Registry {
	return &Registry{
		gateways: gateways,
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[int64]*Entry),
	}
}

// Get returns the session of user, starting a new one when none exists, the
// previous page was closed or the session expired.
func (r *Registry) Get(user entity.HostUser) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if e, ok := r.entries[user.ID]; ok && !e.Host.Closed() && !r.expired(e, now) {
		e.lastSeen = now
		return e
	}

	host := NewHost(user)
	view := presenter.NewDashboard()
	e := &Entry{
		Host:     host,
		View:     view,
		Session:  usecase.NewSession(host, view, r.gateways(host, user.ID)),
		lastSeen: now,
	}
	r.entries[user.ID] = e
	return e
}

// Sweep drops closed and expired sessions and returns how many it removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for id, e := range r.entries {
		if e.Host.Closed() || r.expired(e, now) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

func (r *Registry) expired(e *Entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
