// Package webapp keeps the per-user state of Mini App pages served by the
// HTTP API.
package webapp

import (
	"context"
	"sync"

	"github.com/xavierca1/partners-miniapp/internal/entity"
)

type ActionButton struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

// Host stands in for window.Telegram.WebApp on the server side. Whatever the
// dashboard asks of the runtime is recorded and handed to the page in the
// next response.
type Host struct {
	user entity.HostUser

	mu         sync.Mutex
	alerts     []string
	actionText string
	onAction   func(ctx context.Context)
	onBack     func(ctx context.Context)
	closed     bool
}

func NewHost(user entity.HostUser) *Host {
	return &Host{user: user}
}

func (h *Host) User() (entity.HostUser, bool) {
	return h.user, h.user.ID != 0
}

func (h *Host) ShowAlert(_ context.Context, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, message)
	return nil
}

func (h *Host) SetActionButton(text string, onClick func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actionText = text
	h.onAction = onClick
}

func (h *Host) OnBackEvent(fn func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onBack = fn
}

func (h *Host) Close(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

// DrainAlerts returns the alerts raised since the last call.
func (h *Host) DrainAlerts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	alerts := h.alerts
	h.alerts = nil
	if alerts == nil {
		return []string{}
	}
	return alerts
}

func (h *Host) ActionButton() ActionButton {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ActionButton{Text: h.actionText, Visible: h.onAction != nil}
}

func (h *Host) TriggerAction(ctx context.Context) bool {
	h.mu.Lock()
	fn := h.onAction
	h.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(ctx)
	return true
}

func (h *Host) TriggerBack(ctx context.Context) bool {
	h.mu.Lock()
	fn := h.onBack
	h.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(ctx)
	return true
}

func (h *Host) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
