package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/infra/queue"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetProfile(ctx context.Context) (*entity.ProfileSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProfileSnapshot), args.Error(1)
}

func (m *MockGateway) UpdateProfile(ctx context.Context, update entity.ProfileUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockGateway) CreateLead(ctx context.Context, lead entity.LeadRequest) (*entity.Lead, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadCreated(ctx context.Context, payload queue.LeadCreatedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// fakeHost records what the dashboard asked of the host runtime.
type fakeHost struct {
	mu      sync.Mutex
	user    *entity.HostUser
	alerts  []string
	button  string
	onClick func(context.Context)
	onBack  func(context.Context)
	closed  int
}

func (h *fakeHost) User() (entity.HostUser, bool) {
	if h.user == nil {
		return entity.HostUser{}, false
	}
	return *h.user, true
}

func (h *fakeHost) ShowAlert(_ context.Context, message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.alerts = append(h.alerts, message)
	return nil
}

func (h *fakeHost) SetActionButton(text string, onClick func(context.Context)) {
	h.button = text
	h.onClick = onClick
}

func (h *fakeHost) OnBackEvent(fn func(context.Context)) {
	h.onBack = fn
}

func (h *fakeHost) Close(context.Context) error {
	h.closed++
	return nil
}

func (h *fakeHost) Alerts() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.alerts...)
}

// countingView wraps the real dashboard and counts busy acquisitions and
// releases.
type countingView struct {
	*presenter.Dashboard
	mu       sync.Mutex
	acquired int
	released int
}

func newCountingView() *countingView {
	return &countingView{Dashboard: presenter.NewDashboard()}
}

func (v *countingView) BeginBusy() func() {
	release := v.Dashboard.BeginBusy()
	v.mu.Lock()
	v.acquired++
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.released++
			v.mu.Unlock()
			release()
		})
	}
}

func newTestSession(user *entity.HostUser) (*Session, *fakeHost, *countingView, *MockGateway) {
	host := &fakeHost{user: user}
	view := newCountingView()
	gateway := new(MockGateway)
	s := NewSession(host, view, gateway)
	if user != nil {
		s.State.Bind(*user)
	}
	return s, host, view, gateway
}
