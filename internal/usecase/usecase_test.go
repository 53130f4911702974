package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/infra/integration/partners"
	"github.com/xavierca1/partners-miniapp/internal/infra/queue"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

var ivan = &entity.HostUser{ID: 42, FirstName: "Ivan", LastName: "Petrov", Username: "ivan_p"}

func TestLoadUserDataRendersSnapshot(t *testing.T) {
	s, _, view, gateway := newTestSession(ivan)
	gateway.On("GetProfile", mock.Anything).Return(&entity.ProfileSnapshot{
		Stats: &entity.Stats{Balance: 150, TotalLeads: 3, CompletedDeals: 1, Earnings: 75},
		Leads: []entity.Lead{{ID: "7", ClientName: "Ivan", Status: entity.LeadStatusPending, CreatedAt: "2024-01-05"}},
	}, nil)

	NewLoadUserDataUseCase(nil).Execute(context.Background(), s)

	state := view.Snapshot()
	assert.Equal(t, "150 ₽", state.Balance)
	assert.Equal(t, "3", state.TotalLeads)
	assert.Equal(t, "1", state.CompletedDeals)
	assert.Equal(t, "75 ₽", state.Earnings)
	require.Len(t, state.Leads, 1)
	assert.Equal(t, "Заявка #7", state.Leads[0].Title)
	assert.False(t, state.Loading)
	assert.Equal(t, 1, view.acquired)
	assert.Equal(t, 1, view.released)
}

func TestLoadUserDataEmptyLeads(t *testing.T) {
	s, _, view, gateway := newTestSession(ivan)
	gateway.On("GetProfile", mock.Anything).Return(&entity.ProfileSnapshot{}, nil)

	NewLoadUserDataUseCase(nil).Execute(context.Background(), s)

	state := view.Snapshot()
	require.Len(t, state.Leads, 1)
	assert.Equal(t, presenter.EmptyLeadsTitle, state.Leads[0].Title)
	assert.Equal(t, "0 ₽", state.Balance)
}

func TestLoadUserDataFailureZeroesStatsKeepsLeads(t *testing.T) {
	s, _, view, gateway := newTestSession(ivan)
	view.RenderStats(entity.Stats{Balance: 500, TotalLeads: 9})
	view.RenderLeads([]entity.Lead{{ID: "1", ClientName: "Old", Status: entity.LeadStatusCompleted}})

	gateway.On("GetProfile", mock.Anything).Return(nil, &partners.NetworkError{StatusCode: 502})

	NewLoadUserDataUseCase(nil).Execute(context.Background(), s)

	state := view.Snapshot()
	assert.Equal(t, "0 ₽", state.Balance)
	assert.Equal(t, "0", state.TotalLeads)
	require.Len(t, state.Leads, 1)
	assert.Equal(t, "Заявка #1", state.Leads[0].Title, "lead list is not reset on failure")
	assert.Equal(t, 1, view.released)
	assert.False(t, state.Loading)
}

func TestUpdateProfileSuccess(t *testing.T) {
	s, host, view, gateway := newTestSession(ivan)
	view.OpenModal(presenter.ModalProfile, nil)

	form := ProfileForm{FirstName: "  Ivan", LastName: "Sidorov ", Phone: "+79991234567", Email: "ivan@example.com"}
	gateway.On("UpdateProfile", mock.Anything, entity.ProfileUpdate{
		FirstName: "  Ivan", LastName: "Sidorov ", Phone: "+79991234567", Email: "ivan@example.com",
	}).Return(nil)

	err := NewUpdateProfileUseCase(nil).Execute(context.Background(), s, form)
	require.NoError(t, err)

	state := view.Snapshot()
	assert.Equal(t, "Ivan Sidorov", state.UserName)
	assert.Equal(t, "ivan@example.com", state.UserEmail)
	assert.Equal(t, []string{MsgProfileUpdated}, host.Alerts())
	assert.False(t, view.IsOpen(presenter.ModalProfile))
	assert.Equal(t, "ivan@example.com", s.State.Profile().Email)
	assert.Equal(t, 1, view.released)
}

func TestUpdateProfileFailureKeepsOptimisticName(t *testing.T) {
	s, host, view, gateway := newTestSession(ivan)
	view.OpenModal(presenter.ModalProfile, nil)

	netErr := &partners.NetworkError{StatusCode: 500}
	gateway.On("UpdateProfile", mock.Anything, mock.Anything).Return(netErr)

	err := NewUpdateProfileUseCase(nil).Execute(context.Background(), s, ProfileForm{FirstName: "Fedor", LastName: "Ivanov"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProfileUpdate)
	assert.True(t, partners.IsNetworkError(err))

	state := view.Snapshot()
	assert.Equal(t, "Fedor Ivanov", state.UserName)
	assert.Equal(t, "FI", state.UserInitials)
	assert.Equal(t, []string{MsgProfileUpdateError}, host.Alerts())
	assert.True(t, view.IsOpen(presenter.ModalProfile))
	assert.Equal(t, "Ivan", s.State.Profile().FirstName, "session profile only changes on success")
	assert.Equal(t, 1, view.released)
}

func TestCreateLeadSuccessReloadsAndResets(t *testing.T) {
	s, host, view, gateway := newTestSession(ivan)
	view.OpenModal(presenter.ModalLead, nil)
	view.SetFormValues(presenter.ModalLead, map[string]string{presenter.FieldClientName: "Anna"})

	form := LeadForm{ClientName: "Anna", ClientPhone: "+79990000000", Service: "audit", Description: "asap"}
	gateway.On("CreateLead", mock.Anything, entity.LeadRequest{
		ClientName: "Anna", ClientPhone: "+79990000000", Service: "audit", Description: "asap", UserID: 42,
	}).Return(&entity.Lead{ID: "8", ClientName: "Anna", Status: entity.LeadStatusPending}, nil)
	gateway.On("GetProfile", mock.Anything).Return(&entity.ProfileSnapshot{
		Stats: &entity.Stats{TotalLeads: 1},
		Leads: []entity.Lead{{ID: "8", ClientName: "Anna", Status: entity.LeadStatusPending, CreatedAt: "2024-02-01"}},
	}, nil)

	publisher := new(MockPublisher)
	publisher.On("PublishLeadCreated", mock.Anything, mock.MatchedBy(func(p queue.LeadCreatedPayload) bool {
		return p.LeadID == "8" && p.UserID == 42 && p.ClientName == "Anna"
	})).Return(nil)

	uc := NewCreateLeadUseCase(NewLoadUserDataUseCase(nil), publisher, nil)
	require.NoError(t, uc.Execute(context.Background(), s, form))

	state := view.Snapshot()
	assert.Equal(t, []string{MsgLeadCreated}, host.Alerts())
	assert.False(t, view.IsOpen(presenter.ModalLead))
	assert.NotContains(t, state.Forms, presenter.ModalLead)
	assert.Equal(t, "1", state.TotalLeads)
	require.Len(t, state.Leads, 1)
	assert.Equal(t, "Заявка #8", state.Leads[0].Title)
	assert.False(t, state.Loading)
	assert.Equal(t, 2, view.acquired)
	assert.Equal(t, 2, view.released)

	gateway.AssertNumberOfCalls(t, "GetProfile", 1)
	publisher.AssertExpectations(t)
}

func TestCreateLeadFailureKeepsFormOpen(t *testing.T) {
	s, host, view, gateway := newTestSession(ivan)
	view.OpenModal(presenter.ModalLead, nil)
	view.SetFormValues(presenter.ModalLead, map[string]string{presenter.FieldClientName: "Anna"})

	gateway.On("CreateLead", mock.Anything, mock.Anything).Return(nil, &partners.NetworkError{StatusCode: 400})
	publisher := new(MockPublisher)

	err := NewCreateLeadUseCase(NewLoadUserDataUseCase(nil), publisher, nil).
		Execute(context.Background(), s, LeadForm{ClientName: "Anna"})

	assert.ErrorIs(t, err, ErrLeadCreate)
	assert.Equal(t, []string{MsgLeadCreateError}, host.Alerts())
	assert.True(t, view.IsOpen(presenter.ModalLead))
	assert.Equal(t, "Anna", view.Snapshot().Forms[presenter.ModalLead][presenter.FieldClientName])
	gateway.AssertNotCalled(t, "GetProfile", mock.Anything)
	publisher.AssertNotCalled(t, "PublishLeadCreated", mock.Anything, mock.Anything)
	assert.Equal(t, 1, view.released)
}

func TestCreateLeadPublishFailureIsNotSurfaced(t *testing.T) {
	s, host, _, gateway := newTestSession(ivan)
	gateway.On("CreateLead", mock.Anything, mock.Anything).Return(&entity.Lead{ID: "9"}, nil)
	gateway.On("GetProfile", mock.Anything).Return(&entity.ProfileSnapshot{}, nil)

	publisher := new(MockPublisher)
	publisher.On("PublishLeadCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	err := NewCreateLeadUseCase(NewLoadUserDataUseCase(nil), publisher, nil).
		Execute(context.Background(), s, LeadForm{ClientName: "Anna"})

	assert.NoError(t, err)
	assert.Equal(t, []string{MsgLeadCreated}, host.Alerts())
}

func TestCreateLeadWithoutPublisher(t *testing.T) {
	s, _, _, gateway := newTestSession(ivan)
	gateway.On("CreateLead", mock.Anything, mock.Anything).Return(&entity.Lead{}, nil)
	gateway.On("GetProfile", mock.Anything).Return(&entity.ProfileSnapshot{}, nil)

	err := NewCreateLeadUseCase(NewLoadUserDataUseCase(nil), nil, nil).
		Execute(context.Background(), s, LeadForm{ClientName: "Anna"})

	assert.NoError(t, err)
}

func TestBootstrapBindsUserAndInstallsControls(t *testing.T) {
	host := &fakeHost{user: ivan}
	view := newCountingView()
	s := NewSession(host, view, new(MockGateway))
	nav := NewNavigationUseCase(nil)

	require.NoError(t, nav.Bootstrap(context.Background(), s))

	assert.Equal(t, int64(42), s.State.UserID())
	assert.Equal(t, "Ivan Petrov", view.Snapshot().UserName)
	assert.Equal(t, "IP", view.Snapshot().UserInitials)
	assert.Equal(t, ActionButtonText, host.button)

	host.onClick(context.Background())
	assert.True(t, view.IsOpen(presenter.ModalLead))

	host.onBack(context.Background())
	assert.False(t, view.IsOpen(presenter.ModalLead))
	assert.Equal(t, 0, host.closed)

	host.onBack(context.Background())
	assert.Equal(t, 1, host.closed)
}

func TestBootstrapWithoutUser(t *testing.T) {
	host := &fakeHost{}
	view := newCountingView()
	s := NewSession(host, view, new(MockGateway))

	err := NewNavigationUseCase(nil).Bootstrap(context.Background(), s)

	assert.ErrorIs(t, err, ErrNoHostUser)
	assert.Equal(t, presenter.DefaultDisplayName, view.Snapshot().UserName)
	assert.Equal(t, presenter.DefaultInitials, view.Snapshot().UserInitials)
	assert.Equal(t, int64(0), s.State.UserID())
}

func TestBootstrapUsernameFallback(t *testing.T) {
	host := &fakeHost{user: &entity.HostUser{ID: 5, Username: "partner5"}}
	view := newCountingView()
	s := NewSession(host, view, new(MockGateway))

	require.NoError(t, NewNavigationUseCase(nil).Bootstrap(context.Background(), s))

	assert.Equal(t, "partner5", view.Snapshot().UserName)
	assert.Equal(t, presenter.DefaultInitials, view.Snapshot().UserInitials)
}

func TestOpenProfileEditorPrefills(t *testing.T) {
	s, _, view, _ := newTestSession(ivan)
	s.State.ApplyProfileUpdate(entity.ProfileUpdate{FirstName: "Ivan", LastName: "Petrov", Phone: "+7999", Email: "i@example.com"})

	NewNavigationUseCase(nil).OpenProfileEditor(s)

	values := view.Snapshot().Forms[presenter.ModalProfile]
	assert.Equal(t, "Ivan", values[presenter.FieldFirstName])
	assert.Equal(t, "i@example.com", values[presenter.FieldEmail])
	top, _ := view.TopModal()
	assert.Equal(t, presenter.ModalProfile, top)
}

func TestValidateForms(t *testing.T) {
	assert.Empty(t, ValidateProfileForm(ProfileForm{FirstName: "Ivan"}))
	assert.Len(t, ValidateProfileForm(ProfileForm{FirstName: "  "}), 1)

	errs := ValidateLeadForm(LeadForm{ClientName: "Anna"})
	require.Len(t, errs, 2)
	assert.Equal(t, "clientPhone", errs[0].Field)
	assert.Contains(t, errs.Error(), "service: is required")
}

func TestFormValuesRoundTrip(t *testing.T) {
	lead := LeadForm{ClientName: "Anna", ClientPhone: "1", Service: "s", Description: "d"}
	assert.Equal(t, lead, LeadFormFromValues(lead.Values()))

	profile := ProfileForm{FirstName: "Ivan", LastName: "P", Phone: "2", Email: "e"}
	assert.Equal(t, profile, ProfileFormFromValues(profile.Values()))
}
