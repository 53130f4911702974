package usecase

import (
	"context"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/infra/queue"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

// PartnersGateway is the remote partners backend. Implementations report
// their own failures to the host before returning them.
type PartnersGateway interface {
	GetProfile(ctx context.Context) (*entity.ProfileSnapshot, error)
	UpdateProfile(ctx context.Context, update entity.ProfileUpdate) error
	CreateLead(ctx context.Context, lead entity.LeadRequest) (*entity.Lead, error)
}

// Host is the capability set the Telegram runtime lends to the dashboard.
type Host interface {
	User() (entity.HostUser, bool)
	ShowAlert(ctx context.Context, message string) error
	SetActionButton(text string, onClick func(ctx context.Context))
	OnBackEvent(fn func(ctx context.Context))
	Close(ctx context.Context) error
}

// View is the render target. presenter.Dashboard is the implementation.
type View interface {
	BeginBusy() (release func())
	RenderIdentity(name, initials string)
	RenderContacts(phone, email string)
	RenderStats(stats entity.Stats)
	RenderLeads(leads []entity.Lead)
	OpenModal(m presenter.Modal, values map[string]string)
	CloseModal(m presenter.Modal)
	TopModal() (presenter.Modal, bool)
	ResetForm(m presenter.Modal)
}

type LeadEventPublisher interface {
	PublishLeadCreated(ctx context.Context, payload queue.LeadCreatedPayload) error
}
