package usecase

import (
	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

type ProfileForm struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (f ProfileForm) Values() map[string]string {
	return map[string]string{
		presenter.FieldFirstName: f.FirstName,
		presenter.FieldLastName:  f.LastName,
		presenter.FieldPhone:     f.Phone,
		presenter.FieldEmail:     f.Email,
	}
}

func ProfileFormFromValues(v map[string]string) ProfileForm {
	return ProfileForm{
		FirstName: v[presenter.FieldFirstName],
		LastName:  v[presenter.FieldLastName],
		Phone:     v[presenter.FieldPhone],
		Email:     v[presenter.FieldEmail],
	}
}

type LeadForm struct {
	ClientName  string `json:"clientName"`
	ClientPhone string `json:"clientPhone"`
	Service     string `json:"service"`
	Description string `json:"description"`
}

func (f LeadForm) Values() map[string]string {
	return map[string]string{
		presenter.FieldClientName:  f.ClientName,
		presenter.FieldClientPhone: f.ClientPhone,
		presenter.FieldService:     f.Service,
		presenter.FieldDescription: f.Description,
	}
}

func LeadFormFromValues(v map[string]string) LeadForm {
	return LeadForm{
		ClientName:  v[presenter.FieldClientName],
		ClientPhone: v[presenter.FieldClientPhone],
		Service:     v[presenter.FieldService],
		Description: v[presenter.FieldDescription],
	}
}

// Session is everything a handler needs about one partner: identity, the
// host that embeds the dashboard, the render target and a backend gateway
// bound to that host.
type Session struct {
	State   *entity.Session
	Host    Host
	View    View
	Gateway PartnersGateway
}

func NewSession(host Host, view View, gateway PartnersGateway) *Session {
	return &Session{
		State:   entity.NewSession(),
		Host:    host,
		View:    view,
		Gateway: gateway,
	}
}
