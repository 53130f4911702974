package presenter

import (
	"sync"

	"github.com/xavierca1/partners-miniapp/internal/entity"
)

type Modal string

const (
	ModalProfile Modal = "profile"
	ModalLead    Modal = "lead"
)

const (
	EmptyLeadsTitle    = "Заявок пока нет"
	EmptyLeadsSubtitle = "Создайте первую заявку"
)

// Form field names, shared by both front-ends.
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldPhone       = "phone"
	FieldEmail       = "email"
	FieldClientName  = "clientName"
	FieldClientPhone = "clientPhone"
	FieldService     = "service"
	FieldDescription = "description"
)

type LeadItem struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Date        string `json:"date,omitempty"`
	StatusClass string `json:"statusClass,omitempty"`
	StatusLabel string `json:"statusLabel,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// State is an immutable copy of everything the dashboard displays.
type State struct {
	UserName       string                      `json:"userName"`
	UserInitials   string                      `json:"userInitials"`
	UserPhone      string                      `json:"userPhone"`
	UserEmail      string                      `json:"userEmail"`
	Balance        string                      `json:"balance"`
	TotalLeads     string                      `json:"totalLeads"`
	CompletedDeals string                      `json:"completedDeals"`
	Earnings       string                      `json:"earnings"`
	Leads          []LeadItem                  `json:"leads"`
	Modals         []Modal                     `json:"modals"`
	Forms          map[Modal]map[string]string `json:"forms"`
	Loading        bool                        `json:"loading"`
}

// Dashboard is the render target of the partner dashboard. Every render
// replaces what it renders wholesale.
type Dashboard struct {
	busy BusyIndicator

	mu    sync.RWMutex
	state State
}

func NewDashboard() *Dashboard {
	return &Dashboard{
		state: State{
			Forms: map[Modal]map[string]string{},
		},
	}
}

func (d *Dashboard) BeginBusy() func() {
	return d.busy.Acquire()
}

func (d *Dashboard) Busy() *BusyIndicator {
	return &d.busy
}

func (d *Dashboard) RenderIdentity(name, initials string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.UserName = name
	d.state.UserInitials = initials
}

func (d *Dashboard) RenderContacts(phone, email string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.UserPhone = FormatPhone(phone)
	d.state.UserEmail = email
}

func (d *Dashboard) RenderStats(stats entity.Stats) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Balance = FormatMoney(stats.Balance.Float())
	d.state.TotalLeads = FormatCount(stats.TotalLeads.Float())
	d.state.CompletedDeals = FormatCount(stats.CompletedDeals.Float())
	d.state.Earnings = FormatMoney(stats.Earnings.Float())
}

func (d *Dashboard) RenderLeads(leads []entity.Lead) {
	items := LeadItems(leads)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Leads = items
}

// LeadItems maps leads to list items. An empty list yields the single
// placeholder item.
func LeadItems(leads []entity.Lead) []LeadItem {
	if len(leads) == 0 {
		return []LeadItem{{
			Title:       EmptyLeadsTitle,
			Subtitle:    EmptyLeadsSubtitle,
			Placeholder: true,
		}}
	}

	items := make([]LeadItem, 0, len(leads))
	for _, lead := range leads {
		items = append(items, LeadItem{
			ID:          lead.ID.String(),
			Title:       "Заявка #" + lead.ID.String(),
			Subtitle:    "Клиент: " + lead.ClientName,
			Date:        FormatDate(lead.CreatedAt),
			StatusClass: string(lead.Status),
			StatusLabel: StatusLabel(lead.Status),
		})
	}
	return items
}

// OpenModal pushes m on the modal stack. Non-nil values replace the form
// values of m.
func (d *Dashboard) OpenModal(m Modal, values map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.removeModal(m)
	d.state.Modals = append(d.state.Modals, m)
	if values != nil {
		d.state.Forms[m] = copyValues(values)
	}
}

func (d *Dashboard) CloseModal(m Modal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeModal(m)
}

func (d *Dashboard) removeModal(m Modal) {
	kept := d.state.Modals[:0]
	for _, open := range d.state.Modals {
		if open != m {
			kept = append(kept, open)
		}
	}
	d.state.Modals = kept
}

// TopModal returns the most recently opened modal that is still open.
func (d *Dashboard) TopModal() (Modal, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.state.Modals) == 0 {
		return "", false
	}
	return d.state.Modals[len(d.state.Modals)-1], true
}

func (d *Dashboard) IsOpen(m Modal) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, open := range d.state.Modals {
		if open == m {
			return true
		}
	}
	return false
}

// SetFormValues records what the user typed into a form.
func (d *Dashboard) SetFormValues(m Modal, values map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Forms[m] = copyValues(values)
}

func (d *Dashboard) ResetForm(m Modal) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.state.Forms, m)
}

func (d *Dashboard) Snapshot() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := d.state
	s.Leads = append([]LeadItem(nil), d.state.Leads...)
	s.Modals = append([]Modal{}, d.state.Modals...)
	s.Forms = make(map[Modal]map[string]string, len(d.state.Forms))
	for m, values := range d.state.Forms {
		s.Forms[m] = copyValues(values)
	}
	s.Loading = d.busy.Visible()
	return s
}

func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
