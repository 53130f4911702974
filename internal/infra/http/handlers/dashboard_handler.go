package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/infra/http/middleware"
	"github.com/xavierca1/partners-miniapp/internal/infra/webapp"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
	"github.com/xavierca1/partners-miniapp/internal/usecase"
)

type DashboardHandler struct {
	registry *webapp.Registry
	uc       *usecase.Dashboard
	logger   *zap.Logger
}

type DashboardResponse struct {
	State        presenter.State     `json:"state"`
	Alerts       []string            `json:"alerts"`
	ActionButton webapp.ActionButton `json:"actionButton"`
	Closed       bool                `json:"closed"`
}

type errorResponse struct {
	Error  string                   `json:"error,omitempty"`
	Errors usecase.ValidationErrors `json:"errors,omitempty"`
}

func NewDashboardHandler(registry *webapp.Registry, uc *usecase.Dashboard, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{
		registry: registry,
		uc:       uc,
		logger:   logger,
	}
}

// Routes mounts the Mini App API. The router must already carry the
// InitData middleware.
func (h *DashboardHandler) Routes(r chi.Router) {
	r.Get("/dashboard", h.HandleGet)
	r.Post("/profile", h.HandleUpdateProfile)
	r.Post("/leads", h.HandleCreateLead)
	r.Post("/modals/{modal}", h.HandleOpenModal)
	r.Post("/action", h.HandleAction)
	r.Post("/back", h.HandleBack)
}

// entry returns the caller's session, bootstrapping and loading it on first
// contact. The bool reports whether that first load just happened.
func (h *DashboardHandler) entry(r *http.Request) (*webapp.Entry, bool, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, false, false
	}

	e := h.registry.Get(user)
	loaded := e.Boot(r.Context(), func(ctx context.Context, s *usecase.Session) {
		if err := h.uc.Nav.Bootstrap(ctx, s); err != nil {
			h.logger.Warn("bootstrap without host user", zap.Error(err))
		}
		h.uc.Load.Execute(ctx, s)
	})
	return e, loaded, true
}

func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	e, loaded, ok := h.entry(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	if !loaded {
		h.uc.Load.Execute(r.Context(), e.Session)
	}
	middleware.RecordAction("load", nil)

	writeState(w, http.StatusOK, e)
}

func (h *DashboardHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.entry(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var form usecase.ProfileForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}
	e.View.SetFormValues(presenter.ModalProfile, form.Values())

	if errs := usecase.ValidateProfileForm(form); len(errs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, errorResponse{Errors: errs})
		return
	}

	err := h.uc.Update.Execute(r.Context(), e.Session, form)
	middleware.RecordAction("update_profile", err)
	if err != nil {
		h.logger.Debug("profile update failed", zap.Error(err))
	}

	writeState(w, http.StatusOK, e)
}

func (h *DashboardHandler) HandleCreateLead(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.entry(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var form usecase.LeadForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}
	e.View.SetFormValues(presenter.ModalLead, form.Values())

	if errs := usecase.ValidateLeadForm(form); len(errs) > 0 {
		writeError(w, http.StatusUnprocessableEntity, errorResponse{Errors: errs})
		return
	}

	err := h.uc.Create.Execute(r.Context(), e.Session, form)
	middleware.RecordAction("create_lead", err)
	if err != nil {
		h.logger.Debug("lead creation failed", zap.Error(err))
	}

	writeState(w, http.StatusOK, e)
}

func (h *DashboardHandler) HandleOpenModal(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.entry(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	switch presenter.Modal(chi.URLParam(r, "modal")) {
	case presenter.ModalProfile:
		h.uc.Nav.OpenProfileEditor(e.Session)
	case presenter.ModalLead:
		h.uc.Nav.OpenLeadForm(e.Session)
	default:
		writeError(w, http.StatusNotFound, errorResponse{Error: "unknown modal"})
		return
	}

	writeState(w, http.StatusOK, e)
}

func (h *DashboardHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.entry(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	e.Host.TriggerAction(r.Context())
	writeState(w, http.StatusOK, e)
}

func (h *DashboardHandler) HandleBack(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.entry(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	e.Host.TriggerBack(r.Context())
	writeState(w, http.StatusOK, e)
}

func writeState(w http.ResponseWriter, status int, e *webapp.Entry) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(DashboardResponse{
		State:        e.View.Snapshot(),
		Alerts:       e.Host.DrainAlerts(),
		ActionButton: e.Host.ActionButton(),
		Closed:       e.Host.Closed(),
	})
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, errorResponse{Error: "missing Telegram user"})
}
