package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/infra/queue"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

type CreateLeadUseCase struct {
	loader *LoadUserDataUseCase
	events LeadEventPublisher
	logger *zap.Logger
}

// NewCreateLeadUseCase wires the reload step and the optional event
// publisher (nil disables lead events).
func NewCreateLeadUseCase(loader *LoadUserDataUseCase, events LeadEventPublisher, logger *zap.Logger) *CreateLeadUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateLeadUseCase{
		loader: loader,
		events: events,
		logger: logger,
	}
}

// Execute posts the lead. On success the whole dashboard is reloaded and the
// form cleared; on failure the form stays open and populated.
func (uc *CreateLeadUseCase) Execute(ctx context.Context, s *Session, form LeadForm) error {
	release := s.View.BeginBusy()
	defer release()

	req := entity.LeadRequest{
		ClientName:  form.ClientName,
		ClientPhone: form.ClientPhone,
		Service:     form.Service,
		Description: form.Description,
		UserID:      s.State.UserID(),
	}

	created, err := s.Gateway.CreateLead(ctx, req)
	if err != nil {
		uc.logger.Error("failed to create lead",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
		uc.alert(ctx, s, MsgLeadCreateError)
		return fmt.Errorf("%w: %w", ErrLeadCreate, err)
	}

	uc.alert(ctx, s, MsgLeadCreated)
	s.View.CloseModal(presenter.ModalLead)

	uc.loader.Execute(ctx, s)

	s.View.ResetForm(presenter.ModalLead)

	uc.publish(ctx, req, created)
	return nil
}

func (uc *CreateLeadUseCase) publish(ctx context.Context, req entity.LeadRequest, created *entity.Lead) {
	if uc.events == nil {
		return
	}

	payload := queue.LeadCreatedPayload{
		UserID:     req.UserID,
		ClientName: req.ClientName,
		Service:    req.Service,
		CreatedAt:  time.Now().UTC(),
	}
	if created != nil {
		payload.LeadID = created.ID.String()
	}

	if err := uc.events.PublishLeadCreated(ctx, payload); err != nil {
		uc.logger.Warn("failed to publish lead event",
			zap.Int64("user_id", req.UserID),
			zap.Error(err),
		)
	}
}

func (uc *CreateLeadUseCase) alert(ctx context.Context, s *Session, msg string) {
	if err := s.Host.ShowAlert(ctx, msg); err != nil {
		uc.logger.Warn("failed to show alert", zap.Error(err))
	}
}
