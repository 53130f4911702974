package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

type UpdateProfileUseCase struct {
	logger *zap.Logger
}

func NewUpdateProfileUseCase(logger *zap.Logger) *UpdateProfileUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateProfileUseCase{logger: logger}
}

// Execute renders the submitted profile immediately and then sends it to the
// backend. A failed PUT leaves the optimistic display in place; there is no
// rollback.
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, s *Session, form ProfileForm) error {
	release := s.View.BeginBusy()
	defer release()

	update := entity.ProfileUpdate{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Phone:     form.Phone,
		Email:     form.Email,
	}

	s.View.RenderIdentity(
		presenter.FullName(update.FirstName, update.LastName),
		presenter.Initials(update.FirstName, update.LastName),
	)
	s.View.RenderContacts(update.Phone, update.Email)

	if err := s.Gateway.UpdateProfile(ctx, update); err != nil {
		uc.logger.Error("failed to update profile",
			zap.Int64("user_id", s.State.UserID()),
			zap.Error(err),
		)
		uc.alert(ctx, s, MsgProfileUpdateError)
		return fmt.Errorf("%w: %w", ErrProfileUpdate, err)
	}

	s.State.ApplyProfileUpdate(update)
	uc.alert(ctx, s, MsgProfileUpdated)
	s.View.CloseModal(presenter.ModalProfile)

	uc.logger.Info("profile updated", zap.Int64("user_id", s.State.UserID()))
	return nil
}

func (uc *UpdateProfileUseCase) alert(ctx context.Context, s *Session, msg string) {
	if err := s.Host.ShowAlert(ctx, msg); err != nil {
		uc.logger.Warn("failed to show alert", zap.Error(err))
	}
}
