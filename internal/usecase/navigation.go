package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/presenter"
)

type NavigationUseCase struct {
	logger *zap.Logger
}

func NewNavigationUseCase(logger *zap.Logger) *NavigationUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NavigationUseCase{logger: logger}
}

// Bootstrap binds the host user to the session, renders the identity block
// and installs the main action button and the back handler. A host without a
// user still gets the default identity and returns ErrNoHostUser.
func (uc *NavigationUseCase) Bootstrap(ctx context.Context, s *Session) error {
	s.Host.SetActionButton(ActionButtonText, func(context.Context) {
		uc.OpenLeadForm(s)
	})
	s.Host.OnBackEvent(func(ctx context.Context) {
		uc.Back(ctx, s)
	})

	user, ok := s.Host.User()
	if !ok {
		s.View.RenderIdentity(presenter.DefaultDisplayName, presenter.DefaultInitials)
		return ErrNoHostUser
	}

	s.State.Bind(user)
	s.View.RenderIdentity(presenter.DisplayName(user), presenter.Initials(user.FirstName, user.LastName))

	uc.logger.Info("session initialized", zap.Int64("user_id", user.ID))
	return nil
}

// OpenProfileEditor opens the profile modal pre-filled with the current
// session profile.
func (uc *NavigationUseCase) OpenProfileEditor(s *Session) {
	p := s.State.Profile()
	s.View.OpenModal(presenter.ModalProfile, ProfileForm{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
	}.Values())
}

func (uc *NavigationUseCase) OpenLeadForm(s *Session) {
	s.View.OpenModal(presenter.ModalLead, nil)
}

// Back closes the top modal, or asks the host to close when none is open.
func (uc *NavigationUseCase) Back(ctx context.Context, s *Session) {
	if m, ok := s.View.TopModal(); ok {
		s.View.CloseModal(m)
		return
	}

	if err := s.Host.Close(ctx); err != nil {
		uc.logger.Warn("failed to close host", zap.Error(err))
	}
}
