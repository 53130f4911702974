package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/entity"
)

type LoadUserDataUseCase struct {
	logger *zap.Logger
}

func NewLoadUserDataUseCase(logger *zap.Logger) *LoadUserDataUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadUserDataUseCase{logger: logger}
}

// Execute refreshes stats and leads. It is best effort: on failure zero
// stats are rendered and the lead list is left as it was.
func (uc *LoadUserDataUseCase) Execute(ctx context.Context, s *Session) {
	release := s.View.BeginBusy()
	defer release()

	snapshot, err := s.Gateway.GetProfile(ctx)
	if err != nil {
		uc.logger.Warn("failed to load user data",
			zap.Int64("user_id", s.State.UserID()),
			zap.Error(err),
		)
		s.View.RenderStats(entity.Stats{})
		return
	}

	s.View.RenderStats(snapshot.StatsOrZero())
	s.View.RenderLeads(snapshot.LeadsOrEmpty())
}
