package usecase

import "go.uber.org/zap"

// Dashboard groups the use cases every front-end drives.
type Dashboard struct {
	Nav    *NavigationUseCase
	Load   *LoadUserDataUseCase
	Update *UpdateProfileUseCase
	Create *CreateLeadUseCase
}

// NewDashboard wires the use cases. events may be nil.
func NewDashboard(events LeadEventPublisher, logger *zap.Logger) *Dashboard {
	load := NewLoadUserDataUseCase(logger)
	return &Dashboard{
		Nav:    NewNavigationUseCase(logger),
		Load:   load,
		Update: NewUpdateProfileUseCase(logger),
		Create: NewCreateLeadUseCase(load, events, logger),
	}
}
