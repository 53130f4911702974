package usecase

import "errors"

var (
	ErrProfileUpdate = errors.New("profile update failed")
	ErrLeadCreate    = errors.New("lead creation failed")
	ErrNoHostUser    = errors.New("host runtime did not provide a user")
)

// Messages shown through the host.
const (
	MsgProfileUpdated     = "Профиль успешно обновлен!"
	MsgProfileUpdateError = "Ошибка при обновлении профиля"
	MsgLeadCreated        = "Заявка успешно создана!"
	MsgLeadCreateError    = "Ошибка при создании заявки"
	ActionButtonText      = "Создать заявку"
)
