package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/xavierca1/partners-miniapp/internal/entity"
)

const (
	BtnProfile = "👤 Профиль"
	BtnBack    = "🔙 Назад"

	closeText = "👋 До встречи! Отправьте /start, чтобы открыть кабинет снова."
)

// Sender is the part of *tgbotapi.BotAPI the chat front-end uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ChatHost plays the host runtime inside a bot chat: alerts become messages,
// the main action button is a reply keyboard button and closing removes the
// keyboard.
type ChatHost struct {
	sender Sender
	chatID int64
	user   *entity.HostUser

	mu         sync.Mutex
	actionText string
	onAction   func(ctx context.Context)
	onBack     func(ctx context.Context)
	closed     bool
}

func NewChatHost(sender Sender, chatID int64, user *entity.HostUser) *ChatHost {
	return &ChatHost{
		sender: sender,
		chatID: chatID,
		user:   user,
	}
}

func (h *ChatHost) User() (entity.HostUser, bool) {
	if h.user == nil {
		return entity.HostUser{}, false
	}
	return *h.user, true
}

func (h *ChatHost) ShowAlert(_ context.Context, message string) error {
	if _, err := h.sender.Send(tgbotapi.NewMessage(h.chatID, message)); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}

func (h *ChatHost) SetActionButton(text string, onClick func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actionText = text
	h.onAction = onClick
}

func (h *ChatHost) OnBackEvent(fn func(ctx context.Context)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onBack = fn
}

func (h *ChatHost) Close(_ context.Context) error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()

	msg := tgbotapi.NewMessage(h.chatID, closeText)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := h.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to close chat: %w", err)
	}
	return nil
}

func (h *ChatHost) ActionText() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.actionText
}

// TriggerAction runs the main action button handler, if one is set.
func (h *ChatHost) TriggerAction(ctx context.Context) bool {
	h.mu.Lock()
	fn := h.onAction
	h.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(ctx)
	return true
}

// TriggerBack runs the back navigation handler, if one is set.
func (h *ChatHost) TriggerBack(ctx context.Context) bool {
	h.mu.Lock()
	fn := h.onBack
	h.mu.Unlock()

	if fn == nil {
		return false
	}
	fn(ctx)
	return true
}

func (h *ChatHost) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Keyboard is the reply keyboard shown under the dashboard.
func (h *ChatHost) Keyboard() tgbotapi.ReplyKeyboardMarkup {
	action := h.ActionText()
	row := []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(BtnProfile)}
	if action != "" {
		row = append([]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton(action)}, row...)
	}

	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(row...),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(BtnBack)),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}
