package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/partners-miniapp/internal/entity"
	"github.com/xavierca1/partners-miniapp/internal/presenter"
	"github.com/xavierca1/partners-miniapp/internal/usecase"
)

const (
	cmdStart   = "/start"
	cmdRefresh = "/refresh"
	cmdProfile = "/profile"
	cmdBack    = "/back"

	requiredFieldText = "Это поле обязательно."
	webAppLinkText    = "Кабинет также доступен в браузере."
	webAppButtonText  = "🌐 Открыть кабинет"
)

// GatewayFactory binds a backend gateway to one chat host and user.
type GatewayFactory func(host usecase.Host, userID int64) usecase.PartnersGateway

type chat struct {
	mu      sync.Mutex
	host    *ChatHost
	view    *presenter.Dashboard
	session *usecase.Session
	wizard  *Wizard
}

// chatQueue holds the updates of one chat waiting for its worker.
type chatQueue struct {
	pending []tgbotapi.Update
}

// Bot is the chat front-end of the partner dashboard. It only serves private
// chats, so a chat always belongs to a single partner.
type Bot struct {
	sender    Sender
	gateways  GatewayFactory
	uc        *usecase.Dashboard
	logger    *zap.Logger
	webAppURL string

	mu    sync.Mutex
	chats map[int64]*chat

	qmu    sync.Mutex
	queues map[int64]*chatQueue
}

func NewBot(sender Sender, gateways GatewayFactory, uc *usecase.Dashboard, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		sender:   sender,
		gateways: gateways,
		uc:       uc,
		logger:   logger,
		chats:    make(map[int64]*chat),
		queues:   make(map[int64]*chatQueue),
	}
}

// WithWebAppURL makes /start also offer a link to the Mini App page.
func (b *Bot) WithWebAppURL(url string) *Bot {
	b.webAppURL = url
	return b
}

// Requester is the part of *tgbotapi.BotAPI used for configuration calls.
type Requester interface {
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// SetCommands registers the bot command menu.
func SetCommands(api Requester) error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "🚀 Открыть кабинет партнера"},
		tgbotapi.BotCommand{Command: "refresh", Description: "🔄 Обновить данные"},
		tgbotapi.BotCommand{Command: "profile", Description: "👤 Редактировать профиль"},
		tgbotapi.BotCommand{Command: "back", Description: "🔙 Назад"},
	)
	if _, err := api.Request(commands); err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

// Run handles updates until ctx is done or updates is closed. Chats are
// handled concurrently; the updates of one chat are handled one at a time in
// arrival order.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if msg := update.Message; msg != nil && msg.Chat != nil {
				b.enqueue(ctx, &wg, msg.Chat.ID, update)
			}
		}
	}
}

// enqueue appends update to the chat queue and starts a worker when the
// chat has none.
func (b *Bot) enqueue(ctx context.Context, wg *sync.WaitGroup, chatID int64, update tgbotapi.Update) {
	b.qmu.Lock()
	q, running := b.queues[chatID]
	if !running {
		q = &chatQueue{}
		b.queues[chatID] = q
	}
	q.pending = append(q.pending, update)
	b.qmu.Unlock()

	if running {
		return
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		b.drain(ctx, chatID, q)
	}()
}

// drain handles the queued updates of one chat and retires the queue once it
// is empty.
func (b *Bot) drain(ctx context.Context, chatID int64, q *chatQueue) {
	for {
		b.qmu.Lock()
		if len(q.pending) == 0 || ctx.Err() != nil {
			delete(b.queues, chatID)
			b.qmu.Unlock()
			return
		}
		update := q.pending[0]
		q.pending = q.pending[1:]
		b.qmu.Unlock()

		b.HandleUpdate(ctx, update)
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.From == nil {
		return
	}
	if !msg.Chat.IsPrivate() {
		b.logger.Debug("ignoring non-private chat", zap.Int64("chat_id", msg.Chat.ID), zap.String("type", msg.Chat.Type))
		return
	}

	text := strings.TrimSpace(msg.Text)
	fresh := text == cmdStart
	c, created := b.chatFor(msg, fresh)

	c.mu.Lock()
	defer c.mu.Unlock()

	if created {
		if err := b.uc.Nav.Bootstrap(ctx, c.session); err != nil {
			b.logger.Warn("bootstrap without host user", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
		}
		b.uc.Load.Execute(ctx, c.session)
		b.sendDashboard(c)
		if fresh {
			b.sendWebAppLink(c)
			return
		}
	}

	b.dispatch(ctx, c, msg.Chat.ID, text, created)
}

func (b *Bot) dispatch(ctx context.Context, c *chat, chatID int64, text string, created bool) {
	switch {
	case text == cmdStart:
		b.sendDashboard(c)

	case text == cmdRefresh:
		b.uc.Load.Execute(ctx, c.session)
		b.sendDashboard(c)

	case text == cmdProfile || text == BtnProfile:
		b.uc.Nav.OpenProfileEditor(c.session)
		b.startWizard(c, presenter.ModalProfile)

	case text == cmdBack || text == BtnBack:
		c.host.TriggerBack(ctx)
		if c.wizard != nil && !c.view.IsOpen(c.wizard.Modal()) {
			c.wizard = nil
		}
		if c.host.Closed() {
			b.forget(chatID, c)
			return
		}
		b.sendDashboard(c)

	case text != "" && text == c.host.ActionText():
		c.host.TriggerAction(ctx)
		b.startWizard(c, presenter.ModalLead)

	case c.wizard != nil:
		b.answer(ctx, c, text)

	default:
		if !created {
			b.sendDashboard(c)
		}
	}
}

func (b *Bot) startWizard(c *chat, m presenter.Modal) {
	c.wizard = NewWizard(m, c.view.Snapshot().Forms[m])
	b.send(c, c.wizard.Prompt())
}

func (b *Bot) answer(ctx context.Context, c *chat, text string) {
	w := c.wizard
	if !w.Answer(text) {
		b.send(c, requiredFieldText+"\n"+w.Prompt())
		return
	}
	c.view.SetFormValues(w.Modal(), w.Values())

	if !w.Done() {
		b.send(c, w.Prompt())
		return
	}
	c.wizard = nil

	var err error
	switch w.Modal() {
	case presenter.ModalProfile:
		err = b.uc.Update.Execute(ctx, c.session, usecase.ProfileFormFromValues(w.Values()))
	case presenter.ModalLead:
		err = b.uc.Create.Execute(ctx, c.session, usecase.LeadFormFromValues(w.Values()))
	}
	if err != nil {
		b.logger.Warn("form submission failed", zap.String("form", string(w.Modal())), zap.Error(err))
	}
	b.sendDashboard(c)
}

func (b *Bot) chatFor(msg *tgbotapi.Message, fresh bool) (*chat, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.chats[msg.Chat.ID]; ok && !fresh {
		return c, false
	}

	user := &entity.HostUser{
		ID:        msg.From.ID,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
		Username:  msg.From.UserName,
	}
	host := NewChatHost(b.sender, msg.Chat.ID, user)
	view := presenter.NewDashboard()
	c := &chat{
		host:    host,
		view:    view,
		session: usecase.NewSession(host, view, b.gateways(host, user.ID)),
	}
	b.chats[msg.Chat.ID] = c
	return c, true
}

func (b *Bot) forget(chatID int64, c *chat) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.chats[chatID] == c {
		delete(b.chats, chatID)
	}
}

func (b *Bot) sendDashboard(c *chat) {
	msg := tgbotapi.NewMessage(c.host.chatID, presenter.RenderText(c.view.Snapshot()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = c.host.Keyboard()
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("failed to send dashboard", zap.Int64("chat_id", c.host.chatID), zap.Error(err))
	}
}

func (b *Bot) sendWebAppLink(c *chat) {
	if b.webAppURL == "" {
		return
	}
	msg := tgbotapi.NewMessage(c.host.chatID, webAppLinkText)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(webAppButtonText, b.webAppURL)),
	)
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("failed to send web app link", zap.Int64("chat_id", c.host.chatID), zap.Error(err))
	}
}

func (b *Bot) send(c *chat, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(c.host.chatID, text)); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", c.host.chatID), zap.Error(err))
	}
}
