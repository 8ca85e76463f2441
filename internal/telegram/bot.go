// Package telegram connects the registration flow and the admin commands to
// the Telegram Bot API via long polling.
package telegram

import (
	"context"
	"iter"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitrijs2005/driveaccess/internal/admin"
	"github.com/dmitrijs2005/driveaccess/internal/drive"
	"github.com/dmitrijs2005/driveaccess/internal/i18n"
	"github.com/dmitrijs2005/driveaccess/internal/logging"
	"github.com/dmitrijs2005/driveaccess/internal/registration"
	"github.com/dmitrijs2005/driveaccess/internal/server/models"
)

// botAPI is the part of *tgbotapi.BotAPI the bot uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Registrar interface {
	Handle(ctx context.Context, ev registration.Event) (registration.Result, error)
}

type Files interface {
	ListRecentFiles(ctx context.Context, team string, limit int) iter.Seq2[drive.File, error]
	FolderURL(team string) (string, error)
}

type Admin interface {
	TeamSummary(ctx context.Context) ([]models.TeamStat, error)
	ListByTeam(ctx context.Context, team string) ([]string, error)
	ListAll(ctx context.Context) ([]*models.Profile, error)
	Export(ctx context.Context) (admin.ExportResult, error)
	Broadcast(ctx context.Context, text string) (admin.Report, error)
}

type Options struct {
	Teams          []string
	AdminIDs       []int64
	FilePanelLimit int
	// Notice is the text sent by /broadcast_start.
	Notice string
	// PollTimeout is the long-polling timeout in seconds.
	PollTimeout int
}

type Bot struct {
	api    botAPI
	reg    Registrar
	files  Files
	admin  Admin
	tr     *i18n.Translator
	logger logging.Logger

	teams   []string
	admins  map[int64]struct{}
	limit   int
	notice  string
	timeout int

	wg sync.WaitGroup
}

func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

func New(api botAPI, reg Registrar, files Files, adm Admin, tr *i18n.Translator, opts Options, logger logging.Logger) *Bot {
	admins := make(map[int64]struct{}, len(opts.AdminIDs))
	for _, id := range opts.AdminIDs {
		admins[id] = struct{}{}
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 60
	}

	return &Bot{
		api:     api,
		reg:     reg,
		files:   files,
		admin:   adm,
		tr:      tr,
		logger:  logger.With("module", "telegram"),
		teams:   append([]string(nil), opts.Teams...),
		admins:  admins,
		limit:   opts.FilePanelLimit,
		notice:  opts.Notice,
		timeout: opts.PollTimeout,
	}
}

// Run polls for updates until ctx is done. Each update is handled in its own
// goroutine; Run waits for in-flight handlers before returning.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info(ctx, "Starting bot")
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info(ctx, "Stopping bot...")
			b.api.StopReceivingUpdates()
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.HandleUpdate(ctx, upd)
			}()
		}
	}
}

// Sender delivers plain text messages; it backs the admin broadcaster.
type Sender struct {
	api botAPI
}

func NewSender(api botAPI) *Sender {
	return &Sender{api: api}
}

func (s *Sender) SendText(_ context.Context, chatID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil && upd.Message.From != nil:
		b.onMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil && upd.CallbackQuery.From != nil:
		b.onCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) isAdmin(id int64) bool {
	_, ok := b.admins[id]
	return ok
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, markup any) {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn(ctx, "send failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.From.ID
	if msg.Chat != nil {
		chatID = msg.Chat.ID
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.dispatch(ctx, chatID, b.event(msg.From, registration.Start, ""))
			return
		case "admin":
			b.adminDashboard(ctx, chatID, msg.From.ID)
			return
		case "admin_users":
			b.adminUsers(ctx, chatID, msg.From.ID)
			return
		case "broadcast_start":
			b.adminBroadcast(ctx, chatID, msg.From.ID)
			return
		case "export":
			b.adminExport(ctx, chatID, msg.From.ID)
			return
		}
	}

	if msg.Contact != nil {
		// only the sender's own number counts
		if msg.Contact.UserID != 0 && msg.Contact.UserID != msg.From.ID {
			b.send(ctx, chatID, b.tr.T(i18n.MsgSharePhone), b.contactKeyboard())
			return
		}
		b.dispatch(ctx, chatID, b.event(msg.From, registration.PhoneShared, msg.Contact.PhoneNumber))
		return
	}

	b.dispatch(ctx, chatID, b.event(msg.From, registration.TextReceived, msg.Text))
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.From.ID
	if cb.Message != nil && cb.Message.Chat != nil {
		chatID = cb.Message.Chat.ID
	}

	prefix, value, _ := strings.Cut(cb.Data, "|")
	switch prefix {
	case "team":
		b.answer(ctx, cb.ID, "", false)
		b.dispatch(ctx, chatID, b.event(cb.From, registration.TeamChosen, value))
	case "admin_team":
		if !b.isAdmin(cb.From.ID) {
			b.answer(ctx, cb.ID, b.tr.T(i18n.MsgNotAuthorizedShort), true)
			return
		}
		b.answer(ctx, cb.ID, "", false)
		b.teamEmails(ctx, chatID, value)
	case "files":
		b.answer(ctx, cb.ID, "", false)
		b.filePanel(ctx, chatID, value)
	default:
		b.answer(ctx, cb.ID, "", false)
	}
}

func (b *Bot) answer(ctx context.Context, id, text string, alert bool) {
	cfg := tgbotapi.NewCallback(id, text)
	if alert {
		cfg = tgbotapi.NewCallbackWithAlert(id, text)
	}
	if _, err := b.api.Request(cfg); err != nil {
		b.logger.Debug(ctx, "callback answer failed", "error", err)
	}
}

func (b *Bot) event(from *tgbotapi.User, kind registration.EventKind, payload string) registration.Event {
	name := strings.TrimSpace(strings.TrimSpace(from.FirstName) + " " + strings.TrimSpace(from.LastName))
	return registration.Event{
		UserID:      from.ID,
		Kind:        kind,
		Payload:     payload,
		DisplayName: name,
		Handle:      from.UserName,
	}
}

func (b *Bot) dispatch(ctx context.Context, chatID int64, ev registration.Event) {
	ev.Progress = func(text string) { b.send(ctx, chatID, text, nil) }

	res, err := b.reg.Handle(ctx, ev)
	if err != nil && res.Message == "" {
		res.Message = b.tr.T(i18n.MsgUnexpected)
	}
	if res.Message == "" {
		return
	}
	b.render(ctx, chatID, res)
}

func (b *Bot) render(ctx context.Context, chatID int64, res registration.Result) {
	switch res.Data.Keyboard {
	case registration.KeyboardContact:
		b.send(ctx, chatID, res.Message, b.contactKeyboard())
	case registration.KeyboardTeams:
		b.send(ctx, chatID, res.Message, b.teamKeyboard("team", "", res.Data.Teams))
	case registration.KeyboardRemove:
		b.send(ctx, chatID, res.Message, tgbotapi.NewRemoveKeyboard(true))
	case registration.KeyboardFolder:
		b.send(ctx, chatID, res.Message, tgbotapi.NewRemoveKeyboard(true))
		if res.Outcome == registration.OutcomeSuccess {
			b.send(ctx, chatID, b.tr.T(i18n.MsgAccessInstructions), nil)
		}
		b.send(ctx, chatID, b.tr.T(i18n.MsgFilePanelPrompt), b.folderKeyboard(res.Data.Team, res.Data.FolderURL))
	default:
		b.send(ctx, chatID, res.Message, nil)
	}
}
