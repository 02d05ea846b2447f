package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/ormatov/chatkeeper/internal/alerts"
	"github.com/ormatov/chatkeeper/internal/broadcast"
	"github.com/ormatov/chatkeeper/internal/contextkeys"
	"github.com/ormatov/chatkeeper/internal/i18n"
	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/store"
	"github.com/ormatov/chatkeeper/types"
)

const usersPerPage = 10

type Handlers struct {
	store     *store.Store
	sessions  types.SessionStore
	bc        *broadcast.Broadcaster
	alerts    *alerts.Notifier
	analytics types.AnalyticsStore
	adminID   int64
	log       zerolog.Logger

	startedAt time.Time
}

func NewHandlers(st *store.Store, sessions types.SessionStore, bc *broadcast.Broadcaster, notifier *alerts.Notifier, analytics types.AnalyticsStore, adminID int64, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:     st,
		sessions:  sessions,
		bc:        bc,
		alerts:    notifier,
		analytics: analytics,
		adminID:   adminID,
		log:       log,
		startedAt: time.Now(),
	}
}

func (h *Handlers) MainHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	msgType, _ := contextkeys.GetMessageType(ctx)

	switch msgType {
	case contextkeys.MessageTypeCommand:
		h.HandleCommand(ctx, b, update)
	case contextkeys.MessageTypeClickButton:
		h.HandleCallback(ctx, b, update)
	case contextkeys.MessageTypeText:
		h.HandleText(ctx, b, update)
	case contextkeys.MessageTypeMemberJoin:
		h.HandleNewMembers(ctx, b, update)
	case contextkeys.MessageTypeMemberLeft:
		h.HandleMemberLeft(ctx, b, update)
	case contextkeys.MessageTypeChannelPost:
		h.HandleChannelPost(ctx, b, update)
	case contextkeys.MessageTypeChatMember:
		h.HandleMyChatMember(ctx, b, update)
	}
}

// HandleText routes a plain message either into the pending-input machine
// (the bot asked this user a question) or to the unknown-command fallback
// in private chats. Group chatter is already counted by the middleware.
func (h *Handlers) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	op, err := h.sessions.GetPending(update.Message.From.ID)
	if err != nil {
		h.log.Warn().Err(err).Msg("pending lookup failed")
	}
	if op != nil {
		h.HandlePendingInput(ctx, b, update, op)
		return
	}

	if string(update.Message.Chat.Type) == "private" {
		lang := h.langFromCtx(ctx)
		h.sendText(ctx, b, update.Message.Chat.ID, messages.UnknownCommand(lang))
	}
}

// isAdmin is the authorization gate for every privileged operation: a plain
// id comparison against the single configured operator.
func (h *Handlers) isAdmin(userID int64) bool {
	return userID != 0 && userID == h.adminID
}

func (h *Handlers) langFromCtx(ctx context.Context) i18n.Lang {
	if v, ok := contextkeys.GetLang(ctx); ok {
		return i18n.Parse(v)
	}
	return i18n.RU
}

func (h *Handlers) userLang(ctx context.Context, userID int64) i18n.Lang {
	if u, ok := h.store.GetUser(strconv.FormatInt(userID, 10)); ok && u.Language != "" {
		return i18n.Parse(u.Language)
	}
	return h.langFromCtx(ctx)
}

// persist flushes the store and reports a failure without interrupting the
// current operation: in-memory state stays authoritative.
func (h *Handlers) persist(ctx context.Context) {
	if err := h.store.Persist(); err != nil {
		h.log.Error().Err(err).Msg("persist failed")
		h.alerts.Alert(ctx, messages.AlertPersistFailed(err))
	}
}

func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	if err != nil {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (h *Handlers) sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, kb models.InlineKeyboardMarkup) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: &kb,
	})
	if err != nil {
		h.log.Error().Err(err).Int64("chat_id", chatID).Msg("send failed")
	}
}

func (h *Handlers) editWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, kb models.InlineKeyboardMarkup) {
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: &kb,
	})
	if err != nil {
		h.log.Warn().Err(err).Int64("chat_id", chatID).Msg("edit failed")
	}
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, id, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: id,
		Text:            text,
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("answer callback failed")
	}
}

func getChatIDFromUpdate(update *models.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil:
		return getChatIDFromMaybeInaccessibleMessage(update.CallbackQuery.Message)
	default:
		return 0
	}
}

func getChatIDFromMaybeInaccessibleMessage(m models.MaybeInaccessibleMessage) int64 {
	if m.Message != nil {
		return m.Message.Chat.ID
	}
	if m.InaccessibleMessage != nil {
		return m.InaccessibleMessage.Chat.ID
	}
	return 0
}
