package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"

	"github.com/ormatov/chatkeeper/internal/alerts"
	"github.com/ormatov/chatkeeper/internal/contextkeys"
	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/store"
	"github.com/ormatov/chatkeeper/types"
)

type Middlewares struct {
	store     *store.Store
	analytics types.AnalyticsStore
	alerts    *alerts.Notifier
	log       zerolog.Logger
}

func New(st *store.Store, analytics types.AnalyticsStore, notifier *alerts.Notifier, log zerolog.Logger) *Middlewares {
	return &Middlewares{
		store:     st,
		analytics: analytics,
		alerts:    notifier,
		log:       log,
	}
}

// ClassifyMiddleware tags the update with its message type and callback
// payload so the dispatcher can switch on them.
func (m *Middlewares) ClassifyMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		switch {
		case update.CallbackQuery != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeClickButton)
			ctx = contextkeys.WithCallbackData(ctx, update.CallbackQuery.Data)
		case update.ChannelPost != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeChannelPost)
		case update.MyChatMember != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeChatMember)
		case update.Message != nil && len(update.Message.NewChatMembers) > 0:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeMemberJoin)
		case update.Message != nil && update.Message.LeftChatMember != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeMemberLeft)
		case update.Message != nil && strings.HasPrefix(update.Message.Text, "/"):
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeCommand)
		case update.Message != nil:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeText)
		default:
			ctx = contextkeys.WithMessageType(ctx, contextkeys.MessageTypeUnknown)
		}
		next(ctx, b, update)
	}
}

// AccessMiddleware silently drops updates from blocked users.
func (m *Middlewares) AccessMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		from := fromUser(update)
		if from != nil && m.store.IsUserBlocked(strconv.FormatInt(from.ID, 10)) {
			m.log.Debug().Int64("user_id", from.ID).Msg("dropping update from blocked user")
			return
		}
		next(ctx, b, update)
	}
}

// TrackMiddleware is the engagement bookkeeper: it registers the sender,
// bumps message counters, keeps user/chat membership in sync and persists
// after the mutation. Handlers downstream see an up-to-date store.
func (m *Middlewares) TrackMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		msgType, _ := contextkeys.GetMessageType(ctx)
		from := fromUser(update)

		if from != nil && !from.IsBot {
			userID := strconv.FormatInt(from.ID, 10)
			u := m.store.TouchUser(userID, from.FirstName, from.LastName, from.Username)
			if u.Language != "" {
				ctx = contextkeys.WithLang(ctx, u.Language)
			} else {
				ctx = contextkeys.WithLang(ctx, from.LanguageCode)
			}

			if msgType == contextkeys.MessageTypeText && update.Message != nil {
				m.store.IncrementUserMessages(userID)

				chat := update.Message.Chat
				chatType := string(chat.Type)
				if chatType == "group" || chatType == "supergroup" {
					chatID := strconv.FormatInt(chat.ID, 10)
					m.store.TouchChat(chatID, chat.Title, chatType)
					m.store.AddUserToChat(userID, chatID)
					m.store.IncrementChatMessages(chatID)
				}
			}

			if err := m.store.Persist(); err != nil {
				m.log.Error().Err(err).Msg("persist after tracking failed")
				m.alerts.Alert(ctx, messages.AlertPersistFailed(err))
			}

			m.recordAnalytics(from, update, msgType)
		}

		next(ctx, b, update)
	}
}

func (m *Middlewares) recordAnalytics(from *models.User, update *models.Update, msgType contextkeys.MessageType) {
	if m.analytics == nil {
		return
	}
	if err := m.analytics.UpsertUser(from.ID, from.Username, from.FirstName, from.LastName); err != nil {
		m.log.Warn().Err(err).Msg("analytics user upsert failed")
		return
	}
	var chatID int64
	if update.Message != nil {
		chatID = update.Message.Chat.ID
	}
	if err := m.analytics.RecordMessage(from.ID, chatID, string(msgType)); err != nil {
		m.log.Warn().Err(err).Msg("analytics message record failed")
	}
}

func fromUser(update *models.Update) *models.User {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From
	case update.CallbackQuery != nil:
		return &update.CallbackQuery.From
	case update.MyChatMember != nil:
		return &update.MyChatMember.From
	default:
		return nil
	}
}
