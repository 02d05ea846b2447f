package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ormatov/chatkeeper/internal/i18n"
	"github.com/ormatov/chatkeeper/internal/messages"
)

func (h *Handlers) HandleCommand(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	fields := strings.Fields(update.Message.Text)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	lang := h.userLang(ctx, userID)

	switch cmd {
	case "/start":
		name := update.Message.From.FirstName
		h.sendWithKeyboard(ctx, b, chatID, messages.StartWelcome(lang, name), h.startKeyboard(lang))
		h.log.Info().Int64("user_id", userID).Msg("user started the bot")

	case "/help":
		h.sendText(ctx, b, chatID, messages.Help(lang))

	case "/menu":
		h.sendMainMenu(ctx, b, chatID, userID, lang)

	case "/status":
		users, chats, channels, _ := h.store.Totals()
		uptime := time.Since(h.startedAt).Round(time.Second).String()
		h.sendText(ctx, b, chatID, messages.Status(lang, uptime, users, chats, channels))

	case "/super_admin":
		if !h.isAdmin(userID) {
			h.sendText(ctx, b, chatID, messages.NoPermission(lang))
			return
		}
		h.sendAdminMenu(ctx, b, chatID, lang)

	case "/scan_members":
		if !h.isAdmin(userID) {
			h.sendText(ctx, b, chatID, messages.NoPermission(lang))
			return
		}
		h.scanChatMembers(ctx, b, update)

	case "/update_stats":
		if !h.isAdmin(userID) {
			h.sendText(ctx, b, chatID, messages.NoPermission(lang))
			return
		}
		h.refreshPlatformStats(ctx, b, chatID, lang)

	default:
		h.sendText(ctx, b, chatID, messages.UnknownCommand(lang))
	}
}

// refreshPlatformStats re-reads every known chat and channel from the
// transport and folds the current titles and handles back into the store.
// Unreachable entries (the bot was removed, the chat is gone) are skipped.
func (h *Handlers) refreshPlatformStats(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) {
	chats := 0
	for _, c := range h.store.ListChats() {
		id, err := strconv.ParseInt(c.ID, 10, 64)
		if err != nil {
			continue
		}
		info, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: id})
		if err != nil {
			h.log.Warn().Err(err).Str("chat_id", c.ID).Msg("chat refresh failed")
			continue
		}
		if info.Title != "" {
			c.Title = info.Title
		}
		c.Type = string(info.Type)
		h.store.UpsertChat(c)
		chats++
	}

	channels := 0
	for _, ch := range h.store.ListChannels() {
		id, err := strconv.ParseInt(ch.ID, 10, 64)
		if err != nil {
			continue
		}
		info, err := b.GetChat(ctx, &bot.GetChatParams{ChatID: id})
		if err != nil {
			h.log.Warn().Err(err).Str("channel_id", ch.ID).Msg("channel refresh failed")
			continue
		}
		h.store.TouchChannel(ch.ID, info.Title, info.Username)
		channels++
	}

	h.persist(ctx)
	h.sendText(ctx, b, chatID, messages.StatsRefreshed(lang, chats, channels))
}

// scanChatMembers pulls the member list the transport can give us (the
// administrators) and records them. Regular members arrive one by one as
// they write; there is no bulk listing API to do better.
func (h *Handlers) scanChatMembers(ctx context.Context, b *bot.Bot, update *models.Update) {
	chat := update.Message.Chat
	chatType := string(chat.Type)
	lang := h.userLang(ctx, update.Message.From.ID)
	if chatType != "group" && chatType != "supergroup" {
		h.sendText(ctx, b, chat.ID, messages.ErrorDefault(lang))
		return
	}

	chatID := strconv.FormatInt(chat.ID, 10)
	h.store.TouchChat(chatID, chat.Title, chatType)

	admins, err := b.GetChatAdministrators(ctx, &bot.GetChatAdministratorsParams{ChatID: chat.ID})
	if err != nil {
		h.log.Error().Err(err).Str("chat_id", chatID).Msg("admin scan failed")
		h.sendText(ctx, b, chat.ID, messages.ErrorDefault(lang))
		return
	}

	added := 0
	for _, m := range admins {
		var u *models.User
		switch {
		case m.Owner != nil:
			u = m.Owner.User
		case m.Administrator != nil:
			u = &m.Administrator.User
		}
		if u == nil || u.IsBot {
			continue
		}
		uid := strconv.FormatInt(u.ID, 10)
		h.store.TouchUser(uid, u.FirstName, u.LastName, u.Username)
		h.store.AddUserToChat(uid, chatID)
		added++
	}
	h.persist(ctx)
	h.sendText(ctx, b, chat.ID, messages.ScanDone(lang, added))
}
