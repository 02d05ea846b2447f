package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ormatov/chatkeeper/internal/contextkeys"
	"github.com/ormatov/chatkeeper/internal/i18n"
	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/internal/utils"
	"github.com/ormatov/chatkeeper/types"
)

// adminActions are callback routes only the operator may take.
var adminActions = map[string]bool{
	"super_admin":     true,
	"overall_stats":   true,
	"top_users":       true,
	"manage_users":    true,
	"manage_chats":    true,
	"manage_channels": true,
	"blocked_users":   true,
	"send_broadcast":  true,
	"list_users":      true,
	"user_list_page":  true,
	"search_user":     true,
	"search_channel":  true,
	"user":            true,
	"block_user":      true,
	"unblock_user":    true,
	"edit_rating":     true,
	"message_user":    true,
	"list_chats":      true,
	"chat":            true,
	"rename_chat":     true,
	"welcome_settings": true,
	"message_chat":    true,
	"mass_remove":     true,
	"remove_by_username": true,
	"remove_all":      true,
	"confirm_remove_all": true,
	"delete_chat":     true,
	"confirm_delete_chat": true,
	"list_channels":   true,
	"channel":         true,
	"channel_subscribers": true,
	"add_subscribers": true,
	"drop_subscriber": true,
	"record_views":    true,
	"delete_channel":  true,
	"confirm_delete_channel": true,
	"broadcast":       true,
	"add_reactions":   true,
	"db_stats":        true,
}

func (h *Handlers) HandleCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	data, _ := contextkeys.GetCallbackData(ctx)
	if data == "" {
		data = cq.Data
	}
	data = strings.TrimSpace(data)
	action, arg, _ := strings.Cut(data, ":")

	userID := cq.From.ID
	chatID := getChatIDFromUpdate(update)
	lang := h.userLang(ctx, userID)

	if chatID == 0 {
		h.answerCallback(ctx, b, cq.ID, "")
		return
	}

	if adminActions[action] && !h.isAdmin(userID) {
		h.answerCallback(ctx, b, cq.ID, messages.NoPermission(lang))
		return
	}
	h.answerCallback(ctx, b, cq.ID, "")

	switch action {
	case "menu":
		h.sendMainMenu(ctx, b, chatID, userID, lang)
	case "help":
		h.sendText(ctx, b, chatID, messages.Help(lang))
	case "settings":
		h.sendWithKeyboard(ctx, b, chatID, messages.MainMenuText(lang), h.settingsKeyboard(lang))
	case "my_chats":
		h.showMyChats(ctx, b, chatID, userID, lang)
	case "my_channels":
		h.showMyChannels(ctx, b, chatID, userID, lang)
	case "change_language":
		kb := utils.BuildInlineKeyboard([]utils.Button{
			{Text: "🇷🇺 Русский", CallbackData: "set_language:ru"},
			{Text: "🇬🇧 English", CallbackData: "set_language:en"},
		}, 2)
		h.sendWithKeyboard(ctx, b, chatID, messages.BtnLanguage(lang), kb)
	case "set_language":
		newLang := i18n.Parse(arg)
		h.store.SetUserLanguage(strconv.FormatInt(userID, 10), string(newLang))
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.Saved(newLang))
	case "change_name":
		h.prompt(ctx, b, chatID, userID, messages.PromptNewName(lang), types.PendingOp{Kind: types.PendingChangeName})
	case "notifications_settings":
		h.showNotificationSettings(ctx, b, chatID, userID, lang)
	case "toggle_notifications":
		h.toggleNotifications(ctx, b, chatID, userID, lang)
	case "chat_notify":
		h.toggleChatNotification(ctx, b, chatID, userID, arg, lang)
	case "cancel_pending":
		if err := h.sessions.ClearPending(userID); err != nil {
			h.log.Warn().Err(err).Msg("clear pending failed")
		}
		h.sendText(ctx, b, chatID, messages.Cancelled(lang))

	case "super_admin":
		h.sendAdminMenu(ctx, b, chatID, lang)
	case "overall_stats":
		users, chats, channels, msgs := h.store.Totals()
		h.sendWithKeyboard(ctx, b, chatID, messages.OverallStats(lang, users, chats, channels, msgs), h.backKeyboard(lang, "super_admin"))
	case "top_users":
		h.showTopUsers(ctx, b, chatID, lang)
	case "manage_users":
		kb := utils.BuildInlineKeyboard([]utils.Button{
			{Text: messages.BtnListUsers(lang), CallbackData: "list_users"},
			{Text: messages.BtnSearchUser(lang), CallbackData: "search_user"},
			{Text: messages.BtnBack(lang), CallbackData: "super_admin"},
		}, 2)
		h.sendWithKeyboard(ctx, b, chatID, messages.BtnManageUsers(lang), kb)
	case "list_users":
		h.showUserList(ctx, b, chatID, 0, 0, lang)
	case "user_list_page":
		page, _ := strconv.Atoi(arg)
		messageID := 0
		if cq.Message.Message != nil {
			messageID = cq.Message.Message.ID
		}
		h.showUserList(ctx, b, chatID, messageID, page, lang)
	case "search_user":
		h.prompt(ctx, b, chatID, userID, messages.PromptSearchUser(lang), types.PendingOp{Kind: types.PendingSearchUser})
	case "user":
		h.showUserCard(ctx, b, chatID, arg, lang)
	case "block_user":
		h.setBlocked(ctx, b, chatID, arg, true, lang)
	case "unblock_user":
		h.setBlocked(ctx, b, chatID, arg, false, lang)
	case "edit_rating":
		h.prompt(ctx, b, chatID, userID, messages.PromptNewRating(lang), types.PendingOp{Kind: types.PendingEditRating, TargetID: arg})
	case "add_reactions":
		h.prompt(ctx, b, chatID, userID, messages.PromptReactions(lang), types.PendingOp{Kind: types.PendingAddReactions, TargetID: arg})
	case "message_user":
		h.prompt(ctx, b, chatID, userID, messages.PromptMessageText(lang), types.PendingOp{Kind: types.PendingMessageUser, TargetID: arg})
	case "blocked_users":
		h.showBlockedUsers(ctx, b, chatID, lang)
	case "db_stats":
		h.showDBStats(ctx, b, chatID, lang)

	case "manage_chats", "list_chats":
		h.showChatList(ctx, b, chatID, lang)
	case "chat":
		h.showChatCard(ctx, b, chatID, arg, lang)
	case "rename_chat":
		h.prompt(ctx, b, chatID, userID, messages.PromptNewChatTitle(lang), types.PendingOp{Kind: types.PendingRenameChat, TargetID: arg})
	case "welcome_settings":
		h.prompt(ctx, b, chatID, userID, messages.PromptWelcomeTemplate(lang), types.PendingOp{Kind: types.PendingWelcomeTemplate, TargetID: arg})
	case "message_chat":
		h.prompt(ctx, b, chatID, userID, messages.PromptMessageText(lang), types.PendingOp{Kind: types.PendingMessageChat, TargetID: arg})
	case "mass_remove":
		kb := utils.BuildInlineKeyboard([]utils.Button{
			{Text: messages.BtnRemoveByUsername(lang), CallbackData: "remove_by_username:" + arg},
			{Text: messages.BtnRemoveAll(lang), CallbackData: "remove_all:" + arg},
			{Text: messages.BtnBack(lang), CallbackData: "chat:" + arg},
		}, 1)
		h.sendWithKeyboard(ctx, b, chatID, messages.BtnMassRemove(lang), kb)
	case "remove_by_username":
		h.prompt(ctx, b, chatID, userID, messages.PromptRemoveUsername(lang), types.PendingOp{Kind: types.PendingRemoveByName, TargetID: arg})
	case "remove_all":
		chat, ok := h.store.GetChat(arg)
		if !ok {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		kb := utils.BuildInlineKeyboard([]utils.Button{
			{Text: messages.BtnConfirm(lang), CallbackData: "confirm_remove_all:" + arg},
			{Text: messages.BtnCancel(lang), CallbackData: "chat:" + arg},
		}, 2)
		h.sendWithKeyboard(ctx, b, chatID, messages.ConfirmDelete(lang, chat.Title), kb)
	case "confirm_remove_all":
		h.removeAllMembers(ctx, b, chatID, arg, lang)
	case "delete_chat":
		chat, ok := h.store.GetChat(arg)
		if !ok {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		kb := utils.BuildInlineKeyboard([]utils.Button{
			{Text: messages.BtnConfirm(lang), CallbackData: "confirm_delete_chat:" + arg},
			{Text: messages.BtnCancel(lang), CallbackData: "chat:" + arg},
		}, 2)
		h.sendWithKeyboard(ctx, b, chatID, messages.ConfirmDelete(lang, chat.Title), kb)
	case "confirm_delete_chat":
		if h.store.DeleteChat(arg) {
			h.persist(ctx)
			h.sendText(ctx, b, chatID, messages.Deleted(lang))
		} else {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
		}

	case "manage_channels", "list_channels":
		h.showChannelList(ctx, b, chatID, lang)
	case "search_channel":
		h.prompt(ctx, b, chatID, userID, messages.PromptSearchChannel(lang), types.PendingOp{Kind: types.PendingSearchChannel})
	case "channel":
		h.showChannelCard(ctx, b, chatID, arg, lang)
	case "channel_subscribers":
		h.showChannelSubscribers(ctx, b, chatID, arg, lang)
	case "add_subscribers":
		h.prompt(ctx, b, chatID, userID, messages.PromptAddSubscribers(lang), types.PendingOp{Kind: types.PendingAddSubscribers, TargetID: arg})
	case "drop_subscriber":
		h.prompt(ctx, b, chatID, userID, messages.PromptDropSubscriber(lang), types.PendingOp{Kind: types.PendingDropSubscriber, TargetID: arg})
	case "record_views":
		h.prompt(ctx, b, chatID, userID, messages.PromptChannelViews(lang), types.PendingOp{Kind: types.PendingChannelViews, TargetID: arg})
	case "delete_channel":
		ch, ok := h.store.GetChannel(arg)
		if !ok {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		kb := utils.BuildInlineKeyboard([]utils.Button{
			{Text: messages.BtnConfirm(lang), CallbackData: "confirm_delete_channel:" + arg},
			{Text: messages.BtnCancel(lang), CallbackData: "channel:" + arg},
		}, 2)
		h.sendWithKeyboard(ctx, b, chatID, messages.ConfirmDelete(lang, ch.Title), kb)
	case "confirm_delete_channel":
		if h.store.DeleteChannel(arg) {
			h.persist(ctx)
			h.sendText(ctx, b, chatID, messages.Deleted(lang))
		} else {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
		}

	case "send_broadcast":
		kb := utils.BuildInlineKeyboard([]utils.Button{
			{Text: messages.BtnAudienceUsers(lang), CallbackData: "broadcast:" + string(types.AudienceUsers)},
			{Text: messages.BtnAudienceChats(lang), CallbackData: "broadcast:" + string(types.AudienceChats)},
			{Text: messages.BtnAudienceChannels(lang), CallbackData: "broadcast:" + string(types.AudienceChannels)},
			{Text: messages.BtnBack(lang), CallbackData: "super_admin"},
		}, 1)
		h.sendWithKeyboard(ctx, b, chatID, messages.BtnBroadcast(lang), kb)
	case "broadcast":
		h.prompt(ctx, b, chatID, userID, messages.PromptBroadcastText(lang), types.PendingOp{
			Kind:   types.PendingBroadcastText,
			Params: map[string]string{"audience": arg},
		})

	default:
		h.log.Debug().Str("data", data).Msg("unknown callback")
	}
}

// prompt sends a question and arms the pending-input machine for the user.
func (h *Handlers) prompt(ctx context.Context, b *bot.Bot, chatID, userID int64, text string, op types.PendingOp) {
	op.CreatedAt = time.Now().UTC()
	if err := h.sessions.SetPending(userID, &op); err != nil {
		h.log.Error().Err(err).Msg("arm pending failed")
		h.sendText(ctx, b, chatID, messages.ErrorDefault(h.userLang(ctx, userID)))
		return
	}
	kb := utils.BuildInlineKeyboard([]utils.Button{
		{Text: messages.BtnCancel(h.userLang(ctx, userID)), CallbackData: "cancel_pending"},
	}, 1)
	h.sendWithKeyboard(ctx, b, chatID, text, kb)
}

// showNotificationSettings lists the global toggle plus one per-chat
// override button for every chat the user is in.
func (h *Handlers) showNotificationSettings(ctx context.Context, b *bot.Bot, chatID, userID int64, lang i18n.Lang) {
	u, ok := h.store.GetUser(strconv.FormatInt(userID, 10))
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	buttons := []utils.Button{
		{Text: messages.BtnGlobalNotifications(lang, u.Notifications), CallbackData: "toggle_notifications"},
	}
	for _, cid := range u.Chats {
		c, ok := h.store.GetChat(cid)
		if !ok {
			continue
		}
		state := "🔔"
		if enabled, overridden := u.ChatNotifications[cid]; overridden && !enabled {
			state = "🔕"
		}
		buttons = append(buttons, utils.Button{Text: state + " " + c.Title, CallbackData: "chat_notify:" + cid})
	}
	buttons = append(buttons, utils.Button{Text: messages.BtnBack(lang), CallbackData: "settings"})
	h.sendWithKeyboard(ctx, b, chatID, messages.NotificationsMenu(lang), utils.BuildInlineKeyboard(buttons, 1))
}

func (h *Handlers) toggleNotifications(ctx context.Context, b *bot.Bot, chatID, userID int64, lang i18n.Lang) {
	id := strconv.FormatInt(userID, 10)
	u, ok := h.store.GetUser(id)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	u.Notifications = !u.Notifications
	h.store.UpsertUser(u)
	h.persist(ctx)
	h.showNotificationSettings(ctx, b, chatID, userID, lang)
}

func (h *Handlers) toggleChatNotification(ctx context.Context, b *bot.Bot, chatID, userID int64, targetChat string, lang i18n.Lang) {
	id := strconv.FormatInt(userID, 10)
	u, ok := h.store.GetUser(id)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	enabled, overridden := u.ChatNotifications[targetChat]
	if !overridden {
		enabled = true
	}
	if !h.store.SetChatNotification(id, targetChat, !enabled) {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	h.persist(ctx)
	h.showNotificationSettings(ctx, b, chatID, userID, lang)
}

func (h *Handlers) showDBStats(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) {
	if h.analytics == nil {
		h.sendWithKeyboard(ctx, b, chatID, messages.DBStatsUnavailable(lang), h.backKeyboard(lang, "super_admin"))
		return
	}
	now := time.Now().UTC()
	day, err := h.analytics.MessageCountSince(now.Add(-24 * time.Hour))
	if err != nil {
		h.log.Error().Err(err).Msg("analytics query failed")
		h.sendText(ctx, b, chatID, messages.ErrorDefault(lang))
		return
	}
	week, err := h.analytics.MessageCountSince(now.Add(-7 * 24 * time.Hour))
	if err != nil {
		h.log.Error().Err(err).Msg("analytics query failed")
		h.sendText(ctx, b, chatID, messages.ErrorDefault(lang))
		return
	}
	h.sendWithKeyboard(ctx, b, chatID, messages.DBStats(lang, day, week), h.backKeyboard(lang, "super_admin"))
}

func (h *Handlers) setBlocked(ctx context.Context, b *bot.Bot, chatID int64, targetID string, blocked bool, lang i18n.Lang) {
	if !h.store.SetUserBlocked(targetID, blocked) {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	h.persist(ctx)
	h.sendText(ctx, b, chatID, messages.UserBlocked(lang, blocked))
}

func (h *Handlers) removeAllMembers(ctx context.Context, b *bot.Bot, chatID int64, targetChat string, lang i18n.Lang) {
	chat, ok := h.store.GetChat(targetChat)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	removed := 0
	for _, member := range chat.Members {
		h.store.RemoveUserFromChat(member, targetChat)
		removed++
	}
	h.persist(ctx)
	h.sendText(ctx, b, chatID, messages.Removed(lang, removed))
}

func fmtUserLine(i int, u types.User, rating int64) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.ID
	}
	return fmt.Sprintf("%d. %s %s — %d", i, messages.RankEmoji(rating), messages.Escape(name), rating)
}
