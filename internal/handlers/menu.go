package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ormatov/chatkeeper/internal/i18n"
	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/internal/utils"
)

func (h *Handlers) startKeyboard(lang i18n.Lang) models.InlineKeyboardMarkup {
	return utils.BuildInlineKeyboard([]utils.Button{
		{Text: messages.BtnHelp(lang), CallbackData: "help"},
		{Text: messages.BtnSettings(lang), CallbackData: "settings"},
	}, 1)
}

func (h *Handlers) sendMainMenu(ctx context.Context, b *bot.Bot, chatID, userID int64, lang i18n.Lang) {
	buttons := []utils.Button{
		{Text: messages.BtnMyChats(lang), CallbackData: "my_chats"},
		{Text: messages.BtnMyChannels(lang), CallbackData: "my_channels"},
		{Text: messages.BtnSettings(lang), CallbackData: "settings"},
		{Text: messages.BtnHelp(lang), CallbackData: "help"},
	}
	if h.isAdmin(userID) {
		buttons = append(buttons, utils.Button{Text: messages.BtnAdminPanel(lang), CallbackData: "super_admin"})
	}
	h.sendWithKeyboard(ctx, b, chatID, messages.MainMenuText(lang), utils.BuildInlineKeyboard(buttons, 2))
}

func (h *Handlers) adminKeyboard(lang i18n.Lang) models.InlineKeyboardMarkup {
	return utils.BuildInlineKeyboard([]utils.Button{
		{Text: messages.BtnOverallStats(lang), CallbackData: "overall_stats"},
		{Text: messages.BtnTopUsers(lang), CallbackData: "top_users"},
		{Text: messages.BtnManageUsers(lang), CallbackData: "manage_users"},
		{Text: messages.BtnManageChats(lang), CallbackData: "manage_chats"},
		{Text: messages.BtnManageChannels(lang), CallbackData: "manage_channels"},
		{Text: messages.BtnBlockedUsers(lang), CallbackData: "blocked_users"},
		{Text: messages.BtnBroadcast(lang), CallbackData: "send_broadcast"},
		{Text: messages.BtnDBStats(lang), CallbackData: "db_stats"},
	}, 2)
}

func (h *Handlers) sendAdminMenu(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) {
	h.sendWithKeyboard(ctx, b, chatID, messages.AdminMenuText(lang), h.adminKeyboard(lang))
}

func (h *Handlers) settingsKeyboard(lang i18n.Lang) models.InlineKeyboardMarkup {
	return utils.BuildInlineKeyboard([]utils.Button{
		{Text: messages.BtnLanguage(lang), CallbackData: "change_language"},
		{Text: messages.BtnChangeName(lang), CallbackData: "change_name"},
		{Text: messages.BtnNotifications(lang), CallbackData: "notifications_settings"},
		{Text: messages.BtnBack(lang), CallbackData: "menu"},
	}, 1)
}

func (h *Handlers) userCardKeyboard(lang i18n.Lang, userID string, blocked bool) models.InlineKeyboardMarkup {
	blockBtn := utils.Button{Text: messages.BtnBlock(lang), CallbackData: "block_user:" + userID}
	if blocked {
		blockBtn = utils.Button{Text: messages.BtnUnblock(lang), CallbackData: "unblock_user:" + userID}
	}
	return utils.BuildInlineKeyboard([]utils.Button{
		blockBtn,
		{Text: messages.BtnEditRating(lang), CallbackData: "edit_rating:" + userID},
		{Text: messages.BtnAddReactions(lang), CallbackData: "add_reactions:" + userID},
		{Text: messages.BtnMessage(lang), CallbackData: "message_user:" + userID},
		{Text: messages.BtnBack(lang), CallbackData: "manage_users"},
	}, 2)
}

func (h *Handlers) chatCardKeyboard(lang i18n.Lang, chatID string) models.InlineKeyboardMarkup {
	return utils.BuildInlineKeyboard([]utils.Button{
		{Text: messages.BtnRename(lang), CallbackData: "rename_chat:" + chatID},
		{Text: messages.BtnWelcomeTemplate(lang), CallbackData: "welcome_settings:" + chatID},
		{Text: messages.BtnMessage(lang), CallbackData: "message_chat:" + chatID},
		{Text: messages.BtnMassRemove(lang), CallbackData: "mass_remove:" + chatID},
		{Text: messages.BtnDelete(lang), CallbackData: "delete_chat:" + chatID},
		{Text: messages.BtnBack(lang), CallbackData: "manage_chats"},
	}, 2)
}

func (h *Handlers) channelCardKeyboard(lang i18n.Lang, channelID string) models.InlineKeyboardMarkup {
	return utils.BuildInlineKeyboard([]utils.Button{
		{Text: messages.BtnSubscribers(lang), CallbackData: "channel_subscribers:" + channelID},
		{Text: messages.BtnAddSubscribers(lang), CallbackData: "add_subscribers:" + channelID},
		{Text: messages.BtnDropSubscriber(lang), CallbackData: "drop_subscriber:" + channelID},
		{Text: messages.BtnRecordViews(lang), CallbackData: "record_views:" + channelID},
		{Text: messages.BtnDelete(lang), CallbackData: "delete_channel:" + channelID},
		{Text: messages.BtnBack(lang), CallbackData: "manage_channels"},
	}, 2)
}

func (h *Handlers) backKeyboard(lang i18n.Lang, target string) models.InlineKeyboardMarkup {
	return utils.BuildInlineKeyboard([]utils.Button{
		{Text: messages.BtnBack(lang), CallbackData: target},
	}, 1)
}
