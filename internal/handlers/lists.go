package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"

	"github.com/ormatov/chatkeeper/internal/i18n"
	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/internal/utils"
	"github.com/ormatov/chatkeeper/store"
)

func (h *Handlers) showMyChats(ctx context.Context, b *bot.Bot, chatID, userID int64, lang i18n.Lang) {
	u, ok := h.store.GetUser(strconv.FormatInt(userID, 10))
	if !ok || len(u.Chats) == 0 {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	var sb strings.Builder
	sb.WriteString(messages.BtnMyChats(lang) + "\n\n")
	for _, cid := range u.Chats {
		if c, ok := h.store.GetChat(cid); ok {
			sb.WriteString("• " + messages.Escape(c.Title) + "\n")
		}
	}
	h.sendText(ctx, b, chatID, sb.String())
}

func (h *Handlers) showMyChannels(ctx context.Context, b *bot.Bot, chatID, userID int64, lang i18n.Lang) {
	u, ok := h.store.GetUser(strconv.FormatInt(userID, 10))
	if !ok || len(u.Channels) == 0 {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	var sb strings.Builder
	sb.WriteString(messages.BtnMyChannels(lang) + "\n\n")
	for _, cid := range u.Channels {
		if c, ok := h.store.GetChannel(cid); ok {
			sb.WriteString("• " + messages.Escape(c.Title) + "\n")
		}
	}
	h.sendText(ctx, b, chatID, sb.String())
}

func (h *Handlers) showTopUsers(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) {
	top := h.store.TopUsers(10)
	if len(top) == 0 {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	var sb strings.Builder
	sb.WriteString(messages.TopUsersHeader(lang) + "\n")
	for i, u := range top {
		sb.WriteString(fmtUserLine(i+1, u, store.Rating(u)) + "\n")
	}
	h.sendWithKeyboard(ctx, b, chatID, sb.String(), h.backKeyboard(lang, "super_admin"))
}

// showUserList renders one page of the user list with paging controls.
// A non-zero messageID flips the page in place instead of sending a new
// message.
func (h *Handlers) showUserList(ctx context.Context, b *bot.Bot, chatID int64, messageID, page int, lang i18n.Lang) {
	users := h.store.ListUsers()
	if len(users) == 0 {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}

	pages := (len(users) + usersPerPage - 1) / usersPerPage
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}
	start := page * usersPerPage
	end := start + usersPerPage
	if end > len(users) {
		end = len(users)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d/%d)\n\n", messages.BtnManageUsers(lang), page+1, pages))
	buttons := make([]utils.Button, 0, usersPerPage+3)
	for i, u := range users[start:end] {
		rating := store.Rating(u)
		sb.WriteString(fmtUserLine(start+i+1, u, rating) + "\n")
		label := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if label == "" {
			label = u.ID
		}
		buttons = append(buttons, utils.Button{Text: label, CallbackData: "user:" + u.ID})
	}
	if page > 0 {
		buttons = append(buttons, utils.Button{Text: messages.BtnPrevPage(lang), CallbackData: fmt.Sprintf("user_list_page:%d", page-1)})
	}
	if page < pages-1 {
		buttons = append(buttons, utils.Button{Text: messages.BtnNextPage(lang), CallbackData: fmt.Sprintf("user_list_page:%d", page+1)})
	}
	buttons = append(buttons, utils.Button{Text: messages.BtnBack(lang), CallbackData: "manage_users"})

	kb := utils.BuildInlineKeyboard(buttons, 2)
	if messageID != 0 {
		h.editWithKeyboard(ctx, b, chatID, messageID, sb.String(), kb)
		return
	}
	h.sendWithKeyboard(ctx, b, chatID, sb.String(), kb)
}

func (h *Handlers) showUserCard(ctx context.Context, b *bot.Bot, chatID int64, targetID string, lang i18n.Lang) {
	u, ok := h.store.GetUser(targetID)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	card := messages.UserCard(lang, u.FirstName, u.LastName, u.Username, u.ID,
		u.MessagesCount, u.ReactionsReceived, store.Rating(u), u.Blocked)
	h.sendWithKeyboard(ctx, b, chatID, card, h.userCardKeyboard(lang, u.ID, u.Blocked))
}

func (h *Handlers) showBlockedUsers(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) {
	var sb strings.Builder
	sb.WriteString(messages.BtnBlockedUsers(lang) + "\n\n")
	buttons := make([]utils.Button, 0)
	n := 0
	for _, u := range h.store.ListUsers() {
		if !u.Blocked {
			continue
		}
		n++
		name := strings.TrimSpace(u.FirstName + " " + u.LastName)
		if name == "" {
			name = u.ID
		}
		sb.WriteString("🚫 " + messages.Escape(name) + "\n")
		buttons = append(buttons, utils.Button{Text: name, CallbackData: "user:" + u.ID})
	}
	if n == 0 {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	buttons = append(buttons, utils.Button{Text: messages.BtnBack(lang), CallbackData: "super_admin"})
	h.sendWithKeyboard(ctx, b, chatID, sb.String(), utils.BuildInlineKeyboard(buttons, 2))
}

func (h *Handlers) showChatList(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) {
	chats := h.store.ListChats()
	if len(chats) == 0 {
		h.sendWithKeyboard(ctx, b, chatID, messages.NotFound(lang), h.backKeyboard(lang, "super_admin"))
		return
	}
	buttons := make([]utils.Button, 0, len(chats)+1)
	for _, c := range chats {
		title := c.Title
		if title == "" {
			title = c.ID
		}
		buttons = append(buttons, utils.Button{Text: title, CallbackData: "chat:" + c.ID})
	}
	buttons = append(buttons, utils.Button{Text: messages.BtnBack(lang), CallbackData: "super_admin"})
	h.sendWithKeyboard(ctx, b, chatID, messages.BtnManageChats(lang), utils.BuildInlineKeyboard(buttons, 1))
}

func (h *Handlers) showChatCard(ctx context.Context, b *bot.Bot, chatID int64, targetID string, lang i18n.Lang) {
	c, ok := h.store.GetChat(targetID)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	card := messages.ChatCard(lang, c.Title, c.ID, len(c.Members), c.MessagesCount, c.Active)
	h.sendWithKeyboard(ctx, b, chatID, card, h.chatCardKeyboard(lang, c.ID))
}

func (h *Handlers) showChannelList(ctx context.Context, b *bot.Bot, chatID int64, lang i18n.Lang) {
	channels := h.store.ListChannels()
	if len(channels) == 0 {
		h.sendWithKeyboard(ctx, b, chatID, messages.NotFound(lang), h.backKeyboard(lang, "super_admin"))
		return
	}
	buttons := make([]utils.Button, 0, len(channels)+2)
	for _, c := range channels {
		title := c.Title
		if title == "" {
			title = c.ID
		}
		buttons = append(buttons, utils.Button{Text: title, CallbackData: "channel:" + c.ID})
	}
	buttons = append(buttons, utils.Button{Text: messages.BtnSearchUser(lang), CallbackData: "search_channel"})
	buttons = append(buttons, utils.Button{Text: messages.BtnBack(lang), CallbackData: "super_admin"})
	h.sendWithKeyboard(ctx, b, chatID, messages.BtnManageChannels(lang), utils.BuildInlineKeyboard(buttons, 1))
}

func (h *Handlers) showChannelCard(ctx context.Context, b *bot.Bot, chatID int64, targetID string, lang i18n.Lang) {
	c, ok := h.store.GetChannel(targetID)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	card := messages.ChannelCard(lang, c.Title, c.ID, len(c.Subscribers), c.PostsCount, c.ViewsCount)
	h.sendWithKeyboard(ctx, b, chatID, card, h.channelCardKeyboard(lang, c.ID))
}

func (h *Handlers) showChannelSubscribers(ctx context.Context, b *bot.Bot, chatID int64, targetID string, lang i18n.Lang) {
	c, ok := h.store.GetChannel(targetID)
	if !ok || len(c.Subscribers) == 0 {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	var sb strings.Builder
	sb.WriteString(messages.BtnSubscribers(lang) + "\n\n")
	for _, sid := range c.Subscribers {
		if u, ok := h.store.GetUser(sid); ok {
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			if name == "" {
				name = u.ID
			}
			sb.WriteString("• " + messages.Escape(name) + "\n")
		}
	}
	h.sendWithKeyboard(ctx, b, chatID, sb.String(), h.backKeyboard(lang, "channel:"+targetID))
}
