package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/types"
)

func withOwner(ch types.Channel, ownerID string) types.Channel {
	ch.OwnerID = ownerID
	return ch
}

// HandleNewMembers registers joiners, links both sides of the membership
// and greets them with the chat's welcome template.
func (h *Handlers) HandleNewMembers(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chat := msg.Chat
	chatID := strconv.FormatInt(chat.ID, 10)
	c := h.store.TouchChat(chatID, chat.Title, string(chat.Type))

	for _, member := range msg.NewChatMembers {
		if member.IsBot {
			continue
		}
		uid := strconv.FormatInt(member.ID, 10)
		h.store.TouchUser(uid, member.FirstName, member.LastName, member.Username)
		h.store.AddUserToChat(uid, chatID)

		name := strings.TrimSpace(member.FirstName + " " + member.LastName)
		h.sendText(ctx, b, chat.ID, messages.Welcome(c.WelcomeTemplate, name, chat.Title))
	}
	h.persist(ctx)
	h.log.Info().Str("chat_id", chatID).Int("joined", len(msg.NewChatMembers)).Msg("new chat members")
}

func (h *Handlers) HandleMemberLeft(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.LeftChatMember == nil {
		return
	}
	uid := strconv.FormatInt(msg.LeftChatMember.ID, 10)
	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	h.store.RemoveUserFromChat(uid, chatID)
	h.persist(ctx)
	h.log.Info().Str("chat_id", chatID).Str("user_id", uid).Msg("member left")
}

// HandleChannelPost counts posts in channels the bot observes, registering
// the channel on first sight.
func (h *Handlers) HandleChannelPost(ctx context.Context, b *bot.Bot, update *models.Update) {
	post := update.ChannelPost
	if post == nil {
		return
	}
	chat := post.Chat
	channelID := strconv.FormatInt(chat.ID, 10)
	h.store.TouchChannel(channelID, chat.Title, chat.Username)
	h.store.IncrementChannelPosts(channelID)
	h.persist(ctx)
}

// HandleMyChatMember reacts to the bot itself being added to or removed
// from a chat or channel.
func (h *Handlers) HandleMyChatMember(ctx context.Context, b *bot.Bot, update *models.Update) {
	ev := update.MyChatMember
	if ev == nil {
		return
	}
	chat := ev.Chat
	id := strconv.FormatInt(chat.ID, 10)
	removed := ev.NewChatMember.Left != nil || ev.NewChatMember.Banned != nil

	switch string(chat.Type) {
	case "channel":
		if removed {
			h.store.DeleteChannel(id)
			h.log.Info().Str("channel_id", id).Msg("removed from channel")
		} else {
			ch := h.store.TouchChannel(id, chat.Title, chat.Username)
			if ch.OwnerID == "" {
				h.store.UpsertChannel(withOwner(ch, strconv.FormatInt(ev.From.ID, 10)))
			}
			h.log.Info().Str("channel_id", id).Msg("added to channel")
		}
	case "group", "supergroup":
		if removed {
			h.store.SetChatActive(id, false)
			h.log.Info().Str("chat_id", id).Msg("removed from chat")
		} else {
			h.store.TouchChat(id, chat.Title, string(chat.Type))
			h.log.Info().Str("chat_id", id).Msg("added to chat")
		}
	}
	h.persist(ctx)
}
