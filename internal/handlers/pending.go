package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ormatov/chatkeeper/internal/i18n"
	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/store"
	"github.com/ormatov/chatkeeper/types"
)

// HandlePendingInput consumes the answer to a previously sent prompt. The
// pending op is one-shot: it is cleared before the answer is processed, so
// a failed step never traps the user in a loop.
func (h *Handlers) HandlePendingInput(ctx context.Context, b *bot.Bot, update *models.Update, op *types.PendingOp) {
	msg := update.Message
	userID := msg.From.ID
	chatID := msg.Chat.ID
	lang := h.userLang(ctx, userID)
	text := strings.TrimSpace(msg.Text)

	if err := h.sessions.ClearPending(userID); err != nil {
		h.log.Warn().Err(err).Msg("clear pending failed")
	}
	if text == "" {
		h.sendText(ctx, b, chatID, messages.ErrorDefault(lang))
		return
	}

	switch op.Kind {
	case types.PendingChangeName:
		h.store.SetUserName(strconv.FormatInt(userID, 10), text)
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.Saved(lang))

	case types.PendingEditRating:
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			h.sendText(ctx, b, chatID, messages.InvalidNumber(lang))
			return
		}
		u, ok := h.store.GetUser(op.TargetID)
		if !ok {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		oldRating := store.Rating(u)
		h.store.SetUserRating(op.TargetID, value)
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.RatingUpdated(lang, oldRating, value))

	case types.PendingSearchUser:
		query := strings.TrimPrefix(text, "@")
		if u, ok := h.store.GetUser(query); ok {
			h.showUserCard(ctx, b, chatID, u.ID, lang)
			return
		}
		if u, ok := h.store.FindUserByUsername(query); ok {
			h.showUserCard(ctx, b, chatID, u.ID, lang)
			return
		}
		h.sendText(ctx, b, chatID, messages.NotFound(lang))

	case types.PendingSearchChannel:
		if c, ok := h.store.GetChannel(text); ok {
			h.showChannelCard(ctx, b, chatID, c.ID, lang)
			return
		}
		for _, c := range h.store.ListChannels() {
			if strings.Contains(strings.ToLower(c.Title), strings.ToLower(text)) {
				h.showChannelCard(ctx, b, chatID, c.ID, lang)
				return
			}
		}
		h.sendText(ctx, b, chatID, messages.NotFound(lang))

	case types.PendingRenameChat:
		if !h.store.SetChatTitle(op.TargetID, text) {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.Saved(lang))

	case types.PendingWelcomeTemplate:
		if !h.store.SetWelcomeTemplate(op.TargetID, text) {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.Saved(lang))

	case types.PendingMessageUser, types.PendingMessageChat:
		target, err := strconv.ParseInt(op.TargetID, 10, 64)
		if err != nil {
			h.sendText(ctx, b, chatID, messages.ErrorDefault(lang))
			return
		}
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: target, Text: text}); err != nil {
			h.log.Error().Err(err).Str("target", op.TargetID).Msg("admin message delivery failed")
			h.sendText(ctx, b, chatID, messages.SendFailed(lang))
			return
		}
		h.sendText(ctx, b, chatID, messages.Sent(lang))

	case types.PendingAddReactions:
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil || value <= 0 {
			h.sendText(ctx, b, chatID, messages.InvalidNumber(lang))
			return
		}
		u, ok := h.store.GetUser(op.TargetID)
		if !ok {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		oldRating := store.Rating(u)
		h.store.AddReactions(op.TargetID, value)
		u, _ = h.store.GetUser(op.TargetID)
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.RatingUpdated(lang, oldRating, store.Rating(u)))

	case types.PendingAddSubscribers:
		h.addSubscribers(ctx, b, chatID, op.TargetID, text, lang)

	case types.PendingDropSubscriber:
		u, ok := h.resolveUser(text)
		if !ok {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		h.store.UnsubscribeFromChannel(u.ID, op.TargetID)
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.Removed(lang, 1))

	case types.PendingChannelViews:
		value, err := strconv.ParseInt(text, 10, 64)
		if err != nil || value <= 0 {
			h.sendText(ctx, b, chatID, messages.InvalidNumber(lang))
			return
		}
		if _, ok := h.store.GetChannel(op.TargetID); !ok {
			h.sendText(ctx, b, chatID, messages.NotFound(lang))
			return
		}
		h.store.AddChannelViews(op.TargetID, value)
		h.persist(ctx)
		h.sendText(ctx, b, chatID, messages.Saved(lang))

	case types.PendingRemoveByName:
		h.removeMemberByUsername(ctx, b, chatID, op.TargetID, text, lang)

	case types.PendingBroadcastText:
		audience := types.BroadcastAudience(op.Params["audience"])
		h.runBroadcast(ctx, b, chatID, audience, text, lang)

	default:
		h.sendText(ctx, b, chatID, messages.ErrorDefault(lang))
	}
}

// resolveUser accepts either a store id or an @-handle.
func (h *Handlers) resolveUser(query string) (types.User, bool) {
	query = strings.TrimPrefix(strings.TrimSpace(query), "@")
	if u, ok := h.store.GetUser(query); ok {
		return u, true
	}
	return h.store.FindUserByUsername(query)
}

// addSubscribers subscribes every resolvable user in a whitespace-separated
// list; unknown names are counted, not fatal.
func (h *Handlers) addSubscribers(ctx context.Context, b *bot.Bot, chatID int64, targetChannel, input string, lang i18n.Lang) {
	if _, ok := h.store.GetChannel(targetChannel); !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	added, skipped := 0, 0
	for _, token := range strings.Fields(input) {
		u, ok := h.resolveUser(token)
		if !ok {
			skipped++
			continue
		}
		h.store.SubscribeToChannel(u.ID, targetChannel)
		added++
	}
	if added > 0 {
		h.persist(ctx)
	}
	h.sendText(ctx, b, chatID, messages.SubscribersAdded(lang, added, skipped))
}

func (h *Handlers) removeMemberByUsername(ctx context.Context, b *bot.Bot, chatID int64, targetChat, username string, lang i18n.Lang) {
	username = strings.TrimPrefix(username, "@")
	u, ok := h.store.FindUserByUsername(username)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	chat, ok := h.store.GetChat(targetChat)
	if !ok {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	found := false
	for _, m := range chat.Members {
		if m == u.ID {
			found = true
			break
		}
	}
	if !found {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}
	h.store.RemoveUserFromChat(u.ID, targetChat)
	h.persist(ctx)
	h.sendText(ctx, b, chatID, messages.Removed(lang, 1))
}

// runBroadcast blocks the update loop for the duration of the run; at this
// bot's traffic that is an accepted trade-off, not a bug.
func (h *Handlers) runBroadcast(ctx context.Context, b *bot.Bot, chatID int64, audience types.BroadcastAudience, text string, lang i18n.Lang) {
	var recipients []string
	switch audience {
	case types.AudienceChats:
		for _, c := range h.store.ListChats() {
			recipients = append(recipients, c.ID)
		}
	case types.AudienceChannels:
		for _, c := range h.store.ListChannels() {
			recipients = append(recipients, c.ID)
		}
	default:
		for _, u := range h.store.ListUsers() {
			if !u.Blocked {
				recipients = append(recipients, u.ID)
			}
		}
	}
	if len(recipients) == 0 {
		h.sendText(ctx, b, chatID, messages.NotFound(lang))
		return
	}

	progressMsg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   messages.BroadcastPreparing(lang),
	})
	if err != nil {
		h.log.Error().Err(err).Msg("broadcast progress message failed")
	}

	progress := func(done, total, sent, failed, blocked int) {
		if progressMsg == nil {
			return
		}
		percent := float64(done) / float64(total) * 100
		_, _ = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: progressMsg.ID,
			Text:      messages.BroadcastProgress(lang, percent, sent, failed, blocked),
		})
	}

	res := h.bc.Run(ctx, recipients, text, true, progress)

	report := messages.BroadcastReport(lang, res.Total, res.Sent, res.Failed, res.Blocked)
	if progressMsg != nil {
		if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: progressMsg.ID,
			Text:      report,
			ParseMode: messages.ParseModeHTML,
		}); err == nil {
			return
		}
	}
	h.sendText(ctx, b, chatID, report)
}
