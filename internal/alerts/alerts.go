// Package alerts delivers operational notifications to the operator's
// private chat. The channel is best-effort: a failed alert is logged and
// dropped, never propagated.
package alerts

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type Notifier struct {
	tg      Sender
	adminID int64
	log     zerolog.Logger
}

func New(tg Sender, adminID int64, log zerolog.Logger) *Notifier {
	return &Notifier{
		tg:      tg,
		adminID: adminID,
		log:     log,
	}
}

func (n *Notifier) Alert(ctx context.Context, text string) {
	if n == nil || n.tg == nil || n.adminID == 0 {
		return
	}
	_, err := n.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.adminID,
		Text:   text,
	})
	if err != nil {
		n.log.Warn().Err(err).Msg("operator alert not delivered")
	}
}
