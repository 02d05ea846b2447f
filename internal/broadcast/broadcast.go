// Package broadcast sends one message to many recipients, serially, with a
// fixed inter-send delay to stay inside the transport's rate limits. One
// failed delivery never stops the run.
package broadcast

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ormatov/chatkeeper/internal/messages"
)

type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// ProgressFunc is called periodically during a run; errors in the progress
// channel itself are the caller's problem.
type ProgressFunc func(done, total, sent, failed, blocked int)

type Result struct {
	RunID   string
	Total   int
	Sent    int
	Failed  int
	Blocked int
}

type Broadcaster struct {
	tg    Sender
	log   zerolog.Logger
	delay time.Duration

	// progressEvery controls how often ProgressFunc fires.
	progressEvery int
}

func New(tg Sender, log zerolog.Logger, delay time.Duration) *Broadcaster {
	if delay <= 0 {
		delay = 50 * time.Millisecond
	}
	return &Broadcaster{
		tg:            tg,
		log:           log,
		delay:         delay,
		progressEvery: 10,
	}
}

// Run delivers text to every recipient id in order. Recipients are store
// ids (string form of platform chat ids); unparseable ids count as failed.
// A "forbidden" class error means the recipient blocked the bot and is
// counted separately from transient failures. Cancelling ctx stops the run
// after the in-flight send.
func (b *Broadcaster) Run(ctx context.Context, recipients []string, text string, html bool, progress ProgressFunc) Result {
	res := Result{
		RunID: uuid.NewString(),
		Total: len(recipients),
	}
	log := b.log.With().Str("run_id", res.RunID).Logger()
	log.Info().Int("recipients", res.Total).Msg("broadcast started")

	for i, rid := range recipients {
		if ctx.Err() != nil {
			log.Warn().Int("done", i).Msg("broadcast cancelled")
			break
		}

		chatID, err := strconv.ParseInt(rid, 10, 64)
		if err != nil {
			res.Failed++
			log.Error().Str("recipient", rid).Msg("recipient id is not numeric")
			continue
		}

		params := &bot.SendMessageParams{
			ChatID: chatID,
			Text:   text,
		}
		if html {
			params.ParseMode = messages.ParseModeHTML
			params.LinkPreviewOptions = &models.LinkPreviewOptions{IsDisabled: bot.True()}
		}

		if _, err := b.tg.SendMessage(ctx, params); err != nil {
			if isForbidden(err) {
				res.Blocked++
			} else {
				res.Failed++
			}
			log.Error().Err(err).Str("recipient", rid).Msg("broadcast delivery failed")
		} else {
			res.Sent++
		}

		done := i + 1
		if progress != nil && done%b.progressEvery == 0 {
			progress(done, res.Total, res.Sent, res.Failed, res.Blocked)
		}

		if done < len(recipients) {
			time.Sleep(b.delay)
		}
	}

	log.Info().
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Int("blocked", res.Blocked).
		Msg("broadcast finished")
	return res
}

// isForbidden classifies the permanent "recipient unreachable" error class:
// the user blocked the bot or the bot was kicked. Not worth retrying.
func isForbidden(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "forbidden") || strings.Contains(msg, "bot was blocked") ||
		strings.Contains(msg, "bot was kicked") || strings.Contains(msg, "user is deactivated")
}
