package broadcast

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []int64
	// failOn maps chat id -> error to return for it
	failOn map[int64]error
	// onSend, when set, runs before each delivery
	onSend func(chatID int64)
}

func (f *fakeSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	chatID := params.ChatID.(int64)
	if f.onSend != nil {
		f.onSend(chatID)
	}
	if err, ok := f.failOn[chatID]; ok {
		return nil, err
	}
	f.sent = append(f.sent, chatID)
	return &models.Message{ID: 1}, nil
}

func ids(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

func TestRunDeliversToAll(t *testing.T) {
	tg := &fakeSender{}
	bc := New(tg, zerolog.Nop(), time.Millisecond)

	res := bc.Run(context.Background(), ids(3), "hello", false, nil)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Sent)
	assert.Zero(t, res.Failed)
	assert.Zero(t, res.Blocked)
	assert.Equal(t, []int64{1, 2, 3}, tg.sent)
	assert.NotEmpty(t, res.RunID)
}

func TestRunClassifiesForbidden(t *testing.T) {
	tg := &fakeSender{failOn: map[int64]error{
		2: errors.New("Forbidden: bot was blocked by the user"),
		3: errors.New("Bad Request: chat not found"),
	}}
	bc := New(tg, zerolog.Nop(), time.Millisecond)

	res := bc.Run(context.Background(), ids(4), "hi", true, nil)

	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Blocked)
	assert.Equal(t, 1, res.Failed)
}

func TestRunBadRecipientIDCountsAsFailed(t *testing.T) {
	tg := &fakeSender{}
	bc := New(tg, zerolog.Nop(), time.Millisecond)

	res := bc.Run(context.Background(), []string{"1", "not-a-number", "2"}, "hi", false, nil)

	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []int64{1, 2}, tg.sent)
}

func TestRunProgressEveryTen(t *testing.T) {
	tg := &fakeSender{}
	bc := New(tg, zerolog.Nop(), time.Millisecond)

	var calls []int
	progress := func(done, total, sent, failed, blocked int) {
		calls = append(calls, done)
		assert.Equal(t, 25, total)
	}
	res := bc.Run(context.Background(), ids(25), "hi", false, progress)

	require.Equal(t, 25, res.Sent)
	assert.Equal(t, []int{10, 20}, calls)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tg := &fakeSender{}
	tg.onSend = func(chatID int64) {
		if chatID == 2 {
			cancel()
		}
	}
	bc := New(tg, zerolog.Nop(), time.Millisecond)

	res := bc.Run(ctx, ids(10), "hi", false, nil)

	// the in-flight send finishes, the rest are skipped
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 10, res.Total)
}

func TestIsForbidden(t *testing.T) {
	assert.True(t, isForbidden(errors.New("Forbidden: user is deactivated")))
	assert.True(t, isForbidden(errors.New("forbidden: bot was kicked from the group chat")))
	assert.False(t, isForbidden(errors.New("Too Many Requests: retry after 5")))
}
