package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ormatov/chatkeeper/internal/alerts"
	"github.com/ormatov/chatkeeper/internal/broadcast"
	"github.com/ormatov/chatkeeper/internal/config"
	"github.com/ormatov/chatkeeper/internal/guard"
	"github.com/ormatov/chatkeeper/internal/handlers"
	"github.com/ormatov/chatkeeper/internal/logger"
	"github.com/ormatov/chatkeeper/internal/messages"
	"github.com/ormatov/chatkeeper/internal/middleware"
	"github.com/ormatov/chatkeeper/store"
	"github.com/ormatov/chatkeeper/types"
)

func main() {
	_ = config.LoadEnvFile("config.env")

	cfg, err := config.New()
	if err != nil {
		lg := logger.New("chatkeeper", "")
		lg.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New("chatkeeper", cfg.LogFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The guard comes first: a second instance must die before it loads
	// the store or consumes a single update.
	g := guard.New(cfg.GuardPort, cfg.MarkerFile, log)
	if err := g.Acquire(); err != nil {
		if errors.Is(err, guard.ErrAlreadyRunning) {
			log.Error().Err(err).Msg("bot is already running")
		} else {
			log.Error().Err(err).Msg("failed to acquire instance guard")
		}
		os.Exit(1)
	}
	defer g.Release()

	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}

	b, err := bot.New(
		cfg.BotToken,
		bot.WithHTTPClient(cfg.PollTimeout, httpClient),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create bot")
		return
	}

	notifier := alerts.New(b, cfg.AdminID, log)

	st := store.New(cfg.DataFile, log)
	if err := st.Load(); err != nil {
		if !errors.Is(err, store.ErrDataCorrupt) {
			log.Error().Err(err).Msg("failed to load data")
			return
		}
		// recovered with empty collections, tell the operator
		notifier.Alert(ctx, messages.AlertDataCorrupt(err))
	}
	defer func() {
		if err := st.Persist(); err != nil {
			log.Error().Err(err).Msg("final persist failed")
		}
	}()

	var sessions types.SessionStore = store.NewMemorySessionStore()
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "chatkeeper")
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to Redis")
			return
		}
		defer rdb.Close()
		sessions = store.NewRedisSessionStore(rdb, cfg.SessionTTLHours)
	}

	var analytics types.AnalyticsStore
	if cfg.PostgresDSN != "" {
		pg, err := store.NewPostgresAnalytics(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Error().Err(err).Msg("failed to connect to Postgres")
			return
		}
		defer pg.Close()
		analytics = pg
	}

	bc := broadcast.New(b, log, cfg.BroadcastDelay)
	h := handlers.NewHandlers(st, sessions, bc, notifier, analytics, cfg.AdminID, log)
	mw := middleware.New(st, analytics, notifier, log)

	handlerChain := mw.ClassifyMiddleware(
		mw.AccessMiddleware(
			mw.TrackMiddleware(
				h.MainHandler,
			),
		),
	)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil || update.ChannelPost != nil || update.MyChatMember != nil
	}, handlerChain)

	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, handlerChain)

	log.Info().Int("port", cfg.GuardPort).Msg("bot started")
	b.Start(ctx)
	log.Info().Msg("shutting down")
}
