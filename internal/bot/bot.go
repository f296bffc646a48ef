// Package bot provides the Telegram bot initialization and handlers.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"gitlab.com/yelinaung/ledger-bot/internal/config"
	"gitlab.com/yelinaung/ledger-bot/internal/ledger"
	"gitlab.com/yelinaung/ledger-bot/internal/logger"
)

// Bot wraps the Telegram bot with application dependencies. It keeps no
// per-chat state: every update is handled from its own content alone.
type Bot struct {
	bot        *bot.Bot
	cfg        *config.Config
	ledger     ledger.Gateway
	location   *time.Location
	now        func() time.Time
	metrics    *botMetrics
	handlerIDs []string
}

// New creates a new Bot instance.
func New(cfg *config.Config, gateway ledger.Gateway) (*Bot, error) {
	b := newBot(cfg, gateway)

	opts := []bot.Option{
		bot.WithMiddlewares(b.interactionMiddleware),
		bot.WithDefaultHandler(b.defaultHandler),
		bot.WithErrorsHandler(func(err error) {
			logger.Log.Error().Err(err).Msg("Telegram polling error")
		}),
	}

	telegramBot, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.registerHandlers()

	return b, nil
}

// newBot wires dependencies without contacting Telegram.
func newBot(cfg *config.Config, gateway ledger.Gateway) *Bot {
	return &Bot{
		cfg:      cfg,
		ledger:   gateway,
		location: cfg.Location(),
		now:      time.Now,
		metrics:  newBotMetrics(),
	}
}

// Start begins polling for updates and blocks until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// Stop unregisters the command and button handlers.
func (b *Bot) Stop() {
	if b.bot == nil {
		return
	}
	for _, id := range b.handlerIDs {
		b.bot.UnregisterHandler(id)
	}
	b.handlerIDs = nil
}

// registerHandlers sets up command and button handlers. Free text is handled
// by the default handler.
func (b *Bot) registerHandlers() {
	b.handlerIDs = append(b.handlerIDs,
		b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleStart),
		b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp),
		b.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, b.handleButton),
	)
}
