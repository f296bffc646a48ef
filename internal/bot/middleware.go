package bot

import (
	"context"
	"runtime/debug"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"gitlab.com/yelinaung/ledger-bot/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer(instrumentationName)

// interactionMiddleware gives each update its own interaction id, logger and span.
func (b *Bot) interactionMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		b.withInteraction(ctx, tgBot, update, func(ctx context.Context) {
			next(ctx, tgBot, update)
		})
	}
}

// withInteraction runs handle inside an interaction scope. A panic in handle
// is logged and answered with the generic failure reply when the chat is known.
func (b *Bot) withInteraction(
	ctx context.Context,
	tg TelegramAPI,
	update *tgmodels.Update,
	handle func(ctx context.Context),
) {
	chatID := extractChatID(update)
	entry := entryOf(update)

	ctx = logger.WithInteraction(ctx, uuid.NewString(), chatID)
	ctx, span := tracer.Start(ctx, "ledgerbot.interaction",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("ledgerbot.entry", entry)),
	)
	defer span.End()

	logUserAction(ctx, update)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		logger.Ctx(ctx).Error().
			Interface("panic", r).
			Bytes("stack", debug.Stack()).
			Msg("Recovered from handler panic")
		span.SetStatus(codes.Error, "panic")
		b.metrics.record(ctx, entry, "unknown", outcomePanic)
		if chatID != 0 {
			b.reply(ctx, tg, chatID, genericErrorMsg, nil)
		}
	}()

	handle(ctx)
}

// logUserAction logs inbound events without their content.
func logUserAction(ctx context.Context, update *tgmodels.Update) {
	log := logger.Ctx(ctx)

	switch {
	case update.Message != nil:
		log.Info().
			Str("text", logger.SanitizeText(update.Message.Text)).
			Msg("Received message")
	case update.CallbackQuery != nil:
		log.Info().
			Str("action", update.CallbackQuery.Data).
			Msg("Received button press")
	}
}

func entryOf(update *tgmodels.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return entryButton
	case update.Message != nil && len(update.Message.Text) > 0 && update.Message.Text[0] == '/':
		return entryCommand
	default:
		return entryText
	}
}

// extractChatID returns the chat an update belongs to, or 0 when it has none.
func extractChatID(update *tgmodels.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.EditedMessage != nil:
		return update.EditedMessage.Chat.ID
	case update.CallbackQuery != nil:
		return callbackChatID(update.CallbackQuery)
	default:
		return 0
	}
}

func callbackChatID(query *tgmodels.CallbackQuery) int64 {
	switch {
	case query.Message.Message != nil:
		return query.Message.Message.Chat.ID
	case query.Message.InaccessibleMessage != nil:
		return query.Message.InaccessibleMessage.Chat.ID
	default:
		return 0
	}
}
