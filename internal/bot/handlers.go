package bot

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/ledger-bot/internal/ledger"
	"gitlab.com/yelinaung/ledger-bot/internal/logger"
	"gitlab.com/yelinaung/ledger-bot/internal/models"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// defaultHandler handles free-text messages.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleTextCore(ctx, tgBot, update)
}

// handleTextCore classifies a text message and runs the matching path.
func (b *Bot) handleTextCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	b.processText(ctx, tg, textMessageFrom(update.Message))
}

func (b *Bot) processText(ctx context.Context, tg TelegramAPI, msg models.TextMessage) {
	cmd := Classify(msg.Text)

	switch cmd.Kind {
	case models.CommandSummary:
		b.runSummary(ctx, tg, msg.ChatID, entryText, cmd.Summary)
	case models.CommandTransaction:
		b.runTransaction(ctx, tg, msg.ChatID, cmd)
	default:
		logger.Ctx(ctx).Debug().Msg("Unrecognized input, sending usage help")
		b.reply(ctx, tg, msg.ChatID, invalidSyntaxMsg, nil)
		b.metrics.record(ctx, entryText, cmd.Kind.String(), outcomeHelp)
	}
}

// handleStart handles the /start command.
func (b *Bot) handleStart(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleStartCore(ctx, tgBot, update)
}

func (b *Bot) handleStartCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	msg := textMessageFrom(update.Message)
	b.reply(ctx, tg, msg.ChatID, greetingText(msg.SenderName), nil)
	b.metrics.record(ctx, entryCommand, "start", outcomeAnswered)
}

// handleHelp handles the /help command.
func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleHelpCore(ctx, tgBot, update)
}

func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}

	b.reply(ctx, tg, update.Message.Chat.ID, helpMsg, nil)
	b.metrics.record(ctx, entryCommand, "help", outcomeAnswered)
}

// handleButton handles inline keyboard presses.
func (b *Bot) handleButton(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleButtonCore(ctx, tgBot, update)
}

func (b *Bot) handleButtonCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	query := update.CallbackQuery
	if query == nil {
		return
	}

	if _, err := tg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	}); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("Failed to answer callback query")
	}

	press := models.ButtonPress{
		ChatID:   callbackChatID(query),
		ActionID: query.Data,
		QueryID:  query.ID,
	}
	if press.ChatID == 0 {
		logger.Ctx(ctx).Warn().Str("action", press.ActionID).Msg("Button press without a chat")
		b.metrics.record(ctx, entryButton, "unknown", outcomeIgnored)
		return
	}

	b.processButton(ctx, tg, press)
}

func (b *Bot) processButton(ctx context.Context, tg TelegramAPI, press models.ButtonPress) {
	cmd, ok := models.CommandFromAction(press.ActionID)
	if !ok {
		logger.Ctx(ctx).Warn().Str("action", press.ActionID).Msg("Unknown button action")
		b.metrics.record(ctx, entryButton, cmd.Kind.String(), outcomeIgnored)
		return
	}

	switch cmd.Kind {
	case models.CommandSummary:
		b.runSummary(ctx, tg, press.ChatID, entryButton, cmd.Summary)
	case models.CommandDeleteAll:
		b.runDeleteAll(ctx, tg, press.ChatID)
	}
}

// runTransaction records one ledger entry. On success the confirmation is
// followed by the action menu.
func (b *Bot) runTransaction(ctx context.Context, tg TelegramAPI, chatID int64, cmd models.Command) {
	log := logger.Ctx(ctx)
	kind := cmd.Kind.String()

	record := models.TransactionRecord{
		Amount:    ParseAmount(cmd.RawAmount),
		Direction: cmd.Direction,
		Note:      cmd.Note,
		Timestamp: FormatTimestamp(b.now().In(b.location)),
	}
	if !record.Amount.Valid {
		log.Warn().Str("raw_amount", cmd.RawAmount).Msg("Amount has no digits, recording NaN")
	}

	result, err := b.ledger.RecordTransaction(ctx, record)
	if err != nil {
		b.replyGatewayError(ctx, tg, chatID, entryText, kind, err)
		return
	}

	if !result.OK() {
		log.Warn().
			Str("status", result.Status).
			Str("server_message", result.Message).
			Msg("Webhook rejected transaction")
		b.reply(ctx, tg, chatID, rejectionText(failedRecord, result.Message), nil)
		b.metrics.record(ctx, entryText, kind, outcomeRejected)
		return
	}

	log.Info().
		Str("direction", string(record.Direction)).
		Str("amount", record.Amount.String()).
		Str("note", logger.SanitizeDescription(record.Note)).
		Msg("Transaction recorded")

	b.reply(ctx, tg, chatID, confirmationText(record), nil)
	b.reply(ctx, tg, chatID, actionMenuText, actionMenuKeyboard())
	b.metrics.record(ctx, entryText, kind, outcomeAnswered)
}

// runSummary answers one of the three monthly summaries.
func (b *Bot) runSummary(ctx context.Context, tg TelegramAPI, chatID int64, entry string, kind models.SummaryKind) {
	switch kind {
	case models.SummaryTotalExpense:
		b.runTotal(ctx, tg, chatID, entry, ledger.ActionMonthlyExpense, failedExpense, expenseSummaryText)
	case models.SummaryTotalIncome:
		b.runTotal(ctx, tg, chatID, entry, ledger.ActionMonthlyIncome, failedIncome, incomeSummaryText)
	case models.SummaryTotalRemaining:
		b.runRemaining(ctx, tg, chatID, entry)
	default:
		logger.Ctx(ctx).Warn().Str("summary", string(kind)).Msg("Unknown summary kind")
	}
}

func (b *Bot) runTotal(
	ctx context.Context,
	tg TelegramAPI,
	chatID int64,
	entry string,
	action ledger.Action,
	op failedOperation,
	render func(month time.Month, total decimal.Decimal) string,
) {
	command := string(action)

	result, err := b.ledger.Query(ctx, action)
	if err != nil {
		b.replyGatewayError(ctx, tg, chatID, entry, command, err)
		return
	}

	if !result.OK() {
		logger.Ctx(ctx).Warn().
			Str("action", command).
			Str("status", result.Status).
			Str("server_message", result.Message).
			Msg("Webhook rejected query")
		b.reply(ctx, tg, chatID, rejectionText(op, result.Message), nil)
		b.metrics.record(ctx, entry, command, outcomeRejected)
		return
	}

	if !result.HasTotal {
		b.replyGatewayError(ctx, tg, chatID, entry, command, &ledger.GatewayError{
			Op:  "query " + command,
			Err: ledger.ErrMalformedResponse,
		})
		return
	}

	b.reply(ctx, tg, chatID, render(b.currentMonth(), result.Total), nil)
	b.metrics.record(ctx, entry, command, outcomeAnswered)
}

func (b *Bot) runRemaining(ctx context.Context, tg TelegramAPI, chatID int64, entry string) {
	const command = "remaining"

	summary, err := ledger.Remaining(ctx, b.ledger)
	if err != nil {
		b.replyGatewayError(ctx, tg, chatID, entry, command, err)
		return
	}

	if !summary.OK {
		logger.Ctx(ctx).Warn().Msg("Webhook rejected a remaining balance query")
		b.reply(ctx, tg, chatID, remainingFailMsg, nil)
		b.metrics.record(ctx, entry, command, outcomeRejected)
		return
	}

	b.reply(ctx, tg, chatID, remainingText(b.currentMonth(), summary), nil)
	b.metrics.record(ctx, entry, command, outcomeAnswered)
}

// runDeleteAll wipes the remote ledger. The menu is not offered again.
func (b *Bot) runDeleteAll(ctx context.Context, tg TelegramAPI, chatID int64) {
	command := string(ledger.ActionDeleteAll)

	result, err := b.ledger.Query(ctx, ledger.ActionDeleteAll)
	if err != nil {
		b.replyGatewayError(ctx, tg, chatID, entryButton, command, err)
		return
	}

	if !result.OK() {
		logger.Ctx(ctx).Warn().
			Str("status", result.Status).
			Str("server_message", result.Message).
			Msg("Webhook rejected delete")
		b.reply(ctx, tg, chatID, rejectionText(failedDelete, result.Message), nil)
		b.metrics.record(ctx, entryButton, command, outcomeRejected)
		return
	}

	logger.Ctx(ctx).Info().Msg("Ledger data deleted")
	b.reply(ctx, tg, chatID, deleteSuccessMsg, nil)
	b.metrics.record(ctx, entryButton, command, outcomeAnswered)
}

func (b *Bot) replyGatewayError(
	ctx context.Context,
	tg TelegramAPI,
	chatID int64,
	entry, command string,
	err error,
) {
	logger.Ctx(ctx).Error().Err(err).Str("command", command).Msg("Ledger webhook call failed")

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, "ledger webhook call failed")

	b.reply(ctx, tg, chatID, genericErrorMsg, nil)
	b.metrics.record(ctx, entry, command, outcomeGatewayError)
}

// reply sends an HTML message. Send failures are logged, not retried.
func (b *Bot) reply(ctx context.Context, tg TelegramAPI, chatID int64, text string, markup tgmodels.ReplyMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := tg.SendMessage(ctx, params); err != nil {
		logger.Ctx(ctx).Error().Err(err).Msg("Failed to send message")
	}
}

func (b *Bot) currentMonth() time.Month {
	return b.now().In(b.location).Month()
}

func textMessageFrom(msg *tgmodels.Message) models.TextMessage {
	return models.TextMessage{
		ChatID:     msg.Chat.ID,
		Text:       msg.Text,
		SenderName: senderName(msg.From),
	}
}

func senderName(user *tgmodels.User) string {
	if user == nil {
		return ""
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		return user.Username
	}
	return name
}
