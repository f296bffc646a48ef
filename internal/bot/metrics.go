package bot

import (
	"context"

	"gitlab.com/yelinaung/ledger-bot/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "gitlab.com/yelinaung/ledger-bot/internal/bot"

// Entry points of an interaction.
const (
	entryText    = "text"
	entryButton  = "button"
	entryCommand = "command"
)

// Outcomes of an interaction.
const (
	outcomeHelp         = "help"
	outcomeAnswered     = "answered"
	outcomeRejected     = "rejected"
	outcomeGatewayError = "gateway_error"
	outcomeIgnored      = "ignored"
	outcomePanic        = "panic"
)

type botMetrics struct {
	interactions metric.Int64Counter
}

func newBotMetrics() *botMetrics {
	meter := otel.Meter(instrumentationName)

	counter, err := meter.Int64Counter(
		"ledgerbot.interactions",
		metric.WithDescription("Inbound events handled, by entry point, command and outcome."),
		metric.WithUnit("{interaction}"),
	)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to create interactions counter")
		counter = noop.Int64Counter{}
	}

	return &botMetrics{interactions: counter}
}

func (m *botMetrics) record(ctx context.Context, entry, command, outcome string) {
	m.interactions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entry", entry),
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	))
}
