package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/ledger-bot/internal/config"
	"gitlab.com/yelinaung/ledger-bot/internal/ledger"
	"gitlab.com/yelinaung/ledger-bot/internal/models"
)

// testNow is 08:30 on 15 March 2024 in Asia/Ho_Chi_Minh.
var testNow = time.Date(2024, time.March, 15, 1, 30, 0, 0, time.UTC)

// fakeGateway is an in-memory ledger.Gateway that records every call.
type fakeGateway struct {
	mu sync.Mutex

	records []models.TransactionRecord
	actions []ledger.Action

	writeResult models.WriteResult
	writeErr    error

	results map[ledger.Action]models.SummaryResult
	errs    map[ledger.Action]error
}

var _ ledger.Gateway = (*fakeGateway)(nil)

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		writeResult: models.WriteResult{Status: models.StatusSuccess},
		results:     make(map[ledger.Action]models.SummaryResult),
		errs:        make(map[ledger.Action]error),
	}
}

func (g *fakeGateway) RecordTransaction(
	_ context.Context,
	record models.TransactionRecord,
) (models.WriteResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.records = append(g.records, record)
	if g.writeErr != nil {
		return models.WriteResult{}, g.writeErr
	}
	return g.writeResult, nil
}

func (g *fakeGateway) Query(_ context.Context, action ledger.Action) (models.SummaryResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.actions = append(g.actions, action)
	if err := g.errs[action]; err != nil {
		return models.SummaryResult{}, err
	}
	if r, ok := g.results[action]; ok {
		return r, nil
	}
	return models.SummaryResult{Status: models.StatusSuccess}, nil
}

func (g *fakeGateway) setTotal(action ledger.Action, total int64) {
	g.results[action] = models.SummaryResult{
		Status:   models.StatusSuccess,
		Total:    decimal.NewFromInt(total),
		HasTotal: true,
	}
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records) + len(g.actions)
}

// setupTestBot creates a Bot backed by gw with the clock fixed at testNow.
func setupTestBot(t *testing.T, gw ledger.Gateway) *Bot {
	t.Helper()

	cfg := &config.Config{
		BotToken:        "test-token",
		WebhookURL:      "http://ledger.invalid/write",
		QueryWebhookURL: "http://ledger.invalid/query",
		LedgerTimezone:  config.DefaultLedgerTimezone,
	}

	b := newBot(cfg, gw)
	b.now = func() time.Time { return testNow }

	return b
}
