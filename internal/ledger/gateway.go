// Package ledger talks to the remote webhook that owns the ledger data.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/yelinaung/ledger-bot/internal/models"
)

// Action is a query action understood by the query webhook.
type Action string

const (
	ActionMonthlyExpense Action = "getMonthlyTotal"
	ActionMonthlyIncome  Action = "getMonthlyIncome"
	ActionDeleteAll      Action = "deleteAllData"
)

// wantsTotal reports whether a successful reply must carry a numeric total.
func (a Action) wantsTotal() bool {
	return a == ActionMonthlyExpense || a == ActionMonthlyIncome
}

var (
	// ErrUnexpectedStatus is wrapped when the webhook answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrMalformedResponse is wrapped when the reply body violates the response schema.
	ErrMalformedResponse = errors.New("malformed webhook response")
)

// GatewayError reports a transport or decoding failure of a webhook call.
// A well-formed reply with an unsuccessful status is not a GatewayError.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Querier runs query actions.
type Querier interface {
	Query(ctx context.Context, action Action) (models.SummaryResult, error)
}

// Gateway is the full set of ledger operations the bot needs.
type Gateway interface {
	Querier
	RecordTransaction(ctx context.Context, record models.TransactionRecord) (models.WriteResult, error)
}
