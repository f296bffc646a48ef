// Package models defines the domain types for the ledger bot.
package models

import (
	"github.com/shopspring/decimal"
)

// Currency is the label appended to every rendered amount.
const Currency = "VND"

// StatusSuccess is the status value the webhook uses to signal success.
const StatusSuccess = "success"

// Direction classifies a transaction. The value is the label sent to the webhook.
type Direction string

const (
	DirectionExpense Direction = "Tiền ra"
	DirectionIncome  Direction = "Tiền vào"
)

// SummaryKind identifies an aggregate query. Values double as button action ids.
type SummaryKind string

const (
	SummaryTotalExpense   SummaryKind = "totalExpense"
	SummaryTotalIncome    SummaryKind = "totalIncome"
	SummaryTotalRemaining SummaryKind = "totalRemaining"
)

// ActionDeleteAll is the button action id that wipes the ledger.
const ActionDeleteAll = "deleteAllData"

// CommandKind tags a Command.
type CommandKind int

const (
	CommandInvalid CommandKind = iota
	CommandTransaction
	CommandSummary
	CommandDeleteAll
)

// String returns the kind name used in logs and metrics.
func (k CommandKind) String() string {
	switch k {
	case CommandTransaction:
		return "transaction"
	case CommandSummary:
		return "summary"
	case CommandDeleteAll:
		return "delete_all"
	default:
		return "invalid"
	}
}

// Command is the classified form of an utterance or button press.
// Direction, RawAmount and Note are set for CommandTransaction only;
// Summary is set for CommandSummary only.
type Command struct {
	Kind      CommandKind
	Direction Direction
	RawAmount string
	Note      string
	Summary   SummaryKind
}

// CommandFromAction maps an inline button action id to its command.
func CommandFromAction(actionID string) (Command, bool) {
	switch SummaryKind(actionID) {
	case SummaryTotalExpense, SummaryTotalIncome, SummaryTotalRemaining:
		return Command{Kind: CommandSummary, Summary: SummaryKind(actionID)}, true
	}
	if actionID == ActionDeleteAll {
		return Command{Kind: CommandDeleteAll}, true
	}
	return Command{Kind: CommandInvalid}, false
}

// Amount is a parsed transaction amount. An Amount with Valid unset stands for
// input that carried no digits and renders as "NaN".
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NewAmount returns a valid Amount.
func NewAmount(d decimal.Decimal) Amount {
	return Amount{Value: d, Valid: true}
}

// String returns the plain decimal form sent to the webhook.
func (a Amount) String() string {
	if !a.Valid {
		return "NaN"
	}
	return a.Value.String()
}

// TransactionRecord is one ledger write.
type TransactionRecord struct {
	Amount    Amount
	Direction Direction
	Note      string
	Timestamp string
}

// WriteResult is the webhook reply to a transaction write.
type WriteResult struct {
	Status  string
	Message string
}

// OK reports whether the webhook accepted the write.
func (r WriteResult) OK() bool {
	return r.Status == StatusSuccess
}

// SummaryResult is the webhook reply to a query or delete action.
type SummaryResult struct {
	Status   string
	Total    decimal.Decimal
	HasTotal bool
	Message  string
}

// OK reports whether the webhook reported success.
func (r SummaryResult) OK() bool {
	return r.Status == StatusSuccess
}

// RemainingSummary combines the monthly income and expense totals.
// Income and Expense are only meaningful when OK is set.
type RemainingSummary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	OK      bool
}

// Balance returns income minus expense.
func (r RemainingSummary) Balance() decimal.Decimal {
	return r.Income.Sub(r.Expense)
}

// TextMessage is an inbound chat message.
type TextMessage struct {
	ChatID     int64
	Text       string
	SenderName string
}

// ButtonPress is an inbound inline keyboard press.
type ButtonPress struct {
	ChatID   int64
	ActionID string
	QueryID  string
}
