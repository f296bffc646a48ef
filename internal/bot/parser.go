package bot

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/ledger-bot/internal/models"
	"golang.org/x/text/unicode/norm"
)

var (
	totalExpenseRegex   = regexp.MustCompile(`(?i)^tổng chi$`)
	totalIncomeRegex    = regexp.MustCompile(`(?i)^tổng thu$`)
	totalRemainingRegex = regexp.MustCompile(`(?i)^tổng còn lại$`)

	// incomeRegex matches "+<amount> <note>" and expenseRegex "<amount> <note>".
	// The amount token is digits and separators with an optional magnitude suffix.
	// The note may span lines.
	incomeRegex  = regexp.MustCompile(`(?s)^\+([\d,.]+(?:k|K|triệu|TRIỆU)?)\s+(.+)$`)
	expenseRegex = regexp.MustCompile(`(?s)^([\d,.]+(?:k|K|triệu|TRIỆU)?)\s+(.+)$`)

	thousandSuffixRegex = regexp.MustCompile(`(?i)k$`)
	millionWordRegex    = regexp.MustCompile(`(?i)triệu`)

	// groupedDotsRegex matches Vietnamese digit grouping such as 200.000 or 1.500.000.
	groupedDotsRegex   = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+$`)
	nonNumericRegex    = regexp.MustCompile(`[^\d.]`)
	leadingNumberRegex = regexp.MustCompile(`^(?:\d+(?:\.\d*)?|\.\d+)`)
)

var (
	thousand = decimal.NewFromInt(1_000)
	million  = decimal.NewFromInt(1_000_000)
)

// Classify maps an utterance to exactly one command. Summary phrases are
// matched first, then income, then expense; anything else is invalid.
// A transaction needs a note: an amount on its own is invalid.
// Input is NFC-normalized so decomposed Vietnamese diacritics still match.
func Classify(text string) models.Command {
	text = norm.NFC.String(strings.TrimSpace(text))

	switch {
	case totalExpenseRegex.MatchString(text):
		return models.Command{Kind: models.CommandSummary, Summary: models.SummaryTotalExpense}
	case totalIncomeRegex.MatchString(text):
		return models.Command{Kind: models.CommandSummary, Summary: models.SummaryTotalIncome}
	case totalRemainingRegex.MatchString(text):
		return models.Command{Kind: models.CommandSummary, Summary: models.SummaryTotalRemaining}
	}

	if m := incomeRegex.FindStringSubmatch(text); m != nil {
		return models.Command{
			Kind:      models.CommandTransaction,
			Direction: models.DirectionIncome,
			RawAmount: m[1],
			Note:      m[2],
		}
	}

	if m := expenseRegex.FindStringSubmatch(text); m != nil {
		return models.Command{
			Kind:      models.CommandTransaction,
			Direction: models.DirectionExpense,
			RawAmount: m[1],
			Note:      m[2],
		}
	}

	return models.Command{Kind: models.CommandInvalid}
}

// ParseAmount converts an amount token such as "15k", "1,500k", "7 triệu" or
// "200.000" to a number. A "k" suffix is checked before "triệu". Commas are
// always thousands separators; dots are thousands separators only in grouped
// form and decimal points otherwise. Input without digits yields an invalid
// Amount rather than an error.
func ParseAmount(raw string) models.Amount {
	s := norm.NFC.String(strings.TrimSpace(raw))
	multiplier := decimal.NewFromInt(1)

	switch {
	case thousandSuffixRegex.MatchString(s):
		s = thousandSuffixRegex.ReplaceAllString(s, "")
		multiplier = thousand
	case millionWordRegex.MatchString(s):
		s = millionWordRegex.ReplaceAllString(s, "")
		multiplier = million
	}

	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if groupedDotsRegex.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	s = nonNumericRegex.ReplaceAllString(s, "")

	number := leadingNumberRegex.FindString(s)
	if number == "" {
		return models.Amount{}
	}

	value, err := decimal.NewFromString(strings.TrimSuffix(number, "."))
	if err != nil {
		return models.Amount{}
	}

	return models.NewAmount(value.Mul(multiplier))
}
