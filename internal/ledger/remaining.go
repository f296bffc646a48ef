package ledger

import (
	"context"
	"fmt"

	"gitlab.com/yelinaung/ledger-bot/internal/models"
	"golang.org/x/sync/errgroup"
)

// Remaining fetches the monthly income and expense totals concurrently and
// combines them. It is all-or-nothing: a transport or decoding failure on
// either call is returned as an error, and a rejection on either call yields
// a summary with OK unset and no totals.
func Remaining(ctx context.Context, q Querier) (models.RemainingSummary, error) {
	var income, expense models.SummaryResult

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := q.Query(gctx, ActionMonthlyIncome)
		if err != nil {
			return err
		}
		income = r
		return nil
	})
	g.Go(func() error {
		r, err := q.Query(gctx, ActionMonthlyExpense)
		if err != nil {
			return err
		}
		expense = r
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.RemainingSummary{}, err
	}

	if !income.OK() || !expense.OK() {
		return models.RemainingSummary{}, nil
	}

	if !income.HasTotal || !expense.HasTotal {
		return models.RemainingSummary{}, &GatewayError{
			Op:  "remaining",
			Err: fmt.Errorf("%w: successful reply without total", ErrMalformedResponse),
		}
	}

	return models.RemainingSummary{
		Income:  income.Total,
		Expense: expense.Total,
		OK:      true,
	}, nil
}
