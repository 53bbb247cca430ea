package transaction

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/mosslake/finledger/internal/ledger"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Insert(ctx context.Context, tx *ledger.Transaction) error {
	conv, err := conversionJSON(tx.Conversion)
	if err != nil {
		return err
	}
	q := psql.Insert(
		im.Into("transactions",
			"id", "user_id", "account_id", "to_account_id", "pair_id",
			"type", "direction", "amount", "signed_amount", "currency",
			"conversion", "category", "description", "date", "status",
			"running_balance", "recurring_id", "recurring_due_date", "created_at",
		),
		im.Values(psql.Arg(
			tx.ID, tx.UserID, tx.AccountID, nullUUID(tx.ToAccountID), nullUUID(tx.PairID),
			string(tx.Type), string(tx.Direction), tx.Amount, tx.SignedAmount, tx.Currency,
			conv, tx.Category, tx.Description, tx.Date, string(tx.Status),
			tx.RunningBalance, nullUUID(tx.RecurringID), nullTime(tx.RecurringDueDate), tx.CreatedAt,
		)),
	)
	_, err = bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) Update(ctx context.Context, tx *ledger.Transaction) error {
	conv, err := conversionJSON(tx.Conversion)
	if err != nil {
		return err
	}
	q := psql.Update(
		um.Table("transactions"),
		um.SetCol("account_id").ToArg(tx.AccountID),
		um.SetCol("to_account_id").ToArg(nullUUID(tx.ToAccountID)),
		um.SetCol("type").ToArg(string(tx.Type)),
		um.SetCol("direction").ToArg(string(tx.Direction)),
		um.SetCol("amount").ToArg(tx.Amount),
		um.SetCol("signed_amount").ToArg(tx.SignedAmount),
		um.SetCol("currency").ToArg(tx.Currency),
		um.SetCol("conversion").ToArg(conv),
		um.SetCol("category").ToArg(tx.Category),
		um.SetCol("description").ToArg(tx.Description),
		um.SetCol("date").ToArg(tx.Date),
		um.SetCol("status").ToArg(string(tx.Status)),
		um.SetCol("running_balance").ToArg(tx.RunningBalance),
		um.Where(psql.Quote("id").EQ(psql.Arg(tx.ID))),
	)
	_, err = bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

// ListCompletedForUpdate locks the account's completed transactions for the
// unit of work. Chain code orders them itself, so no ORDER BY here.
func (w *Writer) ListCompletedForUpdate(ctx context.Context, accountID uuid.UUID) ([]*ledger.Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("transactions"),
		sm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
		sm.Where(psql.Quote("status").EQ(psql.Arg(string(ledger.StatusCompleted)))),
		sm.ForUpdate(),
	)
	rows, err := bob.All(ctx, w.tx, q, scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}
	return rowsToTransactions(rows)
}

func (w *Writer) SetRunningBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	q := psql.Update(
		um.Table("transactions"),
		um.SetCol("running_balance").ToArg(balance),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
