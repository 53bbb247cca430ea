package template

import (
	"context"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"

	"github.com/mosslake/finledger/internal/recurring"
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

func (w *Writer) Insert(ctx context.Context, tpl *recurring.Template) error {
	enc, err := encodeTemplate(tpl)
	if err != nil {
		return err
	}
	q := psql.Insert(
		im.Into("recurring_transactions",
			"id", "user_id", "type", "amount", "currency", "account_id",
			"to_account_id", "category", "description", "frequency", "interval",
			"interval_unit", "start_date", "next_due_date", "end_date",
			"last_executed_at", "skip_dates", "split", "splits", "loan",
			"active", "created_at",
		),
		im.Values(psql.Arg(
			tpl.ID, tpl.UserID, string(tpl.Type), tpl.Amount, tpl.Currency, tpl.AccountID,
			enc.toAccountID, tpl.Category, tpl.Description, string(tpl.Frequency), tpl.Interval,
			string(tpl.IntervalUnit), tpl.StartDate, tpl.NextDueDate, enc.endDate,
			enc.lastExecutedAt, enc.skipDates, tpl.Split, enc.splits, enc.loan,
			tpl.Active, tpl.CreatedAt,
		)),
	)
	_, err = bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) Update(ctx context.Context, tpl *recurring.Template) error {
	enc, err := encodeTemplate(tpl)
	if err != nil {
		return err
	}
	q := psql.Update(
		um.Table("recurring_transactions"),
		um.SetCol("amount").ToArg(tpl.Amount),
		um.SetCol("category").ToArg(tpl.Category),
		um.SetCol("description").ToArg(tpl.Description),
		um.SetCol("frequency").ToArg(string(tpl.Frequency)),
		um.SetCol("interval").ToArg(tpl.Interval),
		um.SetCol("interval_unit").ToArg(string(tpl.IntervalUnit)),
		um.SetCol("next_due_date").ToArg(tpl.NextDueDate),
		um.SetCol("end_date").ToArg(enc.endDate),
		um.SetCol("last_executed_at").ToArg(enc.lastExecutedAt),
		um.SetCol("skip_dates").ToArg(enc.skipDates),
		um.SetCol("split").ToArg(tpl.Split),
		um.SetCol("splits").ToArg(enc.splits),
		um.SetCol("loan").ToArg(enc.loan),
		um.SetCol("active").ToArg(tpl.Active),
		um.Where(psql.Quote("id").EQ(psql.Arg(tpl.ID))),
	)
	_, err = bob.Exec(ctx, w.tx, q)
	return err
}
