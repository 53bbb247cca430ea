package account

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
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

// FindForUpdate locks the account row for the rest of the transaction.
// Returns (nil, nil) when the account does not exist.
func (w *Writer) FindForUpdate(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("accounts"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
	rec, err := bob.One(ctx, w.tx, q, scan.StructMapper[row]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToAccount(&rec), nil
}

func (w *Writer) Create(ctx context.Context, acc *ledger.Account) error {
	if acc.ID.IsNil() {
		id, err := uuid.NewV4()
		if err != nil {
			return err
		}
		acc.ID = id
	}
	if acc.CreatedAt.IsZero() {
		acc.CreatedAt = time.Now().UTC()
	}
	q := psql.Insert(
		im.Into("accounts",
			"id", "user_id", "name", "type", "currency",
			"balance", "starting_balance", "active", "created_at",
		),
		im.Values(psql.Arg(
			acc.ID, acc.UserID, acc.Name, int16(acc.Type), acc.Currency,
			acc.Balance, acc.StartingBalance, acc.Active, acc.CreatedAt,
		)),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	q := psql.Update(
		um.Table("accounts"),
		um.SetCol("balance").ToArg(balance),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

// ApplyBalanceDelta shifts the balance in place so concurrent writers on
// other accounts never clobber each other.
func (w *Writer) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	q := psql.Update(
		um.Table("accounts"),
		um.SetCol("balance").To(psql.Raw("balance + ?", delta)),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

// SetActive closes or reopens an account.
func (w *Writer) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := psql.Update(
		um.Table("accounts"),
		um.SetCol("active").ToArg(active),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}

// Rename updates the display name.
func (w *Writer) Rename(ctx context.Context, id uuid.UUID, name string) error {
	q := psql.Update(
		um.Table("accounts"),
		um.SetCol("name").ToArg(name),
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	_, err := bob.Exec(ctx, w.tx, q)
	return err
}
