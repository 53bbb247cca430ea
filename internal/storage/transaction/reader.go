package transaction

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/mosslake/finledger/internal/ledger"
)

var columns = []any{
	"id", "user_id", "account_id", "to_account_id", "pair_id",
	"type", "direction", "amount", "signed_amount", "currency",
	"conversion", "category", "description", "date", "status",
	"running_balance", "recurring_id", "recurring_due_date", "created_at",
}

// sortColumns whitelists user-selectable sort keys.
var sortColumns = map[string]string{
	"date":       "date",
	"amount":     "amount",
	"category":   "category",
	"created_at": "created_at",
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID returns (nil, nil) when the transaction does not exist.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("transactions"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	rec, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToTransaction(&rec)
}

// List returns one page of transactions matching the filter. The requested
// sort always gets date, insertion-time and id tie-breakers appended so
// paging is stable; the tie-breakers follow the primary sort direction.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) ([]*ledger.Transaction, error) {
	limit := 20
	offset := 0
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	if filter.Offset > 0 {
		offset = filter.Offset
	}

	mods := filterMods(filter)
	mods = append(mods,
		sm.Columns(columns...),
		sm.Limit(limit),
		sm.Offset(offset),
	)

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "date"
	}
	order := func(expr any) bob.Mod[*dialect.SelectQuery] {
		if filter.SortDesc {
			return sm.OrderBy(expr).Desc()
		}
		return sm.OrderBy(expr).Asc()
	}
	mods = append(mods, order(psql.Quote(column)))
	if column != "date" {
		mods = append(mods, order("date"))
	}
	mods = append(mods, order("created_at"), order("id"))

	rows, err := bob.All(ctx, r.exec, psql.Select(mods...), scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}
	return rowsToTransactions(rows)
}

// Count returns the total number of rows the filter matches, ignoring
// pagination.
func (r *Reader) Count(ctx context.Context, filter *TransactionFilter) (int64, error) {
	mods := filterMods(filter)
	mods = append(mods, sm.Columns(psql.Raw("count(*)")))
	total, err := bob.One(ctx, r.exec, psql.Select(mods...), scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, err
	}
	return total, nil
}

// ListByRecurring returns the user's transactions tagged with any recurring
// template.
func (r *Reader) ListByRecurring(ctx context.Context, userID uuid.UUID) ([]*ledger.Transaction, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("transactions"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(userID))),
		sm.Where(psql.Quote("recurring_id").IsNotNull()),
		sm.OrderBy("date").Asc(),
	)
	rows, err := bob.All(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}
	return rowsToTransactions(rows)
}

func filterMods(filter *TransactionFilter) []bob.Mod[*dialect.SelectQuery] {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.From("transactions"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
	}
	if filter.AccountID != nil {
		mods = append(mods, sm.Where(psql.Quote("account_id").EQ(psql.Arg(*filter.AccountID))))
	}
	if filter.Type != nil {
		mods = append(mods, sm.Where(psql.Quote("type").EQ(psql.Arg(string(*filter.Type)))))
	}
	if filter.Category != nil {
		mods = append(mods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
	}
	if filter.Status != nil {
		mods = append(mods, sm.Where(psql.Quote("status").EQ(psql.Arg(string(*filter.Status)))))
	}
	if filter.DateFrom != nil {
		mods = append(mods, sm.Where(psql.Quote("date").GTE(psql.Arg(*filter.DateFrom))))
	}
	if filter.DateTo != nil {
		mods = append(mods, sm.Where(psql.Quote("date").LTE(psql.Arg(*filter.DateTo))))
	}
	return mods
}
