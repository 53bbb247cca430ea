package template

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

	"github.com/mosslake/finledger/internal/recurring"
)

var columns = []any{
	"id", "user_id", "type", "amount", "currency", "account_id",
	"to_account_id", "category", "description", "frequency", "interval",
	"interval_unit", "start_date", "next_due_date", "end_date",
	"last_executed_at", "skip_dates", "split", "splits", "loan",
	"active", "created_at",
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID returns (nil, nil) when the template does not exist.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*recurring.Template, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("recurring_transactions"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	rec, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToTemplate(&rec)
}

// List returns the user's templates ordered by next due date.
func (r *Reader) List(ctx context.Context, filter *TemplateFilter) ([]*recurring.Template, error) {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From("recurring_transactions"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
		sm.OrderBy("next_due_date").Asc(),
		sm.OrderBy("id").Asc(),
	}
	if !filter.IncludeInactive {
		mods = append(mods, sm.Where(psql.Quote("active").EQ(psql.Arg(true))))
	}
	rows, err := bob.All(ctx, r.exec, psql.Select(mods...), scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}
	out := make([]*recurring.Template, len(rows))
	for i := range rows {
		tpl, err := rowToTemplate(&rows[i])
		if err != nil {
			return nil, err
		}
		out[i] = tpl
	}
	return out, nil
}
