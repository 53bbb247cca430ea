package account

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
	"id", "user_id", "name", "type", "currency",
	"balance", "starting_balance", "active", "created_at",
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID returns (nil, nil) when the account does not exist.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From("accounts"),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	rec, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rowToAccount(&rec), nil
}

// List returns the user's accounts ordered by name. Closed accounts are
// excluded unless the filter asks for them.
func (r *Reader) List(ctx context.Context, filter *AccountFilter) ([]*ledger.Account, error) {
	mods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From("accounts"),
		sm.Where(psql.Quote("user_id").EQ(psql.Arg(filter.UserID))),
		sm.OrderBy("name").Asc(),
		sm.OrderBy("id").Asc(),
	}
	if !filter.IncludeClosed {
		mods = append(mods, sm.Where(psql.Quote("active").EQ(psql.Arg(true))))
	}
	rows, err := bob.All(ctx, r.exec, psql.Select(mods...), scan.StructMapper[row]())
	if err != nil {
		return nil, err
	}
	out := make([]*ledger.Account, len(rows))
	for i := range rows {
		out[i] = rowToAccount(&rows[i])
	}
	return out, nil
}
