package account

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/ledger"
)

// row mirrors the accounts table.
type row struct {
	ID              uuid.UUID       `db:"id"`
	UserID          uuid.UUID       `db:"user_id"`
	Name            string          `db:"name"`
	Type            int16           `db:"type"`
	Currency        string          `db:"currency"`
	Balance         decimal.Decimal `db:"balance"`
	StartingBalance decimal.Decimal `db:"starting_balance"`
	Active          bool            `db:"active"`
	CreatedAt       time.Time       `db:"created_at"`
}

// AccountFilter specifies filters for listing accounts.
type AccountFilter struct {
	UserID        uuid.UUID
	IncludeClosed bool
}

func rowToAccount(r *row) *ledger.Account {
	return &ledger.Account{
		ID:              r.ID,
		UserID:          r.UserID,
		Name:            r.Name,
		Type:            ledger.AccountType(r.Type),
		Currency:        r.Currency,
		Balance:         r.Balance,
		StartingBalance: r.StartingBalance,
		Active:          r.Active,
		CreatedAt:       r.CreatedAt,
	}
}
