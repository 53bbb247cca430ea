package account

import (
	"context"
	"time"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/operator/actions"
)

// Account is the API response model for an account.
type Account struct {
	ID              string `json:"id" doc:"Account UUID"`
	Name            string `json:"name" doc:"Account name"`
	Type            int    `json:"type" doc:"Account type: 0=Cash, 1=Credit Cards, 2=Investments, 3=Loans, 4=Assets"`
	Currency        string `json:"currency" doc:"ISO currency code"`
	Balance         string `json:"balance" doc:"Current decimal balance"`
	StartingBalance string `json:"startingBalance" doc:"Balance at creation"`
	Active          bool   `json:"active" doc:"False once the account is closed"`
	CreatedAt       string `json:"createdAt" doc:"RFC3339 creation time"`
}

// processor is the slice of the operator the write handlers need.
type processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

func fromLedger(acc *ledger.Account) Account {
	return Account{
		ID:              acc.ID.String(),
		Name:            acc.Name,
		Type:            int(acc.Type),
		Currency:        acc.Currency,
		Balance:         acc.Balance.String(),
		StartingBalance: acc.StartingBalance.String(),
		Active:          acc.Active,
		CreatedAt:       acc.CreatedAt.Format(time.RFC3339),
	}
}
