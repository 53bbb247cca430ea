package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/storage"
)

type CreateAccount struct {
	UserID          uuid.UUID
	Name            string
	Type            ledger.AccountType
	Currency        string
	StartingBalance decimal.Decimal

	Result *ledger.Account
}

func (a *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	if a.Name == "" {
		return fmt.Errorf("account name is required: %w", ledger.ErrInvalidInput)
	}
	if a.Currency == "" {
		return fmt.Errorf("account currency is required: %w", ledger.ErrInvalidInput)
	}

	acc := &ledger.Account{
		UserID:          a.UserID,
		Name:            a.Name,
		Type:            a.Type,
		Currency:        a.Currency,
		Balance:         a.StartingBalance,
		StartingBalance: a.StartingBalance,
		Active:          true,
	}
	if err := writer.Account.Create(ctx, acc); err != nil {
		return err
	}
	a.Result = acc
	return nil
}
