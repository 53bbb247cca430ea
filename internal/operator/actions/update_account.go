package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/storage"
)

// UpdateAccount renames or closes/reopens an account. Nil fields are left
// untouched.
type UpdateAccount struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   *string
	Active *bool

	Result *ledger.Account
}

func (a *UpdateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Account.FindForUpdate(ctx, a.ID)
	if err != nil {
		return err
	}
	if acc == nil || acc.UserID != a.UserID {
		return fmt.Errorf("account %s: %w", a.ID, ledger.ErrNotFound)
	}

	if a.Name != nil {
		if *a.Name == "" {
			return fmt.Errorf("account name is required: %w", ledger.ErrInvalidInput)
		}
		if err := writer.Account.Rename(ctx, acc.ID, *a.Name); err != nil {
			return err
		}
		acc.Name = *a.Name
	}
	if a.Active != nil {
		if err := writer.Account.SetActive(ctx, acc.ID, *a.Active); err != nil {
			return err
		}
		acc.Active = *a.Active
	}
	a.Result = acc
	return nil
}
