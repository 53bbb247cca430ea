package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/storage"
)

type UpdateTransaction struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Input  ledger.UpdateInput
	Result *ledger.Transaction
}

func (a *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := ledgerEngine(writer).UpdateTransaction(ctx, a.ID, a.UserID, a.Input)
	if err != nil {
		return err
	}
	a.Result = tx
	return nil
}
