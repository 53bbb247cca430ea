package actions

import (
	"context"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/storage"
)

// CreateTransaction runs a ledger create inside the worker's unit of work.
// Result carries the source-side record back to the caller after Process
// returns.
type CreateTransaction struct {
	Input  ledger.CreateInput
	Result *ledger.Transaction
}

func (a *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := ledgerEngine(writer).CreateTransaction(ctx, a.Input)
	if err != nil {
		return err
	}
	a.Result = tx
	return nil
}
