package actions

import (
	"context"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/storage"
)

// ExecuteTemplate materializes one occurrence of a recurring template. The
// generated ledger records and the template's cursor advance commit together.
type ExecuteTemplate struct {
	Input  recurring.ExecuteInput
	Result []*ledger.Transaction
}

func (a *ExecuteTemplate) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := recurringEngine(writer).Execute(ctx, a.Input)
	if err != nil {
		return err
	}
	a.Result = created
	return nil
}
