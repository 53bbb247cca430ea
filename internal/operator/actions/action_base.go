package actions

import (
	"context"

	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/recurring"
	"github.com/mosslake/finledger/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// ledgerEngine builds a ledger engine bound to the writer's unit of work.
func ledgerEngine(writer *storage.Writer) *ledger.Engine {
	return ledger.NewEngine(writer.Account, writer.Transaction, &ledger.StaticCategoryValidator{})
}

// recurringEngine builds a recurring engine whose generated transactions go
// through the same unit of work as the template mutation.
func recurringEngine(writer *storage.Writer) *recurring.Engine {
	return recurring.NewEngine(writer.Template, ledgerEngine(writer), writer.Transaction)
}
