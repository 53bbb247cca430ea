package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/storage"
)

type DeleteTransaction struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (a *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	return ledgerEngine(writer).DeleteTransaction(ctx, a.ID, a.UserID)
}
