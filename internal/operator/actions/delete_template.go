package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/mosslake/finledger/internal/storage"
)

type DeleteTemplate struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

func (a *DeleteTemplate) Perform(ctx context.Context, writer *storage.Writer) error {
	return recurringEngine(writer).DeleteTemplate(ctx, a.ID, a.UserID)
}
